package services

import (
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
	"github.com/dananjarukshan/CBC-Website/pkg/logger"
	"github.com/dananjarukshan/CBC-Website/utils"
)

// 登录流程的哨兵错误，由控制器映射为对应的HTTP状态
var (
	// ErrUserNotFound 账户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrUserBlocked 账户因连续登录失败达到阈值被封锁
	ErrUserBlocked = errors.New("account is blocked due to multiple invalid login attempts")
	// ErrInvalidPassword 密码不匹配
	ErrInvalidPassword = errors.New("incorrect password")
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("email already registered")
)

// InterfaceUserService 用户服务接口
type InterfaceUserService interface {
	Register(user *models.User, plainPassword string) error
	Authenticate(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
}

// UserService 提供账户注册与登录守卫
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService 创建一个新的用户服务
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// 1 Register 注册新账户，明文密码仅用于生成哈希，不落库
func (s *UserService) Register(user *models.User, plainPassword string) error {
	// 验证邮箱唯一性
	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(plainPassword)
	if err != nil {
		return fmt.Errorf("密码加密失败: %v", err)
	}
	user.Password = hashedPassword

	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if user.Image == "" {
		user.Image = "default.jpg"
	}

	// 并发注册可能穿过前置检查，唯一索引冲突同样映射为邮箱已占用
	if err := s.DB.Create(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// isDuplicateKeyError 判断是否为唯一索引冲突（MySQL错误码1062）
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *gomysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// 2 Authenticate 执行登录守卫状态机：
//   - 账户不存在 → ErrUserNotFound
//   - invalid_tries 达到阈值 → ErrUserBlocked（不再校验密码，也不再累加计数）
//   - 密码匹配 → 尽力重置计数为0，失败仅记录日志，登录仍然成功
//   - 密码不匹配 → 尽力原子自增计数，返回 ErrInvalidPassword
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	if user.IsLocked() {
		return nil, ErrUserBlocked
	}

	if utils.CheckPasswordHash(password, user.Password) {
		// 计数重置是旁路写入，不影响登录结果
		if err := s.resetInvalidTries(email); err != nil {
			logger.Warning("重置账户 %s 的登录失败计数失败: %v", email, err)
		}
		user.InvalidTries = 0
		return user, nil
	}

	// 计数自增同样是旁路写入
	if err := s.incrementInvalidTries(email); err != nil {
		logger.Warning("累加账户 %s 的登录失败计数失败: %v", email, err)
	}
	return nil, ErrInvalidPassword
}

// 3 GetUserByEmail 根据邮箱获取账户（精确匹配）
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// resetInvalidTries 将登录失败计数置0。
// 单条UPDATE语句在存储层完成，并发登录不会丢失更新。
func (s *UserService) resetInvalidTries(email string) error {
	return s.DB.Model(&models.User{}).
		Where("email = ?", email).
		Update("invalid_tries", 0).Error
}

// incrementInvalidTries 原子自增登录失败计数。
// 自增表达式在存储层求值，禁止应用层读改写。
func (s *UserService) incrementInvalidTries(email string) error {
	return s.DB.Model(&models.User{}).
		Where("email = ?", email).
		Update("invalid_tries", gorm.Expr("invalid_tries + ?", 1)).Error
}
