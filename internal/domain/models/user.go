package models

// 用户角色常量
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// MaxInvalidTries 连续登录失败次数达到该阈值后账户被封锁
const MaxInvalidTries = 100

// User represents a store account (admin or customer)
type User struct {
	BaseModel
	Email           string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	FirstName       string `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName        string `gorm:"type:varchar(50);not null" json:"last_name"`
	Password        string `gorm:"type:varchar(100);not null" json:"-"` // bcrypt哈希，永不返回
	Role            string `gorm:"type:varchar(20);default:'customer'" json:"role"` // Role: admin, customer
	IsBlocked       bool   `gorm:"default:false" json:"is_blocked"`
	IsEmailVerified bool   `gorm:"default:false" json:"is_email_verified"`
	Image           string `gorm:"type:varchar(255);default:'default.jpg'" json:"image"`
	InvalidTries    int    `gorm:"default:0" json:"-"` // 连续登录失败计数，成功登录时重置
}

// IsLocked 判断账户是否因连续登录失败被封锁
func (u *User) IsLocked() bool {
	return u.InvalidTries >= MaxInvalidTries
}
