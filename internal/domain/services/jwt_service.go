package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	ExtractClaims(tokenString string) (*TokenClaims, error)
}

// TokenClaims 定义JWT令牌的声明结构，包含签发时刻的账户快照
type TokenClaims struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
	Image           string `json:"image"`
	jwt.RegisteredClaims
}

// IsAdmin 判断声明对应的账户是否为管理员。
// 未认证（nil）或角色字段缺失时一律视为非管理员。
func (c *TokenClaims) IsAdmin() bool {
	if c == nil {
		return false
	}
	return c.Role == models.RoleAdmin
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey string
	issuer    string
	expiry    time.Duration
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config) InterfaceJWTService {
	expiryHours := cfg.JWTExpiryHours
	if expiryHours <= 0 {
		expiryHours = 2
	}

	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "cbc-website",
		expiry:    time.Duration(expiryHours) * time.Hour,
	}
}

// 1 GenerateToken 为账户签发令牌，有效期由配置决定（默认2小时）
func (s *JWTService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := &TokenClaims{
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		Image:           user.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// 2 ValidateToken 验证JWT令牌
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
}

// 3 ExtractClaims 从令牌中提取声明
func (s *JWTService) ExtractClaims(tokenString string) (*TokenClaims, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
