package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
)

const testSecret = "unit-test-secret"

func newTestJWTService(expiryHours int) InterfaceJWTService {
	return NewJWTService(&config.Config{
		JWTSecretKey:   testSecret,
		JWTExpiryHours: expiryHours,
	})
}

func testUser() *models.User {
	return &models.User{
		Email:           "jane@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		Role:            models.RoleCustomer,
		IsEmailVerified: true,
		Image:           "avatar.jpg",
	}
}

func TestGenerateAndExtractClaims(t *testing.T) {
	service := newTestJWTService(2)
	user := testUser()

	token, err := service.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ExtractClaims(token)
	require.NoError(t, err)

	// 声明携带签发时刻的账户快照
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.FirstName, claims.FirstName)
	assert.Equal(t, user.LastName, claims.LastName)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, user.IsEmailVerified, claims.IsEmailVerified)
	assert.Equal(t, user.Image, claims.Image)
	assert.Equal(t, "cbc-website", claims.Issuer)
}

func TestTokenExpiry(t *testing.T) {
	service := newTestJWTService(2)

	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)

	claims, err := service.ExtractClaims(token)
	require.NoError(t, err)

	// 有效期为配置的2小时
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 2*time.Hour, lifetime)
}

func TestExpiredTokenRejected(t *testing.T) {
	service := newTestJWTService(2)

	// 手工构造一个已过期的令牌
	now := time.Now()
	claims := &TokenClaims{
		Email: "jane@example.com",
		Role:  models.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-3 * time.Hour)),
			Issuer:    "cbc-website",
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = service.ExtractClaims(expired)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	service := newTestJWTService(2)

	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)

	// 篡改令牌末尾（破坏签名）
	tampered := token[:len(token)-2] + "xx"
	_, err = service.ExtractClaims(tampered)
	assert.Error(t, err)
}

func TestWrongKeyRejected(t *testing.T) {
	service := newTestJWTService(2)
	other := NewJWTService(&config.Config{
		JWTSecretKey:   "a-different-secret",
		JWTExpiryHours: 2,
	})

	token, err := other.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = service.ExtractClaims(token)
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name   string
		claims *TokenClaims
		want   bool
	}{
		{"nil声明视为非管理员", nil, false},
		{"管理员角色", &TokenClaims{Role: models.RoleAdmin}, true},
		{"普通顾客", &TokenClaims{Role: models.RoleCustomer}, false},
		{"角色缺失", &TokenClaims{}, false},
		{"大小写不匹配", &TokenClaims{Role: "Admin"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.IsAdmin())
		})
	}
}
