package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secret@123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	// 哈希不应等于明文
	assert.NotEqual(t, "Secret@123", hash)

	// 哈希成本应与配置一致
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordHashCost, cost)
}

func TestHashPasswordSalted(t *testing.T) {
	// 相同明文两次哈希结果不同（随机盐）
	hash1, err := HashPassword("Secret@123")
	require.NoError(t, err)
	hash2, err := HashPassword("Secret@123")
	require.NoError(t, err)
	assert.NotEqual(t, hash1, hash2)

	// 两个哈希都能通过校验
	assert.True(t, CheckPasswordHash("Secret@123", hash1))
	assert.True(t, CheckPasswordHash("Secret@123", hash2))
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("Secret@123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("Secret@123", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
	assert.False(t, CheckPasswordHash("", hash))
	assert.False(t, CheckPasswordHash("Secret@123", "not-a-bcrypt-hash"))
}
