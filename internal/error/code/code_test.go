package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"成功", ErrSuccess, StatusOK},
		{"用户不存在", ErrUserNotFound, StatusNotFound},
		{"密码错误", ErrUserPasswordIncorrect, StatusUnauthorized},
		{"账户封锁", ErrUserBlocked, StatusForbidden},
		{"令牌无效", ErrTokenInvalid, StatusForbidden},
		{"权限不足", ErrPermissionDenied, StatusForbidden},
		{"商品不存在", ErrProductNotFound, StatusNotFound},
		{"限流", ErrTooManyRequests, StatusTooManyRequests},
		{"未知错误码回退500", 999999, StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetStatus(tt.code))
		})
	}
}

func TestGetMessage(t *testing.T) {
	assert.Equal(t, "用户不存在", GetMessage(ErrUserNotFound))
	assert.Equal(t, "未知错误", GetMessage(999999))
}

// 错误码分段不应重叠
func TestCodeRanges(t *testing.T) {
	assert.GreaterOrEqual(t, ErrUserNotFound, 101000)
	assert.Less(t, ErrTokenGeneration, 102000)
	assert.GreaterOrEqual(t, ErrProductNotFound, 102000)
	assert.Less(t, ErrProductExportFailed, 103000)
	assert.GreaterOrEqual(t, ErrDatabase, 103000)
}
