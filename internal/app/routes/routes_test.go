package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/domain/services"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
	"github.com/dananjarukshan/CBC-Website/utils"
)

// setupTestRouter 构造一个挂在sqlmock数据库上的完整路由。
// Redis地址指向不可达端口，商品服务退化为直连数据库。
func setupTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecretKey:   "routes-test-secret",
		JWTExpiryHours: 2,
		RedisHost:      "127.0.0.1",
		RedisPort:      "1",
	}

	return SetupRouter(db, cfg), mock, cfg
}

func doJSON(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func issueToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	token, err := services.NewJWTService(cfg).GenerateToken(&models.User{
		Email: "someone@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func loginUserRows(t *testing.T, password string, invalidTries int) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "email", "password", "role", "invalid_tries"}).
		AddRow(1, "jane@example.com", hash, models.RoleCustomer, invalidTries)
}

func TestRegisterEndpoint(t *testing.T) {
	r, mock, _ := setupTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `users` WHERE email = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPost, "/users", gin.H{
		"email":      "jane@example.com",
		"password":   "Secret@123",
		"first_name": "Jane",
		"last_name":  "Doe",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	// 响应不包含密码哈希
	assert.NotContains(t, w.Body.String(), "password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterEndpointValidation(t *testing.T) {
	r, mock, _ := setupTestRouter(t)

	// 参数校验失败不触发任何数据库访问
	w := doJSON(r, http.MethodPost, "/users", gin.H{
		"email":    "not-an-email",
		"password": "Secret@123",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginEndpointUnknownUser(t *testing.T) {
	r, mock, _ := setupTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := doJSON(r, http.MethodPost, "/users/login", gin.H{
		"email":    "ghost@example.com",
		"password": "whatever",
	}, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginEndpointSuccess(t *testing.T) {
	r, mock, _ := setupTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(loginUserRows(t, "Secret@123", 3))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET .*`invalid_tries`=\\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPost, "/users/login", gin.H{
		"email":    "jane@example.com",
		"password": "Secret@123",
	}, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
	assert.Contains(t, w.Body.String(), "Login successful")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLoginLockoutFlow 验证登录守卫的临界行为：
// 失败计数为99时错误密码仍返回401并累加计数，
// 计数达到100后即使密码正确也返回403。
func TestLoginLockoutFlow(t *testing.T) {
	r, mock, _ := setupTestRouter(t)

	// 第一步：计数99 + 错误密码 → 401，计数自增到100
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(loginUserRows(t, "Secret@123", models.MaxInvalidTries-1))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET .*`invalid_tries`=invalid_tries \\+ \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPost, "/users/login", gin.H{
		"email":    "jane@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect password")

	// 第二步：计数100 + 正确密码 → 403，不再产生写入
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(loginUserRows(t, "Secret@123", models.MaxInvalidTries))

	w = doJSON(r, http.MethodPost, "/users/login", gin.H{
		"email":    "jane@example.com",
		"password": "Secret@123",
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "blocked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductListVisibility(t *testing.T) {
	t.Run("匿名请求只看到上架商品", func(t *testing.T) {
		r, mock, _ := setupTestRouter(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `products` WHERE is_available = ?")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "is_available"}).
				AddRow(1, "CBC-001", "Herbal Face Cream", true))

		w := doJSON(r, http.MethodGet, "/products", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "CBC-001")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("管理员看到全部商品", func(t *testing.T) {
		r, mock, cfg := setupTestRouter(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `products`")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "is_available"}).
				AddRow(1, "CBC-001", "Herbal Face Cream", true).
				AddRow(2, "CBC-002", "Aloe Gel", false))

		w := doJSON(r, http.MethodGet, "/products", nil, issueToken(t, cfg, models.RoleAdmin))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "CBC-002")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestProductWriteRequiresAdmin 验证写路由的角色门禁：
// 非管理员请求被拒绝且不产生任何数据库访问。
func TestProductWriteRequiresAdmin(t *testing.T) {
	payload := gin.H{
		"name":   "Herbal Face Cream",
		"price":  1250,
		"images": []string{"cream.jpg"},
	}

	tests := []struct {
		name  string
		token func(t *testing.T, cfg *config.Config) string
	}{
		{"匿名请求", func(t *testing.T, cfg *config.Config) string { return "" }},
		{"顾客令牌", func(t *testing.T, cfg *config.Config) string { return issueToken(t, cfg, models.RoleCustomer) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock, cfg := setupTestRouter(t)

			w := doJSON(r, http.MethodPost, "/products", payload, tt.token(t, cfg))
			assert.Equal(t, http.StatusForbidden, w.Code)

			w = doJSON(r, http.MethodDelete, "/products/CBC-001", nil, tt.token(t, cfg))
			assert.Equal(t, http.StatusForbidden, w.Code)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductCreateAsAdmin(t *testing.T) {
	r, mock, cfg := setupTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `products` WHERE product_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `products`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPost, "/products", gin.H{
		"name":           "Herbal Face Cream",
		"description":    "Brightening face cream",
		"price":          1250,
		"labelled_price": 1500,
		"category":       "skincare",
		"images":         []string{"cream.jpg"},
	}, issueToken(t, cfg, models.RoleAdmin))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCreateValidation(t *testing.T) {
	r, mock, cfg := setupTestRouter(t)

	// 缺少description/labelled_price/category等必填字段时绑定失败，不触发数据库访问
	w := doJSON(r, http.MethodPost, "/products", gin.H{
		"name":   "Herbal Face Cream",
		"price":  1250,
		"images": []string{"cream.jpg"},
	}, issueToken(t, cfg, models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPingEndpoint(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
