package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusCreated - 201: 创建成功.
	StatusCreated = 201
	// StatusNoContent - 204: 无内容.
	StatusNoContent = 204
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 403: 令牌无效.
	ErrTokenInvalid
	// ErrPermissionDenied - 403: 权限不足.
	ErrPermissionDenied
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
	// ErrUserBlocked - 403: 账户因多次登录失败被封锁.
	ErrUserBlocked
	// ErrTokenGeneration - 500: 令牌生成失败.
	ErrTokenGeneration
)

// 商品相关错误码 (102xxx).
const (
	// ErrProductNotFound - 404: 商品不存在.
	ErrProductNotFound int = iota + 102000
	// ErrProductAlreadyExist - 400: 商品已存在.
	ErrProductAlreadyExist
	// ErrProductExportFailed - 500: 商品导出失败.
	ErrProductExportFailed
)

// 数据库相关错误码 (103xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 103000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
