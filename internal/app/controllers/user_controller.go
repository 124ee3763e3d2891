package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/domain/services"
	"github.com/dananjarukshan/CBC-Website/internal/domain/services/container"
	"github.com/dananjarukshan/CBC-Website/internal/error/code"
	"github.com/dananjarukshan/CBC-Website/internal/error/response"
)

// InterfaceUserController 定义用户控制器接口
type InterfaceUserController interface {
	Register()
	Login()
}

// UserController 用户控制器
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController 创建一个新的用户控制器
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password  string `json:"password" binding:"required" example:"Secret@123"`
	FirstName string `json:"first_name" binding:"required" example:"Jane"`
	LastName  string `json:"last_name" binding:"required" example:"Doe"`
	Role      string `json:"role" binding:"omitempty,oneof=admin customer" example:"customer"`
	Image     string `json:"image" example:"avatar.jpg"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"Secret@123"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"101002"`
	Message string      `json:"message" example:"Incorrect password"`
	Data    interface{} `json:"data"`
}

// HandleUserFunc 返回一个处理用户请求的Gin处理函数
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "register":
			controller.Register()
		case "login":
			controller.Login()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1 Register 注册新账户
// @Summary      User Registration
// @Description  Register a new store account; the password is hashed before it is stored
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration parameters"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse  "Validation or duplicate email"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /users [post]
func (c *UserController) Register() {
	var req RegisterRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	user := &models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Image:     req.Image,
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.Register(user, req.Password); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.Fail(c.Ctx, code.ErrUserAlreadyExist, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建用户失败: "+err.Error(), nil)
		return
	}

	// 不返回密码哈希，仅返回标识信息
	response.Created(c.Ctx, "User created successfully", gin.H{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// 2 Login 处理用户登录
// @Summary      User Login
// @Description  Verify credentials, enforce the invalid-attempt lockout and return a JWT token
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  map[string]interface{}  "Success response with token"
// @Failure      401  {object}  ErrorResponse  "Incorrect password"
// @Failure      403  {object}  ErrorResponse  "Account blocked"
// @Failure      404  {object}  ErrorResponse  "User not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /users/login [post]
func (c *UserController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			response.FailWithMessage(c.Ctx, code.ErrUserNotFound, "User not found", nil)
		case errors.Is(err, services.ErrUserBlocked):
			response.FailWithMessage(c.Ctx, code.ErrUserBlocked, "Account is blocked due to multiple invalid login attempts", nil)
		case errors.Is(err, services.ErrInvalidPassword):
			response.FailWithMessage(c.Ctx, code.ErrUserPasswordIncorrect, "Incorrect password", nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "登录失败: "+err.Error(), nil)
		}
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	token, err := jwtService.GenerateToken(user)
	if err != nil {
		response.Fail(c.Ctx, code.ErrTokenGeneration, nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Login successful", gin.H{
		"user": gin.H{
			"email": user.Email,
		},
		"token": token,
	})
}
