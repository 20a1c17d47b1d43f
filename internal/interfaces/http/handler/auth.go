package handler

import (
	"github.com/gin-gonic/gin"

	"llm-credits-api/internal/application/user"
	"llm-credits-api/internal/interfaces/http/dto"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	userSvc *user.Service
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(userSvc *user.Service) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

// Register 注册
// @Summary 用户注册
// @Description 注册新用户并授予初始额度
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册请求"
// @Success 201 {object} dto.Response[dto.UserResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	u, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.ToUserResponse(u))
}

// Login 登录
// @Summary 用户登录
// @Description 校验凭证并签发访问与刷新令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录请求"
// @Success 200 {object} dto.Response[dto.TokenResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	u, pair, err := h.userSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, &dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         dto.ToUserResponse(u),
	})
}

// Refresh 刷新令牌
// @Summary 刷新令牌
// @Description 用刷新令牌换取新的令牌对
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "刷新请求"
// @Success 200 {object} dto.Response[dto.TokenResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	pair, err := h.userSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, &dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout 登出
// @Summary 用户登出
// @Description 令牌为无状态 JWT，服务端不保留会话，客户端丢弃令牌即完成登出
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.Response[gin.H]
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	dto.Success(c, gin.H{"message": "logged out"})
}
