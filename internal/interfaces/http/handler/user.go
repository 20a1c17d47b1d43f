package handler

import (
	"github.com/gin-gonic/gin"

	"llm-credits-api/internal/application/user"
	"llm-credits-api/internal/domain/repository"
	"llm-credits-api/internal/interfaces/http/dto"
	"llm-credits-api/internal/interfaces/http/middleware"
)

// UserHandler 用户处理器
type UserHandler struct {
	userSvc *user.Service
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userSvc *user.Service) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me 当前用户信息
// @Summary 当前用户
// @Description 返回当前登录用户与额度余额
// @Tags User
// @Produce json
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Security BearerAuth
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToUserResponse(u))
}

// List 管理端用户列表
// @Summary 用户列表
// @Description 分页返回全部用户
// @Tags Admin
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.UserResponse]
// @Security BearerAuth
// @Router /api/v1/admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.userSvc.List(c.Request.Context(), repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToUserResponses(result.Items), dto.NewPageMeta(page.Page, page.PageSize, int(result.Total)))
}

// Get 管理端获取用户
// @Summary 获取用户
// @Tags Admin
// @Produce json
// @Param id path string true "用户 ID"
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), dto.BindID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToUserResponse(u))
}

// AdjustCredits 管理端调整额度
// @Summary 调整用户额度
// @Description 正数充值负数扣减，扣减不会使余额为负
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "用户 ID"
// @Param request body dto.AdjustCreditsRequest true "调整请求"
// @Success 200 {object} dto.Response[dto.AdjustCreditsResponse]
// @Failure 402 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/users/{id}/credits [post]
func (h *UserHandler) AdjustCredits(c *gin.Context) {
	var req dto.AdjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	userID := dto.BindID(c)
	balance, err := h.userSvc.AdjustCredits(c.Request.Context(), userID, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, &dto.AdjustCreditsResponse{
		UserID:  userID,
		Balance: balance,
	})
}

// SetAdmin 管理端设置管理员标记
// @Summary 设置管理员标记
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "用户 ID"
// @Param request body dto.SetAdminRequest true "设置请求"
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/users/{id}/admin [put]
func (h *UserHandler) SetAdmin(c *gin.Context) {
	var req dto.SetAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	userID := dto.BindID(c)
	if err := h.userSvc.SetAdmin(c.Request.Context(), userID, *req.IsAdmin); err != nil {
		respondError(c, err)
		return
	}
	u, err := h.userSvc.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToUserResponse(u))
}

// Delete 管理端删除用户
// @Summary 删除用户
// @Tags Admin
// @Produce json
// @Param id path string true "用户 ID"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userSvc.Delete(c.Request.Context(), dto.BindID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}
