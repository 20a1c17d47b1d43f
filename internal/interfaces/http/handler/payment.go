package handler

import (
	"github.com/gin-gonic/gin"

	"llm-credits-api/internal/application/payment"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	"llm-credits-api/internal/interfaces/http/dto"
)

// PaymentHandler 支付管理处理器
type PaymentHandler struct {
	paySvc *payment.Service
}

// NewPaymentHandler 创建支付管理处理器
func NewPaymentHandler(paySvc *payment.Service) *PaymentHandler {
	return &PaymentHandler{paySvc: paySvc}
}

// CreateMethod 创建支付方式
// @Summary 创建支付方式
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.PaymentMethodRequest true "支付方式"
// @Success 201 {object} dto.Response[dto.PaymentMethodResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/payment-methods [post]
func (h *PaymentHandler) CreateMethod(c *gin.Context) {
	var req dto.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	method := &entity.PaymentMethod{
		Name:       req.Name,
		Type:       req.Type,
		Currencies: req.Currencies,
		Config:     req.Config,
		Enabled:    req.Enabled,
	}
	if err := h.paySvc.CreateMethod(c.Request.Context(), method); err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.ToPaymentMethodResponse(method))
}

// ListMethods 列出支付方式
// @Summary 列出支付方式
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[[]dto.PaymentMethodResponse]
// @Security BearerAuth
// @Router /api/v1/admin/payment-methods [get]
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	methods, err := h.paySvc.ListMethods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToPaymentMethodResponses(methods))
}

// UpdateMethod 更新支付方式
// @Summary 更新支付方式
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "支付方式 ID"
// @Param request body dto.PaymentMethodRequest true "支付方式"
// @Success 200 {object} dto.Response[dto.PaymentMethodResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/payment-methods/{id} [put]
func (h *PaymentHandler) UpdateMethod(c *gin.Context) {
	var req dto.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	method, err := h.paySvc.GetMethod(c.Request.Context(), dto.BindID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	method.Name = req.Name
	method.Type = req.Type
	method.Currencies = req.Currencies
	method.Config = req.Config
	method.Enabled = req.Enabled

	if err := h.paySvc.UpdateMethod(c.Request.Context(), method); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToPaymentMethodResponse(method))
}

// DeleteMethod 删除支付方式
// @Summary 删除支付方式
// @Tags Admin
// @Produce json
// @Param id path string true "支付方式 ID"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/admin/payment-methods/{id} [delete]
func (h *PaymentHandler) DeleteMethod(c *gin.Context) {
	if err := h.paySvc.DeleteMethod(c.Request.Context(), dto.BindID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}

// TopUp 管理端充值
// @Summary 用户额度充值
// @Description 为指定用户入账额度并记录充值流水
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.TopUpRequest true "充值请求"
// @Success 200 {object} dto.Response[dto.AdjustCreditsResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/top-up [post]
func (h *PaymentHandler) TopUp(c *gin.Context) {
	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	balance, err := h.paySvc.TopUp(c.Request.Context(), req.UserID, req.Credits, req.MethodID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, &dto.AdjustCreditsResponse{
		UserID:  req.UserID,
		Balance: balance,
	})
}

// ListTransactions 管理端充值流水
// @Summary 充值流水
// @Description 分页返回全部充值流水
// @Tags Admin
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.TransactionResponse]
// @Security BearerAuth
// @Router /api/v1/admin/transactions [get]
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.paySvc.ListTransactions(c.Request.Context(), repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToTransactionResponses(result.Items), dto.NewPageMeta(page.Page, page.PageSize, int(result.Total)))
}
