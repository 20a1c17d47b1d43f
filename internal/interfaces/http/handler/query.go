package handler

import (
	"github.com/gin-gonic/gin"

	"llm-credits-api/internal/application/query"
	"llm-credits-api/internal/domain/repository"
	"llm-credits-api/internal/interfaces/http/dto"
	"llm-credits-api/internal/interfaces/http/middleware"
)

// QueryHandler 计费查询处理器
type QueryHandler struct {
	executor *query.Executor
}

// NewQueryHandler 创建计费查询处理器
func NewQueryHandler(executor *query.Executor) *QueryHandler {
	return &QueryHandler{executor: executor}
}

// Execute 执行查询
// @Summary 执行计费查询
// @Description 校验余额后调用模型生成，按实际用量扣除额度
// @Tags Query
// @Accept json
// @Produce json
// @Param request body dto.QueryRequest true "查询请求"
// @Success 200 {object} dto.Response[dto.QueryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 402 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/query [post]
func (h *QueryHandler) Execute(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	result, err := h.executor.Execute(c.Request.Context(), middleware.GetUserID(c), req.ModelID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, &dto.QueryResponse{
		QueryID:          result.QueryID,
		Response:         result.Response,
		InputTokens:      result.InputTokens,
		OutputTokens:     result.OutputTokens,
		TotalCost:        result.TotalCost,
		RemainingCredits: result.RemainingCredits,
	})
}

// ListMine 当前用户的查询历史
// @Summary 查询历史
// @Description 分页返回当前用户的查询流水，按时间倒序
// @Tags Query
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.QueryRecordResponse]
// @Security BearerAuth
// @Router /api/v1/queries [get]
func (h *QueryHandler) ListMine(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.executor.ListByUser(c.Request.Context(), middleware.GetUserID(c), repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToQueryRecordResponses(result.Items), dto.NewPageMeta(page.Page, page.PageSize, int(result.Total)))
}

// List 管理端全量查询流水
// @Summary 全量查询流水
// @Description 分页返回所有用户的查询流水
// @Tags Admin
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.AdminQueryRecordResponse]
// @Security BearerAuth
// @Router /api/v1/admin/queries [get]
func (h *QueryHandler) List(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.executor.List(c.Request.Context(), repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToAdminQueryRecordResponses(result.Items), dto.NewPageMeta(page.Page, page.PageSize, int(result.Total)))
}
