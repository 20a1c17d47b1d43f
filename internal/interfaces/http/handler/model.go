package handler

import (
	"github.com/gin-gonic/gin"

	"llm-credits-api/internal/application/catalog"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	"llm-credits-api/internal/interfaces/http/dto"
)

// ModelHandler 模型目录处理器
type ModelHandler struct {
	catalog *catalog.Service
	syncer  *catalog.Syncer
}

// NewModelHandler 创建模型目录处理器
func NewModelHandler(catalogSvc *catalog.Service, syncer *catalog.Syncer) *ModelHandler {
	return &ModelHandler{
		catalog: catalogSvc,
		syncer:  syncer,
	}
}

// ListPublic 公开模型目录
// @Summary 公开模型目录
// @Description 返回已启用且公开的模型及其定价
// @Tags Model
// @Produce json
// @Success 200 {object} dto.Response[[]dto.PublicModelResponse]
// @Router /api/v1/models [get]
func (h *ModelHandler) ListPublic(c *gin.Context) {
	models, err := h.catalog.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToPublicModelResponses(models))
}

// List 管理端模型列表
// @Summary 模型列表
// @Description 分页返回全部模型，含未启用项；enabled=true 时返回全部可服务模型
// @Tags Admin
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param enabled query bool false "仅返回已启用模型"
// @Success 200 {object} dto.Response[[]dto.ModelResponse]
// @Security BearerAuth
// @Router /api/v1/admin/models [get]
func (h *ModelHandler) List(c *gin.Context) {
	if c.Query("enabled") == "true" {
		models, err := h.catalog.ListEnabled(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		dto.Success(c, dto.ToModelResponses(models))
		return
	}

	page := dto.BindPage(c)
	result, err := h.catalog.List(c.Request.Context(), repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToModelResponses(result.Items), dto.NewPageMeta(page.Page, page.PageSize, int(result.Total)))
}

// Get 管理端获取模型
// @Summary 获取模型
// @Tags Admin
// @Produce json
// @Param id path string true "模型标识"
// @Success 200 {object} dto.Response[dto.ModelResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/models/{id} [get]
func (h *ModelHandler) Get(c *gin.Context) {
	model, err := h.catalog.Get(c.Request.Context(), dto.BindID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToModelResponse(model))
}

// Create 管理端创建模型
// @Summary 创建模型
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateModelRequest true "创建请求"
// @Success 201 {object} dto.Response[dto.ModelResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/models [post]
func (h *ModelHandler) Create(c *gin.Context) {
	var req dto.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	model := &entity.Model{
		ProviderID:    req.ProviderID,
		DisplayName:   req.DisplayName,
		Provider:      entity.Provider(req.Provider),
		InputCost:     req.InputCost,
		OutputCost:    req.OutputCost,
		Enabled:       req.Enabled,
		IsPublic:      req.IsPublic,
		ContextWindow: req.ContextWindow,
		MaxTokens:     req.MaxTokens,
	}
	if err := h.catalog.Create(c.Request.Context(), model); err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.ToModelResponse(model))
}

// Update 管理端更新模型，仅覆盖请求中出现的字段
// @Summary 更新模型
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "模型标识"
// @Param request body dto.UpdateModelRequest true "更新请求"
// @Success 200 {object} dto.Response[dto.ModelResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/models/{id} [put]
func (h *ModelHandler) Update(c *gin.Context) {
	var req dto.UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	model, err := h.catalog.Get(c.Request.Context(), dto.BindID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.DisplayName != nil {
		model.DisplayName = *req.DisplayName
	}
	if req.InputCost != nil {
		model.InputCost = *req.InputCost
	}
	if req.OutputCost != nil {
		model.OutputCost = *req.OutputCost
	}
	if req.Enabled != nil {
		model.Enabled = *req.Enabled
	}
	if req.IsPublic != nil {
		model.IsPublic = *req.IsPublic
	}
	if req.ContextWindow != nil {
		model.ContextWindow = *req.ContextWindow
	}
	if req.MaxTokens != nil {
		model.MaxTokens = *req.MaxTokens
	}

	if err := h.catalog.Update(c.Request.Context(), model); err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToModelResponse(model))
}

// Delete 管理端删除模型
// @Summary 删除模型
// @Description 删除目录条目，历史查询记录不受影响
// @Tags Admin
// @Produce json
// @Param id path string true "模型标识"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/models/{id} [delete]
func (h *ModelHandler) Delete(c *gin.Context) {
	model, err := h.catalog.Get(c.Request.Context(), dto.BindID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), model.ID); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}

// Sync 管理端触发目录同步
// @Summary 同步模型目录
// @Description 并发拉取各已配置密钥供应商的模型列表，新模型默认停用
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[catalog.SyncReport]
// @Security BearerAuth
// @Router /api/v1/admin/models/sync [post]
func (h *ModelHandler) Sync(c *gin.Context) {
	report, err := h.syncer.Sync(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, report)
}
