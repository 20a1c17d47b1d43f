package handler

import (
	"github.com/gin-gonic/gin"

	"llm-credits-api/internal/application/apikey"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/interfaces/http/dto"
)

// APIKeyHandler 供应商密钥处理器
type APIKeyHandler struct {
	keySvc *apikey.Service
}

// NewAPIKeyHandler 创建供应商密钥处理器
func NewAPIKeyHandler(keySvc *apikey.Service) *APIKeyHandler {
	return &APIKeyHandler{keySvc: keySvc}
}

// Upsert 写入密钥
// @Summary 写入供应商密钥
// @Description 每个供应商仅保留一把密钥，写入即生效
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.UpsertAPIKeyRequest true "密钥请求"
// @Success 200 {object} dto.Response[[]dto.APIKeyResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/api-keys [put]
func (h *APIKeyHandler) Upsert(c *gin.Context) {
	var req dto.UpsertAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	if err := h.keySvc.Upsert(c.Request.Context(), entity.Provider(req.Provider), req.Key); err != nil {
		respondError(c, err)
		return
	}
	keys, err := h.keySvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToAPIKeyResponses(keys))
}

// List 列出密钥
// @Summary 列出供应商密钥
// @Description 密钥值脱敏返回
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[[]dto.APIKeyResponse]
// @Security BearerAuth
// @Router /api/v1/admin/api-keys [get]
func (h *APIKeyHandler) List(c *gin.Context) {
	keys, err := h.keySvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToAPIKeyResponses(keys))
}

// Delete 删除密钥
// @Summary 删除供应商密钥
// @Description 删除后该供应商的模型不可再被调用
// @Tags Admin
// @Produce json
// @Param provider path string true "供应商"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/api-keys/{provider} [delete]
func (h *APIKeyHandler) Delete(c *gin.Context) {
	if err := h.keySvc.Delete(c.Request.Context(), entity.Provider(c.Param("provider"))); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}
