package handler

import (
	"github.com/gin-gonic/gin"

	"llm-credits-api/internal/interfaces/http/dto"
	apperrors "llm-credits-api/pkg/errors"
	"llm-credits-api/pkg/logger"
)

// respondError 将应用错误映射为 HTTP 响应
// 非 AppError 一律按 500 处理并记录日志，避免泄露内部细节
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.Request.URL.Path,
		)
	}
	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	})
}
