package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-credits-api/internal/interfaces/http/dto"
	apperrors "llm-credits-api/pkg/errors"
)

func doRespond(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/query", nil)

	respondError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondError_InsufficientCredits(t *testing.T) {
	w, body := doRespond(t, apperrors.ErrInsufficientCredits)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, http.StatusPaymentRequired, body.Code)
	assert.Equal(t, "insufficient credits", body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, string(apperrors.CodeInsufficientCredits), body.Error.ErrorCode)
}

func TestRespondError_ModelDisabled(t *testing.T) {
	w, body := doRespond(t, apperrors.ErrModelDisabled.WithDetail("model: gpt-4"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "model: gpt-4", body.Error.Details)
}

func TestRespondError_UnknownModel(t *testing.T) {
	w, body := doRespond(t, apperrors.ErrUnknownModel.WithDetail("model: no-such-model"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, string(apperrors.CodeUnknownModel), body.Error.ErrorCode)
}

func TestRespondError_ModelNotFound(t *testing.T) {
	// 管理端按内部标识取模型不存在时仍是资源未找到
	w, _ := doRespond(t, apperrors.ErrModelNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondError_ProviderError(t *testing.T) {
	w, body := doRespond(t, apperrors.ErrProviderError.WithError(errors.New("upstream 429")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "llm provider call failed", body.Message)
}

func TestRespondError_UnknownError(t *testing.T) {
	w, body := doRespond(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "unknown error", body.Message)
}
