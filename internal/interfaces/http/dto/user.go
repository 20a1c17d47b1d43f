package dto

import (
	"time"

	"llm-credits-api/internal/domain/entity"
)

// UserResponse 用户响应
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Credits   int64     `json:"credits"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse 转换用户实体
func ToUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Credits:   u.Credits,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserResponses 转换用户实体列表
func ToUserResponses(users []*entity.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// AdjustCreditsRequest 管理端额度调整请求
type AdjustCreditsRequest struct {
	Delta int64 `json:"delta" binding:"required"`
}

// AdjustCreditsResponse 额度调整结果
type AdjustCreditsResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// SetAdminRequest 设置管理员标记请求
type SetAdminRequest struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}
