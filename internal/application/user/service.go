// Package user 提供用户注册、认证与管理服务
package user

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"

	"llm-credits-api/internal/application/credits"
	"llm-credits-api/internal/config"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
	apperrors "llm-credits-api/pkg/errors"
	"llm-credits-api/pkg/logger"
	"llm-credits-api/pkg/metrics"
	"llm-credits-api/pkg/utils"
)

var tracer = otel.Tracer("user")

// Service 用户服务
type Service struct {
	userRepo repository.UserRepository
	ledger   *credits.Ledger
	jwt      *utils.JWTManager
	jwtCfg   *config.JWTConfig
	billing  *config.BillingConfig
}

// NewService 创建用户服务
func NewService(
	userRepo repository.UserRepository,
	ledger *credits.Ledger,
	jwt *utils.JWTManager,
	jwtCfg *config.JWTConfig,
	billing *config.BillingConfig,
) *Service {
	return &Service{
		userRepo: userRepo,
		ledger:   ledger,
		jwt:      jwt,
		jwtCfg:   jwtCfg,
		billing:  billing,
	}
}

// Register 注册新用户并授予初始额度
func (s *Service) Register(ctx context.Context, username, password string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "user.Service.Register")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || len(username) > 64 {
		return nil, apperrors.ErrInvalidParam.WithDetail("invalid username")
	}
	if len(password) < 8 {
		return nil, apperrors.ErrInvalidParam.WithDetail("password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrConflict.WithDetail("username already taken")
	}

	u := entity.NewUser(username, s.billing.SignupCreditGrant)
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	metrics.CreditsGrantedTotal.Add(float64(s.billing.SignupCreditGrant))
	logger.Info(ctx, "user registered",
		"user_id", u.ID,
		"username", username,
		"initial_credits", s.billing.SignupCreditGrant,
	)
	return u, nil
}

// Login 校验凭证并签发双 Token
func (s *Service) Login(ctx context.Context, username, password string) (*entity.User, *utils.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "user.Service.Login")
	defer span.End()

	u, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, nil, err
	}
	// 用户不存在与密码错误返回同一错误，避免用户名探测
	if u == nil || !u.CheckPassword(password) {
		return nil, nil, apperrors.ErrUnauthorized.WithDetail("invalid username or password")
	}

	pair, err := s.jwt.GenerateTokenPair(u.ID, u.IsAdmin, s.jwtCfg.Expiration, s.jwtCfg.RefreshExpiration)
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "user logged in", "user_id", u.ID)
	return u, pair, nil
}

// Refresh 用 RefreshToken 换取新的双 Token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	ctx, span := tracer.Start(ctx, "user.Service.Refresh")
	defer span.End()

	claims, err := s.jwt.ParseToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.Type != "refresh" {
		return nil, apperrors.ErrTokenInvalid.WithDetail("not a refresh token")
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.ErrUserNotFound
	}

	return s.jwt.GenerateTokenPair(u.ID, u.IsAdmin, s.jwtCfg.Expiration, s.jwtCfg.RefreshExpiration)
}

// Get 获取用户
func (s *Service) Get(ctx context.Context, id string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "user.Service.Get")
	defer span.End()

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

// List 管理端分页列表
func (s *Service) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.User], error) {
	ctx, span := tracer.Start(ctx, "user.Service.List")
	defer span.End()

	return s.userRepo.List(ctx, pagination)
}

// AdjustCredits 管理端调整用户额度，正数充值负数扣减
func (s *Service) AdjustCredits(ctx context.Context, userID string, delta int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "user.Service.AdjustCredits")
	defer span.End()

	if delta == 0 {
		return 0, apperrors.ErrInvalidParam.WithDetail("delta must be non-zero")
	}
	if delta > 0 {
		return s.ledger.Grant(ctx, userID, delta, "")
	}
	return s.ledger.Debit(ctx, userID, -delta, "admin", "adjustment")
}

// SetAdmin 管理端设置管理员标记
func (s *Service) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	ctx, span := tracer.Start(ctx, "user.Service.SetAdmin")
	defer span.End()

	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	u.IsAdmin = isAdmin
	return s.userRepo.Update(ctx, u)
}

// Delete 管理端删除用户
func (s *Service) Delete(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "user.Service.Delete")
	defer span.End()

	return s.userRepo.Delete(ctx, userID)
}
