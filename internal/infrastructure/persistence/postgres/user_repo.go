// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/domain/repository"
)

// UserRepository 用户仓储实现
type UserRepository struct {
	client *Client
}

// NewUserRepository 创建用户仓储
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(user).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取用户
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var user entity.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByUsername")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var user entity.User
	if err := db.First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// Update 更新用户
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(user).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete 删除用户
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.User{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// List 获取用户列表
func (r *UserRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.User], error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*entity.User
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&users).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return repository.NewPagedResult(users, total, pagination), nil
}

// DebitCredits 原子扣减额度，条件更新保证余额不为负
// 并发扣减时由数据库行锁串行化，不在应用层持锁
func (r *UserRepository) DebitCredits(ctx context.Context, userID string, amount int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.DebitCredits")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var balance int64
	result := db.Raw(
		`UPDATE users SET credits = credits - ?, updated_at = NOW()
		 WHERE id = ? AND credits >= ?
		 RETURNING credits`,
		amount, userID, amount,
	).Scan(&balance)
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to debit credits: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// 零行更新可能是余额不足，也可能是用户不存在，需区分
		var count int64
		if err := db.Model(&entity.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			span.RecordError(err)
			return 0, fmt.Errorf("failed to check user existence: %w", err)
		}
		if count == 0 {
			return 0, repository.ErrNotFound
		}
		return 0, repository.ErrInsufficientCredits
	}
	return balance, nil
}

// CreditCredits 原子增加额度
func (r *UserRepository) CreditCredits(ctx context.Context, userID string, amount int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.CreditCredits")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var balance int64
	result := db.Raw(
		`UPDATE users SET credits = credits + ?, updated_at = NOW()
		 WHERE id = ?
		 RETURNING credits`,
		amount, userID,
	).Scan(&balance)
	if result.Error != nil {
		span.RecordError(result.Error)
		return 0, fmt.Errorf("failed to credit credits: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, repository.ErrNotFound
	}
	return balance, nil
}
