// Package repository 定义领域仓储接口
package repository

import (
	"context"
	"errors"
)

// TxKey 用于在 context 中传递事务句柄
type TxKey struct{}

// Transactor 事务管理接口，fn 内部通过 context 取到同一事务
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// 仓储层哨兵错误，应用层据此映射业务错误码
var (
	ErrNotFound            = errors.New("record not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrDuplicate           = errors.New("duplicate record")
)

// Pagination 分页参数
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPagination 创建分页参数，越界取默认值
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// Offset 计算偏移量
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit 获取限制数量
func (p Pagination) Limit() int {
	return p.PageSize
}

// PagedResult 分页结果
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPagedResult 创建分页结果
func NewPagedResult[T any](items []T, total int64, pagination Pagination) *PagedResult[T] {
	totalPages := int(total) / pagination.PageSize
	if int(total)%pagination.PageSize > 0 {
		totalPages++
	}
	return &PagedResult[T]{
		Items:      items,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages,
	}
}
