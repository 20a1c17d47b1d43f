// Package entity 定义领域实体
package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户实体，credits 为内部计费额度余额
type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128);not null"` // 不在 JSON 中暴露
	Credits      int64     `json:"credits" gorm:"not null;default:0;check:credits >= 0"`
	IsAdmin      bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewUser 创建新用户，初始额度由注册流程授予
func NewUser(username string, creditGrant int64) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Credits:   creditGrant,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetPassword 设置并散列密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// CanAfford 检查余额是否足以支付指定额度
func (u *User) CanAfford(credits int64) bool {
	return u.Credits >= credits
}
