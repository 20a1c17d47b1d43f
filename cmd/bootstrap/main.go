package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"llm-credits-api/internal/config"
	"llm-credits-api/internal/domain/entity"
	"llm-credits-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 建表
	fmt.Println("Running schema migration...")
	if err := dataLayer.PgClient.DB().WithContext(ctx).AutoMigrate(
		&entity.User{},
		&entity.Model{},
		&entity.APIKey{},
		&entity.Query{},
		&entity.PaymentMethod{},
		&entity.Transaction{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	// 4. 创建首个管理员
	adminUsername := os.Getenv("BOOTSTRAP_ADMIN_USERNAME")
	if adminUsername == "" {
		adminUsername = "admin"
	}
	adminPassword := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123" // 生产环境请务必通过环境变量设置
	}

	existing, err := dataLayer.UserRepo.GetByUsername(ctx, adminUsername)
	if err != nil {
		log.Fatalf("failed to check admin existence: %v", err)
	}

	if existing == nil {
		fmt.Printf("Creating admin user: %s...\n", adminUsername)
		admin := entity.NewUser(adminUsername, cfg.Billing.SignupCreditGrant)
		admin.IsAdmin = true
		if err := admin.SetPassword(adminPassword); err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		if err := dataLayer.UserRepo.Create(ctx, admin); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		fmt.Println("Admin user created successfully.")
	} else {
		fmt.Printf("Admin user %s already exists.\n", adminUsername)
	}

	fmt.Println("Bootstrap completed successfully.")
}
