// create-admin 创建管理员账号（首次部署时使用）
//
//	go run ./backend/cmd/create-admin -email admin@example.com -password '...'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"uruti-hub/backend/config"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/internal/repository"
	"uruti-hub/backend/internal/service"
	"uruti-hub/backend/pkg/database"
	"uruti-hub/backend/pkg/events"
	"uruti-hub/backend/pkg/jwt"
	applogger "uruti-hub/backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	email := flag.String("email", "", "管理员邮箱")
	password := flag.String("password", "", "管理员密码")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "用法: create-admin -email <邮箱> -password <密码> [-config <路径>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, events.NopPublisher{}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := svc.Auth.CreateUser(ctx, *email, *password, model.RoleAdmin)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			fmt.Fprintf(os.Stderr, "邮箱已存在: %s\n", *email)
		} else {
			fmt.Fprintf(os.Stderr, "创建管理员失败: %v\n", err)
		}
		sqlDB.Close()
		os.Exit(1)
	}

	fmt.Printf("管理员已创建: id=%s email=%s\n", user.UserID, user.Email)
}
