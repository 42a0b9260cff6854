package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/obsamadmin/app-center/common/database"
	"github.com/obsamadmin/app-center/common/logger"
	"github.com/obsamadmin/app-center/common/redis"
	"github.com/obsamadmin/app-center/internal/auth"
	"github.com/obsamadmin/app-center/internal/config"
	"github.com/obsamadmin/app-center/internal/repository"
	"github.com/obsamadmin/app-center/internal/router"
	"github.com/obsamadmin/app-center/internal/svc"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultConfigPath = "config/config.yml"

func main() {
	// 加载配置
	path := os.Getenv("APP_CENTER_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(&cfg.Log)
	defer logger.Sync()

	// 初始化数据库，memory 驱动不连接数据库
	var db *gorm.DB
	if cfg.Database.Driver != "memory" {
		db, err = database.Init(&cfg.Database)
		if err != nil {
			logger.Fatal("初始化数据库失败", zap.Error(err))
		}
		defer database.Close()

		// 自动迁移数据库表
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
	} else {
		logger.Warn("使用内存存储（服务重启后数据会丢失）")
	}

	// 初始化Redis，身份缓存可选
	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		rdb, err = redis.Init(&cfg.Redis)
		if err != nil {
			logger.Warn("初始化Redis失败，不启用身份缓存", zap.Error(err))
			rdb = nil
		} else {
			defer redis.Close()
		}
	}

	// 初始化SaToken
	if err := auth.InitSaToken(&cfg.Config); err != nil {
		logger.Fatal("初始化SaToken失败", zap.Error(err))
	}

	// 初始化服务上下文并同步系统应用
	sc := svc.Init(cfg, db, rdb)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := sc.Bootstrap(ctx); err != nil {
		cancel()
		logger.Fatal("初始化默认数据失败", zap.Error(err))
	}
	cancel()

	// 创建Fiber应用
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit * 1024 * 1024,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})

	// 设置路由
	router.Setup(app, sc)

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Info("服务器启动", zap.String("addr", "http://"+addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
	}
	logger.Info("服务器已关闭")
}
