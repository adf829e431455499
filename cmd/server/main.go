package main

import (
	"log"

	"github.com/blues/sms/internal/chain"
	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/logic"
	"github.com/blues/sms/internal/notify"
	"github.com/blues/sms/internal/repository"
	"github.com/blues/sms/internal/router"
	"github.com/blues/sms/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	level := logger.ParseLogLevel(cfg.Log.Level)
	var appLogger *logger.Logger
	var err error
	if cfg.Log.Output == "file" {
		appLogger, err = logger.NewWithFileRotation(level, cfg.Log.File)
	} else {
		appLogger, err = logger.New(level)
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化链客户端
	chainClient, err := chain.NewClient(cfg.Chain)
	if err != nil {
		logger.Fatal("Failed to initialize chain client: %v", err)
	}
	defer chainClient.Close()

	// 初始化实时通知推送
	hub, err := notify.NewHub(0)
	if err != nil {
		logger.Fatal("Failed to initialize notification hub: %v", err)
	}
	defer hub.Close()

	// 启动后台任务
	walletLogic := logic.NewWalletLogic(db, cfg.Wallet)
	notifLogic := logic.NewNotificationLogic(db, hub)
	manager, err := task.NewManager(db, chainClient, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize task manager: %v", err)
	}
	manager.Start(walletLogic, notifLogic)
	defer manager.Stop()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, hub, cfg)

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
