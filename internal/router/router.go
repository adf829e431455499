package router

import (
	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/handler"
	"github.com/blues/sms/internal/logic"
	"github.com/blues/sms/internal/model"
	"github.com/blues/sms/internal/notify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, hub *notify.Hub, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "survey-marketplace-service",
		})
	})

	// 业务逻辑装配
	walletLogic := logic.NewWalletLogic(db, cfg.Wallet)
	notifLogic := logic.NewNotificationLogic(db, hub)
	responseLogic := logic.NewResponseLogic(db, walletLogic, notifLogic)
	transactionLogic := logic.NewTransactionLogic(db)

	authHandler := handler.NewAuthHandler(db, cfg.JWT)
	surveyHandler := handler.NewSurveyHandler(db)
	responseHandler := handler.NewResponseHandler(responseLogic)
	walletHandler := handler.NewWalletHandler(walletLogic, transactionLogic)
	notificationHandler := handler.NewNotificationHandler(notifLogic, hub)
	adminHandler := handler.NewAdminHandler(db, cfg.JWT)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// 登录后路由
		authed := v1.Group("")
		authed.Use(authMiddleware(cfg.JWT))
		{
			// 问卷相关路由
			surveys := authed.Group("/surveys")
			{
				surveys.POST("", requireRole(string(model.UserRoleCreator), string(model.UserRoleAdmin)), surveyHandler.CreateSurvey)
				surveys.GET("", surveyHandler.GetSurveys)
				surveys.GET("/:id", surveyHandler.GetSurvey)
				surveys.PUT("/:id", surveyHandler.UpdateSurvey)
				surveys.POST("/:id/publish", surveyHandler.PublishSurvey)
				surveys.DELETE("/:id", surveyHandler.CancelSurvey)
				surveys.GET("/:id/stats", surveyHandler.GetSurveyStats)
				surveys.POST("/:id/submit", responseHandler.SubmitResponse)
				surveys.GET("/:id/responses", responseHandler.GetSurveyResponses)
			}

			// 钱包相关路由
			wallet := authed.Group("/wallet")
			{
				wallet.GET("", walletHandler.GetWallet)
				wallet.POST("", walletHandler.CreateWallet)
				wallet.POST("/withdraw", walletHandler.Withdraw)
			}
			authed.GET("/transactions", walletHandler.GetTransactions)

			// 通知相关路由
			notifications := authed.Group("/notifications")
			{
				notifications.GET("", notificationHandler.GetNotifications)
				notifications.PUT("/:id/read", notificationHandler.MarkRead)
			}
			authed.GET("/ws/notifications", notificationHandler.Subscribe)

			// 管理端路由
			admin := authed.Group("/admin")
			admin.Use(requireRole(string(model.UserRoleAdmin)))
			{
				admin.GET("/config/cut", adminHandler.GetCut)
				admin.PUT("/config/cut", adminHandler.UpdateCut)

				admin.POST("/categories", adminHandler.CreateCategory)
				admin.GET("/categories", adminHandler.GetCategories)
				admin.PUT("/categories/:id", adminHandler.UpdateCategory)

				admin.POST("/occupations", adminHandler.CreateOccupation)
				admin.GET("/occupations", adminHandler.GetOccupations)
				admin.PUT("/occupations/:id", adminHandler.UpdateOccupation)

				admin.PUT("/users/:id/block", adminHandler.SetUserBlocked)
				admin.PUT("/surveys/:id/status", surveyHandler.SetSurveyStatus)
			}
		}
	}

	return r
}
