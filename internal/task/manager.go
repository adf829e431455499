package task

import (
	"github.com/blues/sms/internal/chain"
	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job 定时任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	client    *chain.Client
	config    *config.Config
}

// NewManager 创建任务管理器
func NewManager(db *gorm.DB, client *chain.Client, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: s,
		db:        db,
		client:    client,
		config:    cfg,
	}, nil
}

// Start 注册所有任务并启动调度器
func (m *Manager) Start(walletLogic *logic.WalletLogic, notifLogic *logic.NotificationLogic) {
	m.register(NewSurveyStatusJob(m.db, m.config, notifLogic))
	m.register(NewWithdrawalJob(m.db, m.config, m.client, walletLogic))
	m.register(NewTxConfirmJob(m.db, m.config, m.client, walletLogic, notifLogic))

	m.scheduler.Start()
	logger.Info("Task manager started successfully")
}

// register 注册单个任务
func (m *Manager) register(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
