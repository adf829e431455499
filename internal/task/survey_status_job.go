package task

import (
	"fmt"
	"time"

	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/logic"
	"github.com/blues/sms/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// SurveyStatusJob 问卷状态更新任务
// 已发布的草稿到开始时间激活，进行中的问卷到结束时间关闭
type SurveyStatusJob struct {
	db         *gorm.DB
	config     *config.Config
	notifLogic *logic.NotificationLogic
}

// NewSurveyStatusJob 创建问卷状态更新任务
func NewSurveyStatusJob(db *gorm.DB, cfg *config.Config, notifLogic *logic.NotificationLogic) *SurveyStatusJob {
	return &SurveyStatusJob{
		db:         db,
		config:     cfg,
		notifLogic: notifLogic,
	}
}

// GetName 获取任务名称
func (j *SurveyStatusJob) GetName() string {
	return "survey_status_updater"
}

// GetSchedule 获取调度配置
func (j *SurveyStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *SurveyStatusJob) Execute() {
	logger.Info("Starting survey status update task")

	now := time.Now()
	updatedCount := 0

	// 到开始时间的已发布草稿 -> active
	var drafts []model.SurveyModel
	err := j.db.Where("status = ? AND is_published = ? AND start_time <= ?",
		model.SurveyStatusDraft, true, now).Find(&drafts).Error
	if err != nil {
		logger.Error("Failed to fetch publishable surveys: %v", err)
		return
	}

	for _, survey := range drafts {
		if err := j.db.Model(&survey).Update("status", model.SurveyStatusActive).Error; err != nil {
			logger.Error("Failed to activate survey %d: %v", survey.Id, err)
			continue
		}
		logger.Info("Activated survey %d", survey.Id)
		updatedCount++
	}

	// 到结束时间的进行中问卷 -> completed
	var active []model.SurveyModel
	err = j.db.Where("status = ? AND end_time <= ?",
		model.SurveyStatusActive, now).Find(&active).Error
	if err != nil {
		logger.Error("Failed to fetch expired surveys: %v", err)
		return
	}

	for _, survey := range active {
		if err := j.db.Model(&survey).Update("status", model.SurveyStatusCompleted).Error; err != nil {
			logger.Error("Failed to complete survey %d: %v", survey.Id, err)
			continue
		}
		logger.Info("Completed survey %d (window closed with %d/%d responses)",
			survey.Id, survey.TotalResponses, survey.SampleSize)
		j.notifLogic.Notify(survey.CreatorId, model.NotificationTypeSurveyCompleted,
			"问卷已结束", fmt.Sprintf("问卷《%s》已到结束时间，共收集 %d 份答卷", survey.Name, survey.TotalResponses))
		updatedCount++
	}

	logger.Info("Survey status update completed. Updated %d surveys", updatedCount)
}
