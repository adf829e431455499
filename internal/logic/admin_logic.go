package logic

import (
	"errors"
	"fmt"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/model"
	"gorm.io/gorm"
)

// AdminLogic 平台配置与基础数据管理
type AdminLogic struct {
	db *gorm.DB
}

// NewAdminLogic 创建管理业务逻辑
func NewAdminLogic(db *gorm.DB) *AdminLogic {
	return &AdminLogic{db: db}
}

// GetCutPercentage 获取平台抽成比例
func (a *AdminLogic) GetCutPercentage() (*model.PlatformConfigModel, error) {
	var cfg model.PlatformConfigModel
	if err := a.db.First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("平台抽成未配置")
		}
		return nil, fmt.Errorf("获取平台配置失败: %w", err)
	}
	return &cfg, nil
}

// UpdateCutPercentage 更新平台抽成比例（单行，不存在时创建）
func (a *AdminLogic) UpdateCutPercentage(percentage float64) (*model.PlatformConfigModel, error) {
	if percentage < 0 || percentage > 100 {
		return nil, errs.BadRequest("抽成比例必须在0-100之间")
	}

	var cfg model.PlatformConfigModel
	err := a.db.First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = model.PlatformConfigModel{CutPercentage: percentage}
		if err := a.db.Create(&cfg).Error; err != nil {
			return nil, fmt.Errorf("创建平台配置失败: %w", err)
		}
		logger.Info("Platform cut initialized to %.2f%%", percentage)
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("获取平台配置失败: %w", err)
	}

	if err := a.db.Model(&cfg).Update("cut_percentage", percentage).Error; err != nil {
		return nil, fmt.Errorf("更新平台配置失败: %w", err)
	}
	cfg.CutPercentage = percentage

	logger.Info("Platform cut updated to %.2f%%", percentage)
	return &cfg, nil
}

// CreateCategory 创建分类，重名拒绝
func (a *AdminLogic) CreateCategory(name string) (*model.CategoryModel, error) {
	if name == "" {
		return nil, errs.BadRequest("分类名称不能为空")
	}

	var count int64
	if err := a.db.Model(&model.CategoryModel{}).
		Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("检查分类名称失败: %w", err)
	}
	if count > 0 {
		return nil, errs.Conflict("分类名称已存在")
	}

	category := model.CategoryModel{Name: name, Active: true}
	if err := a.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("创建分类失败: %w", err)
	}
	return &category, nil
}

// GetCategories 获取分类列表
func (a *AdminLogic) GetCategories() ([]model.CategoryModel, error) {
	var categories []model.CategoryModel
	if err := a.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("获取分类列表失败: %w", err)
	}
	return categories, nil
}

// UpdateCategory 更新分类名称或启用状态
func (a *AdminLogic) UpdateCategory(id int64, name *string, active *bool) error {
	updates := make(map[string]interface{})
	if name != nil {
		if *name == "" {
			return errs.BadRequest("分类名称不能为空")
		}
		var count int64
		if err := a.db.Model(&model.CategoryModel{}).
			Where("name = ? AND id <> ?", *name, id).Count(&count).Error; err != nil {
			return fmt.Errorf("检查分类名称失败: %w", err)
		}
		if count > 0 {
			return errs.Conflict("分类名称已存在")
		}
		updates["name"] = *name
	}
	if active != nil {
		updates["active"] = *active
	}
	if len(updates) == 0 {
		return errs.BadRequest("没有要更新的字段")
	}

	result := a.db.Model(&model.CategoryModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("更新分类失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("分类不存在")
	}
	return nil
}

// CreateOccupation 创建职业，重名拒绝
func (a *AdminLogic) CreateOccupation(name string) (*model.OccupationModel, error) {
	if name == "" {
		return nil, errs.BadRequest("职业名称不能为空")
	}

	var count int64
	if err := a.db.Model(&model.OccupationModel{}).
		Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("检查职业名称失败: %w", err)
	}
	if count > 0 {
		return nil, errs.Conflict("职业名称已存在")
	}

	occupation := model.OccupationModel{Name: name, Active: true}
	if err := a.db.Create(&occupation).Error; err != nil {
		return nil, fmt.Errorf("创建职业失败: %w", err)
	}
	return &occupation, nil
}

// GetOccupations 获取职业列表
func (a *AdminLogic) GetOccupations() ([]model.OccupationModel, error) {
	var occupations []model.OccupationModel
	if err := a.db.Order("name ASC").Find(&occupations).Error; err != nil {
		return nil, fmt.Errorf("获取职业列表失败: %w", err)
	}
	return occupations, nil
}

// UpdateOccupation 更新职业名称或启用状态
func (a *AdminLogic) UpdateOccupation(id int64, name *string, active *bool) error {
	updates := make(map[string]interface{})
	if name != nil {
		if *name == "" {
			return errs.BadRequest("职业名称不能为空")
		}
		var count int64
		if err := a.db.Model(&model.OccupationModel{}).
			Where("name = ? AND id <> ?", *name, id).Count(&count).Error; err != nil {
			return fmt.Errorf("检查职业名称失败: %w", err)
		}
		if count > 0 {
			return errs.Conflict("职业名称已存在")
		}
		updates["name"] = *name
	}
	if active != nil {
		updates["active"] = *active
	}
	if len(updates) == 0 {
		return errs.BadRequest("没有要更新的字段")
	}

	result := a.db.Model(&model.OccupationModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("更新职业失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("职业不存在")
	}
	return nil
}
