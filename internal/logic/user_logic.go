package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput 注册输入
type RegisterInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role"`
	Age          int    `json:"age"`
	OccupationId int64  `json:"occupation_id"`
}

// UserLogic 用户业务逻辑
type UserLogic struct {
	db  *gorm.DB
	cfg config.JWTConfig
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB, cfg config.JWTConfig) *UserLogic {
	return &UserLogic{db: db, cfg: cfg}
}

// Register 注册用户
func (u *UserLogic) Register(input *RegisterInput) (*model.UserModel, error) {
	role := model.UserRole(input.Role)
	switch role {
	case "":
		role = model.UserRoleUser
	case model.UserRoleUser, model.UserRoleCreator:
	default:
		return nil, errs.BadRequest("无效的用户角色")
	}

	var count int64
	if err := u.db.Model(&model.UserModel{}).
		Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("检查邮箱失败: %w", err)
	}
	if count > 0 {
		return nil, errs.Conflict("邮箱已被注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := model.UserModel{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Age:          input.Age,
		OccupationId: input.OccupationId,
	}

	if err := u.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	logger.Info("Registered user %d (%s)", user.Id, user.Role)
	return &user, nil
}

// Login 登录并签发JWT
func (u *UserLogic) Login(email, password string) (string, *model.UserModel, error) {
	var user model.UserModel
	if err := u.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errs.Unauthorized("邮箱或密码错误")
		}
		return "", nil, fmt.Errorf("获取用户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errs.Unauthorized("邮箱或密码错误")
	}
	if user.Blocked {
		return "", nil, errs.Forbidden("用户已被封禁")
	}

	token, err := u.issueToken(&user)
	if err != nil {
		return "", nil, fmt.Errorf("签发token失败: %w", err)
	}

	return token, &user, nil
}

// GetUser 获取用户
func (u *UserLogic) GetUser(id int64) (*model.UserModel, error) {
	var user model.UserModel
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("用户不存在")
		}
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return &user, nil
}

// SetBlocked 管理员封禁/解封用户
func (u *UserLogic) SetBlocked(id int64, blocked bool) error {
	result := u.db.Model(&model.UserModel{}).Where("id = ?", id).Update("blocked", blocked)
	if result.Error != nil {
		return fmt.Errorf("更新用户状态失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("用户不存在")
	}
	return nil
}

// issueToken 签发JWT
func (u *UserLogic) issueToken(user *model.UserModel) (string, error) {
	expiresIn := u.cfg.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 24
	}

	claims := jwt.MapClaims{
		"sub":  user.Id,
		"role": string(user.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Duration(expiresIn) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.cfg.Secret))
}
