package handler

import (
	"encoding/json"
	"time"

	"github.com/blues/sms/internal/model"
)

// 问卷相关响应模型

// OptionResponse 选项响应模型
type OptionResponse struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// QuestionResponse 题目响应模型
type QuestionResponse struct {
	ID         int64            `json:"id"`
	Text       string           `json:"text"`
	Type       string           `json:"type"`
	Required   bool             `json:"required"`
	PageNumber int              `json:"pageNumber"`
	Options    []OptionResponse `json:"options,omitempty"`
}

// SurveyResponse 问卷响应模型
type SurveyResponse struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	CategoryID     int64              `json:"categoryId"`
	OccupationID   int64              `json:"occupationId"`
	MinAge         int                `json:"minAge"`
	MaxAge         int                `json:"maxAge"`
	SampleSize     int                `json:"sampleSize"`
	Price          float64            `json:"price"`
	TotalResponses int                `json:"totalResponses"`
	Status         string             `json:"status"`
	IsPublished    bool               `json:"isPublished"`
	CreatorID      int64              `json:"creatorId"`
	StartTime      time.Time          `json:"startTime"`
	EndTime        time.Time          `json:"endTime"`
	CreatedAt      time.Time          `json:"createdAt"`
	Questions      []QuestionResponse `json:"questions,omitempty"`
}

// AnswerResponse 答案响应模型
type AnswerResponse struct {
	QuestionID      int64    `json:"questionId"`
	SelectedOptions []string `json:"selectedOptions,omitempty"`
	TextAnswer      string   `json:"textAnswer,omitempty"`
	RatingValue     *int     `json:"ratingValue,omitempty"`
}

// SubmissionResponse 答卷响应模型
type SubmissionResponse struct {
	ID          int64            `json:"id"`
	SurveyID    int64            `json:"surveyId"`
	UserID      int64            `json:"userId"`
	CompletedAt time.Time        `json:"completedAt"`
	Answers     []AnswerResponse `json:"answers,omitempty"`
}

// WalletResponse 钱包响应模型
type WalletResponse struct {
	ID             int64   `json:"id"`
	Address        string  `json:"address"`
	Network        string  `json:"network"`
	Payout         float64 `json:"payout"`
	IsPayoutLocked bool    `json:"isPayoutLocked"`
}

// TransactionResponse 流水响应模型
type TransactionResponse struct {
	Reference string    `json:"reference"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	TxHash    string    `json:"txHash"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserResponse 用户响应模型
type UserResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Age          int    `json:"age"`
	OccupationID int64  `json:"occupationId"`
	Blocked      bool   `json:"blocked"`
}

// 转换函数

// ToSurveyResponse 将数据库模型转换为响应模型
func ToSurveyResponse(survey *model.SurveyModel) SurveyResponse {
	return SurveyResponse{
		ID:             survey.Id,
		Name:           survey.Name,
		Description:    survey.Description,
		CategoryID:     survey.CategoryId,
		OccupationID:   survey.OccupationId,
		MinAge:         survey.MinAge,
		MaxAge:         survey.MaxAge,
		SampleSize:     survey.SampleSize,
		Price:          survey.Price,
		TotalResponses: survey.TotalResponses,
		Status:         string(survey.Status),
		IsPublished:    survey.IsPublished,
		CreatorID:      survey.CreatorId,
		StartTime:      survey.StartTime,
		EndTime:        survey.EndTime,
		CreatedAt:      survey.CreatedAt,
	}
}

// ToSurveyResponseList 将数据库模型列表转换为响应模型列表
func ToSurveyResponseList(surveys []model.SurveyModel) []SurveyResponse {
	result := make([]SurveyResponse, len(surveys))
	for i, survey := range surveys {
		result[i] = ToSurveyResponse(&survey)
	}
	return result
}

// ToQuestionResponse 将题目与选项转换为响应模型
func ToQuestionResponse(question *model.QuestionModel, options []model.OptionModel) QuestionResponse {
	resp := QuestionResponse{
		ID:         question.Id,
		Text:       question.Text,
		Type:       string(question.Type),
		Required:   question.Required,
		PageNumber: question.PageNumber,
	}
	for _, opt := range options {
		resp.Options = append(resp.Options, OptionResponse{ID: opt.Id, Value: opt.Value})
	}
	return resp
}

// ToAnswerResponse 将答案数据库模型转换为响应模型
func ToAnswerResponse(answer *model.AnswerModel) AnswerResponse {
	resp := AnswerResponse{
		QuestionID:  answer.QuestionId,
		TextAnswer:  answer.TextAnswer,
		RatingValue: answer.RatingValue,
	}
	if answer.SelectedOptions != "" {
		var selected []string
		if err := json.Unmarshal([]byte(answer.SelectedOptions), &selected); err == nil {
			resp.SelectedOptions = selected
		}
	}
	return resp
}

// ToSubmissionResponse 将答卷数据库模型转换为响应模型
func ToSubmissionResponse(response *model.SurveyResponseModel, answers []model.AnswerModel) SubmissionResponse {
	resp := SubmissionResponse{
		ID:          response.Id,
		SurveyID:    response.SurveyId,
		UserID:      response.UserId,
		CompletedAt: response.CompletedAt,
	}
	for i := range answers {
		resp.Answers = append(resp.Answers, ToAnswerResponse(&answers[i]))
	}
	return resp
}

// ToWalletResponse 将钱包数据库模型转换为响应模型
func ToWalletResponse(wallet *model.WalletModel) WalletResponse {
	return WalletResponse{
		ID:             wallet.Id,
		Address:        wallet.Address,
		Network:        wallet.Network,
		Payout:         wallet.Payout,
		IsPayoutLocked: wallet.IsPayoutLocked,
	}
}

// ToTransactionResponse 将流水数据库模型转换为响应模型
func ToTransactionResponse(transaction *model.TransactionModel) TransactionResponse {
	return TransactionResponse{
		Reference: transaction.Reference,
		Type:      string(transaction.Type),
		Amount:    transaction.Amount,
		Sender:    transaction.Sender,
		Recipient: transaction.Recipient,
		TxHash:    transaction.TxHash,
		Status:    string(transaction.Status),
		CreatedAt: transaction.CreatedAt,
	}
}

// ToTransactionResponseList 将流水数据库模型列表转换为响应模型列表
func ToTransactionResponseList(transactions []model.TransactionModel) []TransactionResponse {
	result := make([]TransactionResponse, len(transactions))
	for i, transaction := range transactions {
		result[i] = ToTransactionResponse(&transaction)
	}
	return result
}

// ToUserResponse 将用户数据库模型转换为响应模型
func ToUserResponse(user *model.UserModel) UserResponse {
	return UserResponse{
		ID:           user.Id,
		Name:         user.Name,
		Email:        user.Email,
		Role:         string(user.Role),
		Age:          user.Age,
		OccupationID: user.OccupationId,
		Blocked:      user.Blocked,
	}
}
