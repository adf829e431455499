package logic

import (
	"testing"
	"time"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/model"
)

func validSurveyInput() *SurveyInput {
	now := time.Now()
	return &SurveyInput{
		Name:       "产品满意度调查",
		SampleSize: 10,
		Price:      100,
		StartTime:  now.Add(time.Hour),
		EndTime:    now.Add(48 * time.Hour),
		Questions: []QuestionInput{
			{Text: "是否满意", Type: "single_choice", Required: true, Options: []string{"是", "否"}},
			{Text: "综合评分", Type: "rating", Required: true},
		},
	}
}

func TestCreateSurvey(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)

	survey, err := surveyLogic.CreateSurvey(creator.Id, validSurveyInput())
	if err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}
	if survey.Status != model.SurveyStatusDraft {
		t.Errorf("new survey status = %s, want draft", survey.Status)
	}
	if survey.IsPublished {
		t.Error("new survey already published")
	}

	_, questions, optionsByQuestion, err := surveyLogic.GetSurvey(survey.Id)
	if err != nil {
		t.Fatalf("GetSurvey failed: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("question count = %d, want 2", len(questions))
	}
	if len(optionsByQuestion[questions[0].Id]) != 2 {
		t.Errorf("option count = %d, want 2", len(optionsByQuestion[questions[0].Id]))
	}
}

func TestCreateSurveyValidation(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)

	tests := []struct {
		name   string
		mutate func(input *SurveyInput)
	}{
		{"empty name", func(in *SurveyInput) { in.Name = "" }},
		{"zero sample size", func(in *SurveyInput) { in.SampleSize = 0 }},
		{"zero price", func(in *SurveyInput) { in.Price = 0 }},
		{"start after end", func(in *SurveyInput) { in.StartTime = in.EndTime.Add(time.Hour) }},
		{"end in past", func(in *SurveyInput) {
			in.StartTime = time.Now().Add(-48 * time.Hour)
			in.EndTime = time.Now().Add(-24 * time.Hour)
		}},
		{"inverted age range", func(in *SurveyInput) { in.MinAge = 60; in.MaxAge = 18 }},
		{"choice with one option", func(in *SurveyInput) {
			in.Questions[0].Options = []string{"是"}
		}},
		{"rating with options", func(in *SurveyInput) {
			in.Questions[1].Options = []string{"1", "2"}
		}},
		{"unknown question type", func(in *SurveyInput) { in.Questions[1].Type = "dropdown" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validSurveyInput()
			tt.mutate(input)
			_, err := surveyLogic.CreateSurvey(creator.Id, input)
			if errs.HTTPStatus(err) != 400 {
				t.Errorf("CreateSurvey error = %v, want 400", err)
			}
		})
	}
}

func TestPublishSurvey(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)
	other := seedUser(t, db, model.UserRoleCreator)

	// 开始时间已到，发布后立即激活
	input := validSurveyInput()
	input.StartTime = time.Now().Add(-time.Hour)
	survey, err := surveyLogic.CreateSurvey(creator.Id, input)
	if err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}

	if _, err := surveyLogic.PublishSurvey(survey.Id, other.Id); errs.HTTPStatus(err) != 403 {
		t.Errorf("publish by non-owner error = %v, want 403", err)
	}

	if _, err := surveyLogic.PublishSurvey(survey.Id, creator.Id); err != nil {
		t.Fatalf("PublishSurvey failed: %v", err)
	}

	var published model.SurveyModel
	if err := db.First(&published, survey.Id).Error; err != nil {
		t.Fatalf("failed to reload survey: %v", err)
	}
	if !published.IsPublished {
		t.Error("survey not marked published")
	}
	if published.Status != model.SurveyStatusActive {
		t.Errorf("survey status = %s, want active", published.Status)
	}

	// 重复发布被拒绝
	if _, err := surveyLogic.PublishSurvey(survey.Id, creator.Id); errs.HTTPStatus(err) != 400 {
		t.Errorf("second publish error = %v, want 400", err)
	}
}

func TestPublishSurveyBeforeStartStaysDraft(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)

	survey, err := surveyLogic.CreateSurvey(creator.Id, validSurveyInput())
	if err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}
	if _, err := surveyLogic.PublishSurvey(survey.Id, creator.Id); err != nil {
		t.Fatalf("PublishSurvey failed: %v", err)
	}

	// 未到开始时间：已发布但仍是草稿，由后台任务到点激活
	var published model.SurveyModel
	if err := db.First(&published, survey.Id).Error; err != nil {
		t.Fatalf("failed to reload survey: %v", err)
	}
	if !published.IsPublished {
		t.Error("survey not marked published")
	}
	if published.Status != model.SurveyStatusDraft {
		t.Errorf("survey status = %s, want draft until start time", published.Status)
	}
}

func TestPublishSurveyWithoutQuestions(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)

	input := validSurveyInput()
	input.Questions = nil
	survey, err := surveyLogic.CreateSurvey(creator.Id, input)
	if err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}

	if _, err := surveyLogic.PublishSurvey(survey.Id, creator.Id); errs.HTTPStatus(err) != 400 {
		t.Errorf("publish without questions error = %v, want 400", err)
	}
}

func TestUpdateSurveyOnlyDraft(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)

	input := validSurveyInput()
	input.StartTime = time.Now().Add(-time.Hour)
	survey, err := surveyLogic.CreateSurvey(creator.Id, input)
	if err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}

	if err := surveyLogic.UpdateSurvey(survey.Id, creator.Id,
		map[string]interface{}{"name": "新名称"}); err != nil {
		t.Fatalf("UpdateSurvey on draft failed: %v", err)
	}

	if _, err := surveyLogic.PublishSurvey(survey.Id, creator.Id); err != nil {
		t.Fatalf("PublishSurvey failed: %v", err)
	}
	err = surveyLogic.UpdateSurvey(survey.Id, creator.Id,
		map[string]interface{}{"name": "再改一次"})
	if errs.HTTPStatus(err) != 400 {
		t.Errorf("UpdateSurvey on active survey error = %v, want 400", err)
	}
}

func TestUpdateSurveyValidation(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)

	survey, err := surveyLogic.CreateSurvey(creator.Id, validSurveyInput())
	if err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}

	tests := []struct {
		name    string
		updates map[string]interface{}
	}{
		{"negative price", map[string]interface{}{"price": float64(-10)}},
		{"zero price", map[string]interface{}{"price": float64(0)}},
		{"zero sample size", map[string]interface{}{"sample_size": 0}},
		{"negative sample size", map[string]interface{}{"sample_size": -5}},
		{"empty name", map[string]interface{}{"name": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := surveyLogic.UpdateSurvey(survey.Id, creator.Id, tt.updates)
			if errs.HTTPStatus(err) != 400 {
				t.Errorf("UpdateSurvey(%v) error = %v, want 400", tt.updates, err)
			}
		})
	}

	// 非法更新不能落库
	var unchanged model.SurveyModel
	if err := db.First(&unchanged, survey.Id).Error; err != nil {
		t.Fatalf("failed to reload survey: %v", err)
	}
	if unchanged.Price != survey.Price {
		t.Errorf("price = %v after rejected updates, want %v", unchanged.Price, survey.Price)
	}
	if unchanged.SampleSize != survey.SampleSize {
		t.Errorf("sample size = %d after rejected updates, want %d", unchanged.SampleSize, survey.SampleSize)
	}

	// 合法更新仍然生效
	if err := surveyLogic.UpdateSurvey(survey.Id, creator.Id,
		map[string]interface{}{"price": float64(200), "sample_size": 20}); err != nil {
		t.Fatalf("valid UpdateSurvey failed: %v", err)
	}
	var updated model.SurveyModel
	if err := db.First(&updated, survey.Id).Error; err != nil {
		t.Fatalf("failed to reload survey: %v", err)
	}
	if updated.Price != 200 || updated.SampleSize != 20 {
		t.Errorf("survey after valid update = (%v, %d), want (200, 20)", updated.Price, updated.SampleSize)
	}
}

func TestGetSurveysCategoryFilter(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)

	consumer := validSurveyInput()
	consumer.CategoryId = 1
	if _, err := surveyLogic.CreateSurvey(creator.Id, consumer); err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}
	health := validSurveyInput()
	health.Name = "健康问卷"
	health.CategoryId = 2
	if _, err := surveyLogic.CreateSurvey(creator.Id, health); err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}

	surveys, total, err := surveyLogic.GetSurveys("", 2, 0, 1, 10)
	if err != nil {
		t.Fatalf("GetSurveys failed: %v", err)
	}
	if total != 1 || len(surveys) != 1 {
		t.Fatalf("filtered count = %d (total %d), want 1", len(surveys), total)
	}
	if surveys[0].CategoryId != 2 {
		t.Errorf("survey category = %d, want 2", surveys[0].CategoryId)
	}

	// 不筛选分类返回全部
	_, total, err = surveyLogic.GetSurveys("", 0, 0, 1, 10)
	if err != nil {
		t.Fatalf("GetSurveys failed: %v", err)
	}
	if total != 2 {
		t.Errorf("unfiltered total = %d, want 2", total)
	}
}

func TestCancelSurvey(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)

	survey, err := surveyLogic.CreateSurvey(creator.Id, validSurveyInput())
	if err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}

	if err := surveyLogic.CancelSurvey(survey.Id, creator.Id); err != nil {
		t.Fatalf("CancelSurvey failed: %v", err)
	}
	// 已取消后再取消被拒绝
	if err := surveyLogic.CancelSurvey(survey.Id, creator.Id); errs.HTTPStatus(err) != 400 {
		t.Errorf("second cancel error = %v, want 400", err)
	}
}

func TestSetStatus(t *testing.T) {
	db := newTestDB(t)
	surveyLogic := NewSurveyLogic(db)
	creator := seedUser(t, db, model.UserRoleCreator)

	survey, err := surveyLogic.CreateSurvey(creator.Id, validSurveyInput())
	if err != nil {
		t.Fatalf("CreateSurvey failed: %v", err)
	}

	if err := surveyLogic.SetStatus(survey.Id, "paused"); errs.HTTPStatus(err) != 400 {
		t.Errorf("SetStatus with invalid status error = %v, want 400", err)
	}
	if err := surveyLogic.SetStatus(9999, model.SurveyStatusCancelled); errs.HTTPStatus(err) != 404 {
		t.Errorf("SetStatus on missing survey error = %v, want 404", err)
	}
	if err := surveyLogic.SetStatus(survey.Id, model.SurveyStatusCancelled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
}
