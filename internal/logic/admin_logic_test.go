package logic

import (
	"errors"
	"testing"

	"github.com/blues/sms/internal/errs"
)

func TestUpdateCutPercentage(t *testing.T) {
	db := newTestDB(t)
	adminLogic := NewAdminLogic(db)

	// 未配置时读取返回404
	if _, err := adminLogic.GetCutPercentage(); errs.HTTPStatus(err) != 404 {
		t.Errorf("GetCutPercentage before init error = %v, want 404", err)
	}

	for _, bad := range []float64{-1, 100.5, 200} {
		if _, err := adminLogic.UpdateCutPercentage(bad); errs.HTTPStatus(err) != 400 {
			t.Errorf("UpdateCutPercentage(%v) error = %v, want 400", bad, err)
		}
	}

	created, err := adminLogic.UpdateCutPercentage(20)
	if err != nil {
		t.Fatalf("UpdateCutPercentage(20) failed: %v", err)
	}
	if created.CutPercentage != 20 {
		t.Errorf("cut percentage = %v, want 20", created.CutPercentage)
	}

	// 二次更新修改同一行而不是新建
	updated, err := adminLogic.UpdateCutPercentage(15)
	if err != nil {
		t.Fatalf("UpdateCutPercentage(15) failed: %v", err)
	}
	if updated.Id != created.Id {
		t.Errorf("update created a second config row: %d != %d", updated.Id, created.Id)
	}

	current, err := adminLogic.GetCutPercentage()
	if err != nil {
		t.Fatalf("GetCutPercentage failed: %v", err)
	}
	if current.CutPercentage != 15 {
		t.Errorf("cut percentage = %v after update, want 15", current.CutPercentage)
	}
}

func TestCategoryManagement(t *testing.T) {
	db := newTestDB(t)
	adminLogic := NewAdminLogic(db)

	category, err := adminLogic.CreateCategory("消费")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if !category.Active {
		t.Error("new category not active")
	}

	if _, err := adminLogic.CreateCategory(""); errs.HTTPStatus(err) != 400 {
		t.Errorf("CreateCategory(\"\") error = %v, want 400", err)
	}

	_, err = adminLogic.CreateCategory("消费")
	var appErr *errs.AppError
	if !errors.As(err, &appErr) || appErr.Status != 409 {
		t.Errorf("duplicate CreateCategory error = %v, want 409", err)
	}

	other, err := adminLogic.CreateCategory("健康")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	// 改名撞上已有分类
	name := "消费"
	if err := adminLogic.UpdateCategory(other.Id, &name, nil); errs.HTTPStatus(err) != 409 {
		t.Errorf("rename to existing name error = %v, want 409", err)
	}

	// 停用
	active := false
	if err := adminLogic.UpdateCategory(other.Id, nil, &active); err != nil {
		t.Fatalf("UpdateCategory deactivate failed: %v", err)
	}

	categories, err := adminLogic.GetCategories()
	if err != nil {
		t.Fatalf("GetCategories failed: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("category count = %d, want 2", len(categories))
	}

	if err := adminLogic.UpdateCategory(9999, nil, &active); errs.HTTPStatus(err) != 404 {
		t.Errorf("UpdateCategory on missing id error = %v, want 404", err)
	}
}

func TestOccupationManagement(t *testing.T) {
	db := newTestDB(t)
	adminLogic := NewAdminLogic(db)

	if _, err := adminLogic.CreateOccupation("工程师"); err != nil {
		t.Fatalf("CreateOccupation failed: %v", err)
	}
	if _, err := adminLogic.CreateOccupation("工程师"); errs.HTTPStatus(err) != 409 {
		t.Errorf("duplicate CreateOccupation error = %v, want 409", err)
	}

	occupations, err := adminLogic.GetOccupations()
	if err != nil {
		t.Fatalf("GetOccupations failed: %v", err)
	}
	if len(occupations) != 1 {
		t.Fatalf("occupation count = %d, want 1", len(occupations))
	}

	name := "教师"
	if err := adminLogic.UpdateOccupation(occupations[0].Id, &name, nil); err != nil {
		t.Fatalf("UpdateOccupation rename failed: %v", err)
	}

	if err := adminLogic.UpdateOccupation(occupations[0].Id, nil, nil); errs.HTTPStatus(err) != 400 {
		t.Errorf("UpdateOccupation without fields error = %v, want 400", err)
	}
}
