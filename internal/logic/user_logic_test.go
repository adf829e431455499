package logic

import (
	"testing"

	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	userLogic := NewUserLogic(db, config.JWTConfig{Secret: "test-secret", ExpiresIn: 1})

	user, err := userLogic.Register(&RegisterInput{
		Name:     "小明",
		Email:    "xiaoming@test.local",
		Password: "password123",
		Role:     "creator",
		Age:      28,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != model.UserRoleCreator {
		t.Errorf("user role = %s, want creator", user.Role)
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in plaintext")
	}

	// 重复邮箱
	_, err = userLogic.Register(&RegisterInput{
		Name:     "小红",
		Email:    "xiaoming@test.local",
		Password: "password456",
	})
	if errs.HTTPStatus(err) != 409 {
		t.Errorf("duplicate email error = %v, want 409", err)
	}

	// 角色缺省为user，admin不可自助注册
	plain, err := userLogic.Register(&RegisterInput{
		Name:     "小红",
		Email:    "xiaohong@test.local",
		Password: "password456",
	})
	if err != nil {
		t.Fatalf("Register without role failed: %v", err)
	}
	if plain.Role != model.UserRoleUser {
		t.Errorf("default role = %s, want user", plain.Role)
	}
	_, err = userLogic.Register(&RegisterInput{
		Name:     "坏人",
		Email:    "admin@test.local",
		Password: "password789",
		Role:     "admin",
	})
	if errs.HTTPStatus(err) != 400 {
		t.Errorf("self-registered admin error = %v, want 400", err)
	}

	token, loggedIn, err := userLogic.Login("xiaoming@test.local", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.Id != user.Id {
		t.Errorf("logged in user id = %d, want %d", loggedIn.Id, user.Id)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token invalid: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if int64(claims["sub"].(float64)) != user.Id {
		t.Errorf("token sub = %v, want %d", claims["sub"], user.Id)
	}
	if claims["role"] != "creator" {
		t.Errorf("token role = %v, want creator", claims["role"])
	}
}

func TestLoginRejections(t *testing.T) {
	db := newTestDB(t)
	userLogic := NewUserLogic(db, config.JWTConfig{Secret: "test-secret", ExpiresIn: 1})

	user, err := userLogic.Register(&RegisterInput{
		Name:     "小明",
		Email:    "xiaoming@test.local",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := userLogic.Login("nobody@test.local", "password123"); errs.HTTPStatus(err) != 401 {
		t.Errorf("login with unknown email error = %v, want 401", err)
	}
	if _, _, err := userLogic.Login("xiaoming@test.local", "wrong"); errs.HTTPStatus(err) != 401 {
		t.Errorf("login with wrong password error = %v, want 401", err)
	}

	if err := userLogic.SetBlocked(user.Id, true); err != nil {
		t.Fatalf("SetBlocked failed: %v", err)
	}
	if _, _, err := userLogic.Login("xiaoming@test.local", "password123"); errs.HTTPStatus(err) != 403 {
		t.Errorf("login while blocked error = %v, want 403", err)
	}

	if err := userLogic.SetBlocked(9999, true); errs.HTTPStatus(err) != 404 {
		t.Errorf("SetBlocked on missing user error = %v, want 404", err)
	}
}
