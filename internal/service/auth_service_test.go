package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cometa/backend/config"
	"cometa/backend/internal/dto"
	"cometa/backend/internal/model"
	"cometa/backend/pkg/jwt"
)

func setupTestAuthService(t *testing.T) (AuthService, *testRepos) {
	t.Helper()
	repos := newTestRepos()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-for-unit-tests",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	// rdb 为 nil：黑名单检查走降级路径
	return NewAuthService(cfg, repos.toRepository(), jwtMgr, nil, zap.NewNop()), repos
}

func seedCredential(t *testing.T, repos *testRepos, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	u := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "测",
		LastName:     "试",
		Role:         model.RoleAdmin,
	}
	if err := repos.user.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func TestLogin(t *testing.T) {
	svc, repos := setupTestAuthService(t)
	ctx := context.Background()
	seedCredential(t, repos, "admin@cometa.de", "geheim123")

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "admin@cometa.de", Password: "geheim123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录应返回 token 对")
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn 不符: %d", resp.ExpiresIn)
	}
	if resp.User.Email != "admin@cometa.de" {
		t.Errorf("响应用户不符: %+v", resp.User)
	}

	// 错误密码与未知邮箱统一返回凭证错误
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "admin@cometa.de", Password: "falsch"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望 ErrInvalidCredentials, 实际 %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@cometa.de", Password: "geheim123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestRefresh(t *testing.T) {
	svc, repos := setupTestAuthService(t)
	ctx := context.Background()
	user := seedCredential(t, repos, "pm@cometa.de", "geheim123")

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "pm@cometa.de", Password: "geheim123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应返回新 token 对")
	}

	// access token 不能用于刷新
	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.AccessToken}); !errors.Is(err, jwt.ErrTokenInvalid) {
		t.Fatalf("期望 ErrTokenInvalid, 实际 %v", err)
	}

	// 用户被停用后刷新失败
	if err := repos.user.SoftDelete(ctx, user.ID); err != nil {
		t.Fatalf("停用用户失败: %v", err)
	}
	if _, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("期望 ErrUserNotFound, 实际 %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, repos := setupTestAuthService(t)
	ctx := context.Background()
	user := seedCredential(t, repos, "worker@cometa.de", "altesPasswort")

	err := svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		OldPassword: "falsch",
		NewPassword: "neuesPasswort1",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("期望 ErrWrongPassword, 实际 %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		OldPassword: "altesPasswort",
		NewPassword: "neuesPasswort1",
	}); err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "worker@cometa.de", Password: "neuesPasswort1"}); err != nil {
		t.Fatalf("新密码登录失败: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "worker@cometa.de", Password: "altesPasswort"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("旧密码应失效, 实际 %v", err)
	}
}

// Redis 降级运行时登出是空操作
func TestLogout_WithoutRedis(t *testing.T) {
	svc, _ := setupTestAuthService(t)
	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("降级登出应为空操作: %v", err)
	}
}
