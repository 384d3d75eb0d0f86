package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"gpa-tracker/internal/dto"
	"gpa-tracker/internal/model"
	"gpa-tracker/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *testEnv, *jwt.Manager) {
	env := newTestEnv()
	cfg := testConfig()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, env.repo, jwtMgr, env.cache, env.logger)
	return svc, env, jwtMgr
}

func createTestUser(env *testEnv, username, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-" + username,
		Username:     username,
		FullName:     "测试用户",
		PasswordHash: string(hash),
	}
	env.store.users[user.UserID] = user
	return user
}

// ── 注册测试 ──

func TestRegister_Success(t *testing.T) {
	svc, env, jwtMgr := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: " bob ",
		FullName: "Bob Lee",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 应成功，但返回错误: %v", err)
	}
	if result.User.Username != "bob" {
		t.Errorf("期望用户名去除首尾空格后为 bob，实际=%q", result.User.Username)
	}

	stored := env.store.users[result.User.ID]
	if stored == nil {
		t.Fatal("用户未写入仓储")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")) != nil {
		t.Error("密码应以 bcrypt 哈希保存")
	}

	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}
	if claims.UserID != result.User.ID || claims.TokenType != jwt.TokenTypeAccess {
		t.Errorf("AccessToken 声明不匹配: %+v", claims)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	createTestUser(env, "carol", "password123")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "CAROL",
		Password: "password123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("期望 ErrUsernameTaken，实际: %v", err)
	}
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	createTestUser(env, "dave", "password123")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "dave",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功，但返回错误: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if result.RefreshToken == "" {
		t.Error("RefreshToken 不应为空")
	}
	if result.User.Username != "dave" {
		t.Errorf("期望 Username=dave，实际=%s", result.User.Username)
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	createTestUser(env, "dave", "password123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "dave",
		Password: "wrong_password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "nobody",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── 刷新 / 登出测试 ──

func TestRefreshToken_RotatesAndBlacklistsOld(t *testing.T) {
	svc, env, jwtMgr := setupTestAuthService()
	createTestUser(env, "erin", "password123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "erin", Password: "password123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("刷新后应签发新的 RefreshToken")
	}

	old, _ := jwtMgr.ParseToken(login.RefreshToken)
	if _, ok := env.cache.blacklisted[old.ID]; !ok {
		t.Error("旧 RefreshToken 应加入黑名单")
	}

	// 旧 Token 不可重复使用
	_, err = svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，实际: %v", err)
	}
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	createTestUser(env, "erin", "password123")

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{Username: "erin", Password: "password123"})

	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.AccessToken})
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("期望 ErrInvalidRefreshToken，实际: %v", err)
	}
}

func TestLogout_BlacklistsToken(t *testing.T) {
	svc, env, jwtMgr := setupTestAuthService()
	createTestUser(env, "frank", "password123")

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{Username: "frank", Password: "password123"})
	claims, _ := jwtMgr.ParseToken(login.AccessToken)

	if err := svc.Logout(context.Background(), claims.ID, claims.RemainingTTL()); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}
	if blocked, _ := env.cache.IsBlacklisted(context.Background(), claims.ID); !blocked {
		t.Error("登出后 AccessToken 应在黑名单中")
	}
}

func TestLogout_WithoutRedis(t *testing.T) {
	env := newTestEnv()
	cfg := testConfig()
	svc := NewAuthService(cfg, env.repo, jwt.NewManager(&cfg.Auth), nil, env.logger)

	if err := svc.Logout(context.Background(), "some-jti", 0); err != nil {
		t.Errorf("Redis 不可用时登出应降级成功，实际: %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	svc, env, _ := setupTestAuthService()
	user := createTestUser(env, "gina", "password123")

	got, err := svc.GetCurrentUser(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if got.Username != "gina" {
		t.Errorf("期望 gina，实际 %s", got.Username)
	}

	_, err = svc.GetCurrentUser(context.Background(), "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
