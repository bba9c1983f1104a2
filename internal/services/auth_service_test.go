package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/models"
)

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Duration{}
	}
	m.revoked[id] = ttl
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok, nil
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	tok, err := env.auth.Register(env.ctx, RegisterInput{Name: "Wendy", Login: "w1", Password: "pw123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if tok.TokenType != "bearer" || tok.Role != string(models.RoleWaiter) || tok.Name != "Wendy" || tok.AccessToken == "" {
		t.Errorf("token response = %+v", tok)
	}

	_, err = env.auth.Register(env.ctx, RegisterInput{Name: "Other", Login: "w1", Password: "pw123"})
	assertKind(t, err, ErrConflict)
	_, err = env.auth.Register(env.ctx, RegisterInput{Name: "X", Login: "x1", Password: "pw123", Role: "owner"})
	assertKind(t, err, ErrValidation)
	_, err = env.auth.Register(env.ctx, RegisterInput{Name: "Mallory", Login: "m1", Password: "pw123", Role: "admin"})
	assertKind(t, err, ErrForbidden)

	got, err := env.auth.Login(env.ctx, "w1", "pw123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.UserID != tok.UserID {
		t.Errorf("login user id = %d, want %d", got.UserID, tok.UserID)
	}
	_, err = env.auth.Login(env.ctx, "w1", "wrong")
	assertKind(t, err, ErrUnauthorized)
	_, err = env.auth.Login(env.ctx, "nobody", "pw123")
	assertKind(t, err, ErrUnauthorized)

	claims, err := env.auth.Authenticate(env.ctx, got.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id, _ := claims.UserID(); id != tok.UserID {
		t.Errorf("claims user id = %d", id)
	}
}

func TestLogin_DisabledUser(t *testing.T) {
	env := newTestEnv(t)
	off := false
	u, err := env.users.CreateUser(env.ctx, UserInput{Name: "Off", Login: "off", Password: "pw123", IsAvailable: &off})
	if err != nil {
		t.Fatal(err)
	}
	if u.IsAvailable {
		t.Fatal("user created as available")
	}
	_, err = env.auth.Login(env.ctx, "off", "pw123")
	assertKind(t, err, ErrForbidden)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.auth.Register(env.ctx, RegisterInput{Name: "W", Login: "w1", Password: "pw123"})

	assertKind(t, env.auth.ChangePassword(env.ctx, tok.UserID, "bad", "newpass"), ErrValidation)
	assertKind(t, env.auth.ChangePassword(env.ctx, tok.UserID, "pw123", "short"), ErrValidation)
	if err := env.auth.ChangePassword(env.ctx, tok.UserID, "pw123", "newpass"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.auth.Login(env.ctx, "w1", "newpass"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	_, err := env.auth.Login(env.ctx, "w1", "pw123")
	assertKind(t, err, ErrUnauthorized)
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnv(t)
	issuer, _ := auth.NewIssuer("test-secret", "HS256", time.Hour)
	revoker := &memoryRevoker{}
	svc := NewAuthService(env.store, issuer, revoker)

	tok, _ := svc.Register(env.ctx, RegisterInput{Name: "W", Login: "w1", Password: "pw123"})
	claims, err := svc.Authenticate(env.ctx, tok.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(env.ctx, claims); err != nil {
		t.Fatal(err)
	}
	if ttl := revoker.revoked[claims.ID]; ttl <= 0 || ttl > time.Hour {
		t.Errorf("revocation ttl = %v", ttl)
	}
	_, err = svc.Authenticate(env.ctx, tok.AccessToken)
	assertKind(t, err, ErrUnauthorized)

	fresh, err := svc.Refresh(env.ctx, tok.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(env.ctx, fresh.AccessToken); err != nil {
		t.Errorf("refreshed token rejected: %v", err)
	}
}
