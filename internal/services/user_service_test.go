package services

import (
	"testing"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/models"
)

func TestUserService_Access(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "admin", models.RoleAdmin)
	w1 := env.user(t, "w1", models.RoleWaiter)
	w2 := env.user(t, "w2", models.RoleWaiter)

	if _, err := env.users.GetUserByID(env.ctx, w1, w1.UserID); err != nil {
		t.Errorf("self read: %v", err)
	}
	if _, err := env.users.GetUserByID(env.ctx, admin, w1.UserID); err != nil {
		t.Errorf("admin read: %v", err)
	}
	_, err := env.users.GetUserByID(env.ctx, w1, w2.UserID)
	assertKind(t, err, ErrForbidden)
	_, err = env.users.GetUserByID(env.ctx, admin, 999)
	assertKind(t, err, ErrNotFound)

	_, err = env.users.UpdateUser(env.ctx, w1, w1.UserID, UserUpdate{Role: strPtr("admin")})
	assertKind(t, err, ErrForbidden)
	u, err := env.users.UpdateUser(env.ctx, w1, w1.UserID, UserUpdate{Name: strPtr("Renamed"), Password: strPtr("another")})
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Renamed" || !auth.CheckPassword(u.Password, "another") {
		t.Errorf("updated user = %+v", u)
	}
	u, err = env.users.UpdateUser(env.ctx, admin, w1.UserID, UserUpdate{Role: strPtr("cook")})
	if err != nil || u.Role != "cook" {
		t.Errorf("admin role change = %+v, %v", u, err)
	}
	_, err = env.users.UpdateUser(env.ctx, admin, w1.UserID, UserUpdate{Login: strPtr("w2")})
	assertKind(t, err, ErrConflict)
}

func TestUserService_ReplaceAndDelete(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "admin", models.RoleAdmin)
	w1 := env.user(t, "w1", models.RoleWaiter)

	off := false
	u, err := env.users.ReplaceUser(env.ctx, w1.UserID, UserInput{Name: "Full", Login: "full", Password: "pw1234", Role: "cook", IsAvailable: &off})
	if err != nil {
		t.Fatal(err)
	}
	if u.Login != "full" || u.Role != "cook" || u.IsAvailable {
		t.Errorf("replaced user = %+v", u)
	}
	_, err = env.users.ReplaceUser(env.ctx, w1.UserID, UserInput{Name: "X", Login: "x", Password: "pw1234", Role: "chef"})
	assertKind(t, err, ErrValidation)

	hashed, err := env.users.PasswordHash(env.ctx, "full")
	if err != nil || !auth.CheckPassword(hashed.Password, "pw1234") {
		t.Errorf("PasswordHash = %v, %v", hashed, err)
	}

	if _, err := env.orders.CreateOrder(env.ctx, admin, OrderInput{}); err != nil {
		t.Fatal(err)
	}
	assertKind(t, env.users.DeleteUser(env.ctx, admin.UserID), ErrConflict)
	if err := env.users.DeleteUser(env.ctx, w1.UserID); err != nil {
		t.Errorf("delete user without orders: %v", err)
	}
	assertKind(t, env.users.DeleteUser(env.ctx, w1.UserID), ErrNotFound)
}
