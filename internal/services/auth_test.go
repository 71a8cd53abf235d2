package services

import (
	"context"
	"errors"
	"testing"

	"github.com/openlearn/openlearn-backend/internal/requestdata"
	"github.com/openlearn/openlearn-backend/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.RegisterUser(ctx, RegisterInput{
		Email:    "Editor@Example.com",
		Password: "correct horse",
		Role:     types.RoleEditor,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "editor@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Password == "correct horse" {
		t.Fatalf("password stored in the clear")
	}

	if _, err := env.auth.RegisterUser(ctx, RegisterInput{Email: "editor@example.com", Password: "another pass"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate email: expected ErrConflict, got %v", err)
	}

	if _, _, err := env.auth.LoginUser(ctx, "editor@example.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("bad password: expected ErrUnauthorized, got %v", err)
	}
	if _, _, err := env.auth.LoginUser(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown email: expected ErrUnauthorized, got %v", err)
	}

	token, loggedIn, err := env.auth.LoginUser(ctx, "editor@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned wrong user")
	}

	// The token round-trips into request context with the role claim intact.
	authedCtx, err := env.auth.SetContextFromToken(ctx, token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil {
		t.Fatalf("no request data in context")
	}
	if rd.UserID != user.ID || rd.Role != types.RoleEditor {
		t.Fatalf("claims mismatch: %+v", rd)
	}
	if !rd.HasRole(types.RoleAdmin, types.RoleEditor) {
		t.Fatalf("editor should pass an admin/editor check")
	}
	if rd.HasRole(types.RoleAdmin) {
		t.Fatalf("editor must not pass an admin-only check")
	}
}

func TestSetContextFromToken_RejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.SetContextFromToken(ctx, "not-a-jwt"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// A token signed with a different secret is rejected.
	other := NewAuthService(env.db, env.log, env.userRepo, "other-secret", testTokenTTL)
	user, err := other.RegisterUser(ctx, RegisterInput{Email: "a@example.com", Password: "long enough"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	foreignToken, _, err := other.LoginUser(ctx, user.Email, "long enough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := env.auth.SetContextFromToken(ctx, foreignToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("foreign signature: expected ErrUnauthorized, got %v", err)
	}
}

func TestRegisterUser_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.RegisterUser(ctx, RegisterInput{Email: "no-at-sign", Password: "long enough"}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("bad email: expected ErrMissingField, got %v", err)
	}
	if _, err := env.auth.RegisterUser(ctx, RegisterInput{Email: "a@b.com", Password: "short"}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("short password: expected ErrMissingField, got %v", err)
	}
	if _, err := env.auth.RegisterUser(ctx, RegisterInput{Email: "a@b.com", Password: "long enough", Role: "superuser"}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("unknown role: expected ErrMissingField, got %v", err)
	}
}
