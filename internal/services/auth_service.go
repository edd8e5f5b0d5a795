package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hoffman/internal/auth"
	"hoffman/internal/core"
)

type ProfileStore interface {
	InsertProfile(ctx context.Context, p core.Profile) error
}

// AuthService signs users up and in. A sign-up creates the identity
// provider account first and then the profile row.
type AuthService struct {
	provider auth.Provider
	profiles ProfileStore
}

func NewAuthService(provider auth.Provider, profiles ProfileStore) *AuthService {
	return &AuthService{provider: provider, profiles: profiles}
}

// SignUp returns the created profile. If the profile cannot be stored the
// provider account is removed again so no half-registered user remains.
func (s *AuthService) SignUp(ctx context.Context, form SignUpForm) (core.Profile, error) {
	form.Role = strings.ToLower(strings.TrimSpace(form.Role))
	if form.Role == "" {
		form.Role = string(core.RoleAdmin)
	}
	if err := checkForm(form, MsgInvalidRole); err != nil {
		return core.Profile{}, err
	}
	role, err := core.ParseRole(form.Role)
	if err != nil {
		return core.Profile{}, core.NewValidationError(MsgInvalidRole)
	}

	acct, err := s.provider.SignUp(ctx, form.Email, form.Password)
	if err != nil {
		return core.Profile{}, err
	}

	profile := core.Profile{
		ID:          acct.ID,
		Role:        role,
		DisplayName: strings.TrimSpace(form.DisplayName),
	}
	if err := s.profiles.InsertProfile(ctx, profile); err != nil {
		slog.ErrorContext(ctx, "Failed to create profile, removing account",
			"user_id", acct.ID, "error", err)
		if delErr := s.provider.DeleteAccount(ctx, acct.ID); delErr != nil {
			slog.ErrorContext(ctx, "Failed to remove account after profile error",
				"user_id", acct.ID, "error", delErr)
		}
		return core.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	slog.InfoContext(ctx, "User signed up", "user_id", acct.ID, "role", role)
	return profile, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (core.Account, error) {
	acct, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return core.Account{}, err
	}
	slog.InfoContext(ctx, "User signed in", "user_id", acct.ID)
	return acct, nil
}
