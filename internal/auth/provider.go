package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hoffman/internal/core"
)

const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("E-mail ou senha inválidos")
	ErrInvalidEmail       = errors.New("E-mail inválido")
	ErrWeakPassword       = fmt.Errorf("A senha deve ter pelo menos %d caracteres", MinPasswordLength)
	ErrEmailTaken         = errors.New("Este e-mail já está cadastrado")
)

// Provider is the identity provider: it owns credentials and account ids.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (core.Account, error)
	SignIn(ctx context.Context, email, password string) (core.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// AccountStore persists accounts. GetAccountByEmail returns core.ErrNotFound
// for unknown emails.
type AccountStore interface {
	CreateAccount(ctx context.Context, a core.Account) error
	GetAccountByEmail(ctx context.Context, email string) (core.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// PasswordProvider keeps bcrypt hashed passwords in an AccountStore.
type PasswordProvider struct {
	store AccountStore
	cost  int
	now   func() time.Time
}

// NewPasswordProvider uses bcrypt.DefaultCost when cost is not positive.
func NewPasswordProvider(store AccountStore, cost int) *PasswordProvider {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordProvider{store: store, cost: cost, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *PasswordProvider) SignUp(ctx context.Context, email, password string) (core.Account, error) {
	email = normalizeEmail(email)
	if err := checkmail.ValidateFormat(email); err != nil {
		return core.Account{}, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return core.Account{}, ErrWeakPassword
	}

	_, err := p.store.GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		return core.Account{}, ErrEmailTaken
	case !errors.Is(err, core.ErrNotFound):
		return core.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return core.Account{}, fmt.Errorf("hash password: %w", err)
	}

	acct := core.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    p.now(),
	}
	if err := p.store.CreateAccount(ctx, acct); err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "user_id", acct.ID)
	return acct, nil
}

func (p *PasswordProvider) SignIn(ctx context.Context, email, password string) (core.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return core.Account{}, ErrInvalidCredentials
	}

	acct, err := p.store.GetAccountByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return core.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return core.Account{}, ErrInvalidCredentials
	}
	return acct, nil
}

func (p *PasswordProvider) DeleteAccount(ctx context.Context, id string) error {
	return p.store.DeleteAccount(ctx, id)
}

// IsUserError reports whether err is a credential problem the user can fix.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrEmailTaken)
}
