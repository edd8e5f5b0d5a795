package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"hoffman/internal/core"
)

type memAccounts struct {
	mu      sync.Mutex
	byEmail map[string]core.Account
	failGet error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: map[string]core.Account{}}
}

func (m *memAccounts) CreateAccount(_ context.Context, a core.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byEmail[a.Email] = a
	return nil
}

func (m *memAccounts) GetAccountByEmail(_ context.Context, email string) (core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return core.Account{}, m.failGet
	}
	a, ok := m.byEmail[email]
	if !ok {
		return core.Account{}, core.ErrNotFound
	}
	return a, nil
}

func (m *memAccounts) DeleteAccount(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, a := range m.byEmail {
		if a.ID == id {
			delete(m.byEmail, email)
		}
	}
	return nil
}

func TestPasswordProviderSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	store := newMemAccounts()
	p := NewPasswordProvider(store, bcrypt.MinCost)

	acct, err := p.SignUp(ctx, " Maria@Example.com ", "segredo")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if acct.ID == "" || acct.Email != "maria@example.com" {
		t.Fatalf("unexpected account %+v", acct)
	}
	if acct.PasswordHash == "segredo" {
		t.Fatal("password must be hashed")
	}

	got, err := p.SignIn(ctx, "maria@example.com", "segredo")
	if err != nil || got.ID != acct.ID {
		t.Fatalf("sign in: %+v, %v", got, err)
	}

	if _, err := p.SignIn(ctx, "maria@example.com", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := p.SignIn(ctx, "ninguem@example.com", "segredo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := p.SignUp(ctx, "maria@example.com", "outrasenha"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPasswordProviderRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	p := NewPasswordProvider(newMemAccounts(), bcrypt.MinCost)

	cases := []struct {
		email, password string
		want            error
	}{
		{"not-an-email", "segredo", ErrInvalidEmail},
		{"", "segredo", ErrInvalidEmail},
		{"a@b.com", "12345", ErrWeakPassword},
	}
	for _, tc := range cases {
		if _, err := p.SignUp(ctx, tc.email, tc.password); !errors.Is(err, tc.want) {
			t.Fatalf("SignUp(%q) expected %v, got %v", tc.email, tc.want, err)
		}
		if !IsUserError(tc.want) {
			t.Fatalf("%v should be a user error", tc.want)
		}
	}
	if _, err := p.SignIn(ctx, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordProviderStoreFailure(t *testing.T) {
	store := newMemAccounts()
	store.failGet = errors.New("db down")
	p := NewPasswordProvider(store, bcrypt.MinCost)

	_, err := p.SignIn(context.Background(), "a@b.com", "segredo")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("backend failures must not look like bad credentials: %v", err)
	}
	if IsUserError(err) {
		t.Fatal("backend failure is not a user error")
	}
}

func TestPasswordProviderDeleteAccount(t *testing.T) {
	ctx := context.Background()
	store := newMemAccounts()
	p := NewPasswordProvider(store, bcrypt.MinCost)
	acct, err := p.SignUp(ctx, "x@example.com", "segredo")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.DeleteAccount(ctx, acct.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := p.SignIn(ctx, "x@example.com", "segredo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deleted account must not sign in, got %v", err)
	}
}
