package storage

import (
	"context"
	"fmt"
	"strings"

	"hoffman/internal/core"
)

func (s *Store) CreateAccount(ctx context.Context, a core.Account) error {
	_, err := s.exec(ctx,
		`INSERT INTO accounts (id, email, password_hash) VALUES (?, ?, ?)`,
		a.ID, strings.ToLower(a.Email), a.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetAccountByEmail returns core.ErrNotFound when no account matches.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (core.Account, error) {
	var a core.Account
	err := s.queryRow(ctx,
		`SELECT id, email, password_hash FROM accounts WHERE email = ?`,
		strings.ToLower(email)).Scan(&a.ID, &a.Email, &a.PasswordHash)
	if err != nil {
		return core.Account{}, notFound(err)
	}
	return a, nil
}

// DeleteAccount removes the account and, through cascades, everything it owns.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.exec(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
