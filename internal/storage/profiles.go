package storage

import (
	"context"
	"database/sql"
	"fmt"

	"hoffman/internal/core"
)

func (s *Store) InsertProfile(ctx context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.exec(ctx,
		`INSERT INTO profiles (id, role, display_name) VALUES (?, ?, ?)`,
		p.ID, string(p.Role), nullString(p.DisplayName))
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, id string) (core.Profile, error) {
	var (
		p    core.Profile
		role string
		name sql.NullString
	)
	err := s.queryRow(ctx,
		`SELECT id, role, display_name FROM profiles WHERE id = ?`, id).
		Scan(&p.ID, &role, &name)
	if err != nil {
		return core.Profile{}, notFound(err)
	}
	p.Role = core.Role(role)
	p.DisplayName = name.String
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
