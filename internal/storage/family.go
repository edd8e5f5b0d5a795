package storage

import (
	"context"
	"database/sql"
	"fmt"

	"hoffman/internal/core"
)

// InsertFamilyLink relies on the schema to reject unknown admins and viewers
// that already have a link.
func (s *Store) InsertFamilyLink(ctx context.Context, l core.FamilyLink) error {
	_, err := s.exec(ctx,
		`INSERT INTO family_links (admin_id, viewer_id) VALUES (?, ?)`,
		l.AdminID, l.ViewerID)
	if err != nil {
		return fmt.Errorf("insert family link: %w", err)
	}
	return nil
}

// ListLinkedViewers returns the viewers linked to adminID in link order.
func (s *Store) ListLinkedViewers(ctx context.Context, adminID string) ([]core.LinkedViewer, error) {
	rows, err := s.query(ctx, `
		SELECT fl.viewer_id, p.display_name
		FROM family_links fl
		LEFT JOIN profiles p ON p.id = fl.viewer_id
		WHERE fl.admin_id = ?
		ORDER BY fl.id`, adminID)
	if err != nil {
		return nil, fmt.Errorf("list linked viewers: %w", err)
	}
	defer rows.Close()

	var viewers []core.LinkedViewer
	for rows.Next() {
		var (
			v    core.LinkedViewer
			name sql.NullString
		)
		if err := rows.Scan(&v.ID, &name); err != nil {
			return nil, fmt.Errorf("scan linked viewer: %w", err)
		}
		v.DisplayName = name.String
		viewers = append(viewers, v)
	}
	return viewers, rows.Err()
}
