package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hoffman/internal/core"
)

type FamilyStore interface {
	InsertFamilyLink(ctx context.Context, l core.FamilyLink) error
	ListLinkedViewers(ctx context.Context, adminID string) ([]core.LinkedViewer, error)
}

// FamilyService links viewer accounts to an admin. The family code an
// admin shares is the admin's own user id.
type FamilyService struct {
	store FamilyStore
}

func NewFamilyService(store FamilyStore) *FamilyService {
	return &FamilyService{store: store}
}

func (s *FamilyService) ShareCode(adminID string) string {
	return adminID
}

// LinkedViewers lists the admin's viewers; read errors yield an empty list.
func (s *FamilyService) LinkedViewers(ctx context.Context, adminID string) []core.LinkedViewer {
	viewers, err := s.store.ListLinkedViewers(ctx, adminID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list linked viewers", "user_id", adminID, "error", err)
		return nil
	}
	return viewers
}

// Join links viewerID to the admin named by the code. The code is not
// checked beforehand; unknown admins and repeated joins are rejected by
// the store.
func (s *FamilyService) Join(ctx context.Context, viewerID string, form JoinForm) error {
	if err := checkForm(form, MsgFamilyCode); err != nil {
		return err
	}
	link := core.FamilyLink{AdminID: strings.TrimSpace(form.Code), ViewerID: viewerID}
	if err := s.store.InsertFamilyLink(ctx, link); err != nil {
		return fmt.Errorf("join family: %w", err)
	}
	slog.InfoContext(ctx, "Viewer joined family", "viewer_id", viewerID, "admin_id", link.AdminID)
	return nil
}
