package services

import (
	"context"
	"testing"

	"hoffman/internal/core"
)

func TestFamilyJoinAndList(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.profiles["admin-1"] = core.Profile{ID: "admin-1", Role: core.RoleAdmin}
	store.profiles["viewer-1"] = core.Profile{ID: "viewer-1", Role: core.RoleViewer, DisplayName: "Sogro"}
	svc := NewFamilyService(store)

	if code := svc.ShareCode("admin-1"); code != "admin-1" {
		t.Fatalf("share code should be the admin id, got %q", code)
	}
	if err := svc.Join(ctx, "viewer-1", JoinForm{Code: " admin-1 "}); err != nil {
		t.Fatal(err)
	}
	viewers := svc.LinkedViewers(ctx, "admin-1")
	if len(viewers) != 1 || viewers[0].Label() != "Sogro" {
		t.Fatalf("unexpected viewers %+v", viewers)
	}

	if err := svc.Join(ctx, "viewer-1", JoinForm{Code: "admin-1"}); err == nil {
		t.Fatal("second join of the same viewer must fail")
	}
}

func TestFamilyJoinValidation(t *testing.T) {
	svc := NewFamilyService(newFakeStore())
	err := svc.Join(context.Background(), "viewer-1", JoinForm{Code: "   "})
	if !core.IsValidationError(err) || err.Error() != MsgFamilyCode {
		t.Fatalf("expected %q, got %v", MsgFamilyCode, err)
	}
}

func TestFamilyJoinUnknownCode(t *testing.T) {
	svc := NewFamilyService(newFakeStore())
	err := svc.Join(context.Background(), "viewer-1", JoinForm{Code: "nope"})
	if err == nil || core.IsValidationError(err) {
		t.Fatalf("expected backend rejection, got %v", err)
	}
}
