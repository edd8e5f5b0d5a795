package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour, false)

	rr := httptest.NewRecorder()
	if err := m.SetCookie(rr, "user-1"); err != nil {
		t.Fatal(err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/panel", nil)
	req.AddCookie(cookies[0])
	userID, ok := m.FromRequest(req)
	if !ok || userID != "user-1" {
		t.Fatalf("FromRequest = %q, %v", userID, ok)
	}
}

func TestSessionRejectsTampering(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour, false)
	other := NewSessionManager("other-secret", time.Hour, false)

	token, err := other.Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Validate(token); err != ErrInvalidSession {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if _, err := m.Validate("garbage"); err != ErrInvalidSession {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionExpires(t *testing.T) {
	m := NewSessionManager("test-secret", time.Minute, false)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Validate(token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := m.Validate(token); err != ErrInvalidSession {
		t.Fatalf("expired token accepted: %v", err)
	}
}

func TestMissingCookie(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := m.FromRequest(req); ok {
		t.Fatal("request without cookie must have no session")
	}
}

func TestClearCookie(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour, true)
	rr := httptest.NewRecorder()
	m.ClearCookie(rr)
	c := rr.Result().Cookies()
	if len(c) != 1 || c[0].MaxAge >= 0 || !c[0].Secure {
		t.Fatalf("unexpected clear cookie %+v", c)
	}
}

func TestUserIDContext(t *testing.T) {
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Fatal("empty context has no user")
	}
	ctx := WithUserID(context.Background(), "u-9")
	if id, ok := UserIDFromContext(ctx); !ok || id != "u-9" {
		t.Fatalf("got %q, %v", id, ok)
	}
}
