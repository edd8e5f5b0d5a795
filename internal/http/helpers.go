package http

import (
	"errors"
	"net/http"
	"strings"

	"hoffman/internal/auth"
	"hoffman/internal/core"
)

// formatBRL renders cents as Brazilian reais, e.g. "R$ 1.234,56".
func formatBRL(m core.Money) string {
	fixed := m.Decimal().Abs().StringFixed(2)
	units, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if m.Cents < 0 {
		b.WriteByte('-')
	}
	b.WriteString("R$ ")
	for i, d := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// sanitizeInput removes control characters except tab and newlines, and
// trims whitespace.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// userMessage is the text shown for err: validation and credential errors
// carry their own wording, backend errors show the backend's own message
// without the call-site prefixes added on the way up.
func userMessage(err error) string {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return rootCause(err).Error()
}

// rootCause follows single-error wrapping down to the innermost error.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case core.IsValidationError(err), auth.IsUserError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends a 303, or HX-Redirect for htmx requests.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		NewHTMXResponse().Redirect(url).Write(w)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
