package http

import (
	"net/http"

	"hoffman/internal/core"
)

// handlePanel renders the read-only balance of the current month.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet, http.MethodHead); resp != nil {
		resp.Write(w)
		return
	}

	ym := core.CurrentYearMonth(s.now())
	p := panelPage{
		page:       page{Title: "Painel"},
		MonthLabel: ym.Label(),
		Balance:    s.balance(r.Context(), currentUser(r), ym),
	}
	s.render(w, r, NewHTMXResponse(), "panel.html", p)
}
