package http

import (
	"net/http"

	applog "hoffman/internal/log"
)

// handleShare shows the caller's family code and linked viewers.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet, http.MethodHead); resp != nil {
		resp.Write(w)
		return
	}
	userID := currentUser(r)
	p := sharePage{
		page:    page{Title: "Compartilhar"},
		Code:    s.family.ShareCode(userID),
		Viewers: s.family.LinkedViewers(r.Context(), userID),
	}
	s.render(w, r, NewHTMXResponse(), "share.html", p)
}

// handleJoin links the caller as a viewer of the admin whose code was
// entered.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	p := joinPage{page: page{Title: "Vincular Família"}}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.render(w, r, NewHTMXResponse(), "join.html", p)
		return
	case http.MethodPost:
	default:
		MethodNotAllowedError("GET, POST").Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	form := parseJoinForm(r)
	if err := s.family.Join(r.Context(), currentUser(r), form); err != nil {
		applog.FromContext(r.Context()).Warn("Join failed",
			applog.FieldOperation, applog.OpJoin, applog.FieldError, err)
		p.Code = form.Code
		p.fail(userMessage(err))
		s.render(w, r, NewHTMXResponse().Status(statusFor(err)), "join.html", p)
		return
	}
	redirect(w, r, "/panel")
}
