package http

import (
	"net/http"
	"strings"

	"hoffman/internal/core"
	applog "hoffman/internal/log"
)

// handleIndex shows the sign-in screen, or the sign-up variant with
// ?mode=signup. Signed-in users go straight to the panel.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireMethod(r, http.MethodGet, http.MethodHead); resp != nil {
		resp.Write(w)
		return
	}
	if _, ok := s.sessions.FromRequest(r); ok {
		redirect(w, r, "/panel")
		return
	}

	p := loginPage{
		page:   page{Title: "Login"},
		SignUp: r.URL.Query().Get("mode") == "signup",
		Role:   string(core.RoleAdmin),
	}
	s.render(w, r, NewHTMXResponse(), "login.html", p)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	p := loginPage{page: page{Title: "Login"}, Email: formValue(r, "email"), Role: string(core.RoleAdmin)}
	acct, err := s.auth.SignIn(r.Context(), p.Email, r.PostForm.Get("password"))
	if err != nil {
		applog.FromContext(r.Context()).Warn("Sign-in failed",
			applog.FieldOperation, applog.OpSignIn, applog.FieldError, err)
		p.fail(userMessage(err))
		s.render(w, r, NewHTMXResponse().Status(statusFor(err)), "login.html", p)
		return
	}

	if err := s.sessions.SetCookie(w, acct.ID); err != nil {
		applog.FromContext(r.Context()).Error("Failed to issue session",
			applog.FieldUserID, acct.ID, applog.FieldError, err)
		p.fail("Não foi possível iniciar a sessão")
		s.render(w, r, NewHTMXResponse().Status(http.StatusInternalServerError), "login.html", p)
		return
	}
	redirect(w, r, "/panel")
}

// handleSignUp creates the account and profile, then sends viewers to the
// join page and admins to the panel.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	form := parseSignUpForm(r)
	profile, err := s.auth.SignUp(r.Context(), form)
	if err != nil {
		msg := userMessage(err)
		if strings.TrimSpace(msg) == "" {
			msg = "Erro ao cadastrar"
		}
		applog.FromContext(r.Context()).Warn("Sign-up failed",
			applog.FieldOperation, applog.OpSignUp, applog.FieldError, err)
		p := loginPage{
			page:        page{Title: "Login"},
			SignUp:      true,
			Email:       form.Email,
			DisplayName: form.DisplayName,
			Role:        form.Role,
		}
		if p.Role == "" {
			p.Role = string(core.RoleAdmin)
		}
		p.fail(msg)
		s.render(w, r, NewHTMXResponse().Status(statusFor(err)), "login.html", p)
		return
	}

	if err := s.sessions.SetCookie(w, profile.ID); err != nil {
		applog.FromContext(r.Context()).Error("Failed to issue session",
			applog.FieldUserID, profile.ID, applog.FieldError, err)
		redirect(w, r, "/")
		return
	}
	if profile.Role == core.RoleViewer {
		redirect(w, r, "/join")
		return
	}
	redirect(w, r, "/panel")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	s.sessions.ClearCookie(w)
	redirect(w, r, "/")
}
