package http

import (
	"net/http"

	"hoffman/internal/core"
	applog "hoffman/internal/log"
	"hoffman/internal/services"
)

// handleConfig shows and updates the month settings. POST carries
// action=save or action=copy; copy only fills the form from the previous
// month and writes nothing.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.showConfig(w, r)
	case http.MethodPost:
		if resp := ParseFormOrFail(r); resp != nil {
			resp.Write(w)
			return
		}
		if r.PostForm.Get("action") == "copy" {
			s.copyConfig(w, r)
			return
		}
		s.saveConfig(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func newConfigPage(ym core.YearMonth) configPage {
	return configPage{
		page:       page{Title: "Configurações do Mês"},
		YearMonth:  ym.String(),
		MonthLabel: ym.Label(),
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	ym := core.CurrentYearMonth(s.now())
	p := newConfigPage(ym)
	if ms, ok := s.settings.Load(r.Context(), currentUser(r), ym); ok {
		p.Salary = ms.SalaryMonthly.FormString()
		p.AvgDobra = ms.AvgDobraValue.FormString()
	}
	s.render(w, r, NewHTMXResponse(), "config.html", p)
}

// formMonth is the month the form was shown for, falling back to the
// current month when the hidden field is missing.
func (s *Server) formMonth(r *http.Request) string {
	if v := formValue(r, "year_month"); v != "" {
		return v
	}
	return core.CurrentYearMonth(s.now()).String()
}

func (s *Server) saveConfig(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	form := parseSettingsForm(r)
	form.YearMonth = s.formMonth(r)

	p := newConfigPage(core.CurrentYearMonth(s.now()))
	if ym, err := core.ParseYearMonth(form.YearMonth); err == nil {
		p = newConfigPage(ym)
	}
	p.Salary, p.AvgDobra = form.Salary, form.AvgDobra

	resp := NewHTMXResponse()
	ms, err := s.settings.Save(r.Context(), userID, form)
	if err != nil {
		applog.FromContext(r.Context()).Warn("Saving month settings failed",
			applog.FieldOperation, applog.OpSave, applog.FieldYearMonth, form.YearMonth, applog.FieldError, err)
		p.fail(userMessage(err))
		resp.Status(statusFor(err))
	} else {
		s.invalidatePanel(userID)
		p.Salary = ms.SalaryMonthly.FormString()
		p.AvgDobra = ms.AvgDobraValue.FormString()
		p.succeed("Configurações salvas")
	}
	s.render(w, r, resp, "config.html", p)
}

func (s *Server) copyConfig(w http.ResponseWriter, r *http.Request) {
	form := parseSettingsForm(r)
	ym, err := core.ParseYearMonth(s.formMonth(r))
	if err != nil {
		p := newConfigPage(core.CurrentYearMonth(s.now()))
		p.Salary, p.AvgDobra = form.Salary, form.AvgDobra
		p.fail(services.MsgInvalidMonth)
		s.render(w, r, NewHTMXResponse().Status(http.StatusUnprocessableEntity), "config.html", p)
		return
	}
	p := newConfigPage(ym)
	p.Salary, p.AvgDobra = form.Salary, form.AvgDobra

	resp := NewHTMXResponse()
	prev, err := s.settings.CopyPrevious(r.Context(), currentUser(r), ym)
	if err != nil {
		applog.FromContext(r.Context()).Info("Copying previous month settings failed",
			applog.FieldOperation, applog.OpCopy, applog.FieldYearMonth, ym.String(), applog.FieldError, err)
		p.fail(userMessage(err))
		resp.Status(statusFor(err))
	} else {
		p.Salary = prev.SalaryMonthly.FormString()
		p.AvgDobra = prev.AvgDobraValue.FormString()
		p.succeed("Configuração copiada do mês anterior")
	}
	s.render(w, r, resp, "config.html", p)
}
