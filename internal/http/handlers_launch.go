package http

import (
	"net/http"

	"hoffman/internal/core"
	applog "hoffman/internal/log"
)

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet, http.MethodHead); resp != nil {
		resp.Write(w)
		return
	}
	s.render(w, r, NewHTMXResponse(), "launch.html", newLaunchPage(ParseLaunchTab(r)))
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	if s.launchPreamble(w, r) {
		return
	}
	p := newLaunchPage(TabIncomes)
	form := parseIncomeForm(r)
	inc, err := s.ledger.AddIncome(r.Context(), currentUser(r), form)
	if err != nil {
		p.Income = form
		s.launchFailed(w, r, p, core.KindIncome, err)
		return
	}
	s.launchDone(w, r, p, core.KindIncome, inc.ID, "Entrada lançada com sucesso!")
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if s.launchPreamble(w, r) {
		return
	}
	p := newLaunchPage(TabExpenses)
	form := parseExpenseForm(r)
	e, err := s.ledger.AddExpense(r.Context(), currentUser(r), form)
	if err != nil {
		p.Expense = form
		s.launchFailed(w, r, p, core.KindExpense, err)
		return
	}
	s.launchDone(w, r, p, core.KindExpense, e.ID, "Saída lançada com sucesso!")
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	if s.launchPreamble(w, r) {
		return
	}
	p := newLaunchPage(TabDebts)
	form := parseDebtForm(r)
	d, err := s.ledger.AddDebt(r.Context(), currentUser(r), form)
	if err != nil {
		if form.Status == "" {
			form.Status = string(core.DebtActive)
		}
		p.Debt = form
		s.launchFailed(w, r, p, core.KindDebt, err)
		return
	}
	s.launchDone(w, r, p, core.KindDebt, d.ID, "Dívida cadastrada com sucesso!")
}

// launchPreamble checks method and form; it reports true when a response
// was already written.
func (s *Server) launchPreamble(w http.ResponseWriter, r *http.Request) bool {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return true
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return true
	}
	return false
}

// launchFailed re-renders the tab keeping what the user typed.
func (s *Server) launchFailed(w http.ResponseWriter, r *http.Request, p launchPage, kind core.LedgerKind, err error) {
	applog.FromContext(r.Context()).Warn("Ledger entry rejected",
		applog.FieldOperation, applog.OpCreate, "kind", kind, applog.FieldError, err)
	p.fail(userMessage(err))
	s.render(w, r, NewHTMXResponse().Status(statusFor(err)), "launch.html", p)
}

// launchDone renders the tab with a cleared form and the success message.
func (s *Server) launchDone(w http.ResponseWriter, r *http.Request, p launchPage, kind core.LedgerKind, id int64, msg string) {
	userID := currentUser(r)
	s.invalidatePanel(userID)
	s.ledgerCounter.WithLabelValues(string(kind)).Inc()
	p.succeed(msg)
	s.render(w, r, NewHTMXResponse().TriggerLedgerCreated(string(kind), id), "launch.html", p)
}

