package http

import (
	"html/template"

	"hoffman/internal/core"
	"hoffman/internal/services"
)

var templateFuncs = template.FuncMap{
	"brl": formatBRL,
}

// page carries what every template needs. Error and Message are never both
// set.
type page struct {
	Title   string
	Error   string
	Message string
}

func (p *page) fail(msg string) {
	p.Error, p.Message = msg, ""
}

func (p *page) succeed(msg string) {
	p.Error, p.Message = "", msg
}

type loginPage struct {
	page
	SignUp      bool
	Email       string
	DisplayName string
	Role        string
}

type panelPage struct {
	page
	MonthLabel string
	Balance    core.Balance
}

type configPage struct {
	page
	YearMonth  string
	MonthLabel string
	Salary     string
	AvgDobra   string
}

type tabLink struct {
	Key    string
	Label  string
	Active bool
}

type launchPage struct {
	page
	Tab      string
	Tabs     []tabLink
	Income   services.IncomeForm
	Expense  services.ExpenseForm
	Debt     services.DebtForm
	Statuses []core.DebtStatus
}

type sharePage struct {
	page
	Code    string
	Viewers []core.LinkedViewer
}

type joinPage struct {
	page
	Code string
}

func newLaunchPage(tab string) launchPage {
	p := launchPage{
		page:     page{Title: "Lançamentos"},
		Tab:      tab,
		Debt:     services.DebtForm{Status: string(core.DebtActive)},
		Statuses: core.DebtStatuses,
	}
	for _, t := range []tabLink{
		{Key: TabIncomes, Label: "Entradas"},
		{Key: TabExpenses, Label: "Saídas"},
		{Key: TabDebts, Label: "Dívidas"},
	} {
		t.Active = t.Key == tab
		p.Tabs = append(p.Tabs, t)
	}
	return p
}
