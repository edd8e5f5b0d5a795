// Package http provides HTTP server and handler implementations.
//
// This file turns submitted forms into the service layer's form structs.

package http

import (
	"net/http"
	"strings"

	"hoffman/internal/services"
)

// Launch page tabs, as they appear in ?tab=.
const (
	TabIncomes  = "entradas"
	TabExpenses = "saidas"
	TabDebts    = "dividas"
)

// RequireMethod returns a 405 response unless r uses one of methods.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Formato de requisição inválido")
	}
	return nil
}

// formValue returns the sanitized POST field.
func formValue(r *http.Request, key string) string {
	return sanitizeInput(r.PostForm.Get(key))
}

// ParseLaunchTab maps ?tab= to a known tab, defaulting to incomes.
func ParseLaunchTab(r *http.Request) string {
	switch tab := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tab"))); tab {
	case TabExpenses, TabDebts:
		return tab
	default:
		return TabIncomes
	}
}

func parseSignUpForm(r *http.Request) services.SignUpForm {
	return services.SignUpForm{
		Email:       formValue(r, "email"),
		Password:    r.PostForm.Get("password"),
		DisplayName: formValue(r, "display_name"),
		Role:        formValue(r, "role"),
	}
}

func parseSettingsForm(r *http.Request) services.SettingsForm {
	return services.SettingsForm{
		YearMonth: formValue(r, "year_month"),
		Salary:    formValue(r, "salary_monthly"),
		AvgDobra:  formValue(r, "avg_dobra_value"),
	}
}

func parseIncomeForm(r *http.Request) services.IncomeForm {
	return services.IncomeForm{
		Date:   formValue(r, "date"),
		Source: formValue(r, "source"),
		Amount: formValue(r, "amount"),
	}
}

func parseExpenseForm(r *http.Request) services.ExpenseForm {
	return services.ExpenseForm{
		Date:        formValue(r, "date"),
		Description: formValue(r, "description"),
		Amount:      formValue(r, "amount"),
	}
}

func parseDebtForm(r *http.Request) services.DebtForm {
	return services.DebtForm{
		Creditor:           formValue(r, "creditor"),
		Type:               formValue(r, "type"),
		TotalAmount:        formValue(r, "total_amount"),
		MonthlyInstallment: formValue(r, "monthly_installment"),
		DueDay:             formValue(r, "due_day"),
		Status:             formValue(r, "status"),
	}
}

func parseJoinForm(r *http.Request) services.JoinForm {
	return services.JoinForm{Code: formValue(r, "code")}
}
