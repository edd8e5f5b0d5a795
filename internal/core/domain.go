package core

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

const (
	DebtActive     DebtStatus = "Ativa"
	DebtNegotiated DebtStatus = "Negociada"
	DebtSettled    DebtStatus = "Quitada"
)

const (
	KindIncome  LedgerKind = "income"
	KindExpense LedgerKind = "expense"
	KindDebt    LedgerKind = "debt"
)

type (
	Role       string
	DebtStatus string
	LedgerKind string

	Date struct {
		time.Time
	}

	// Account is a credential record owned by the identity provider.
	Account struct {
		ID           string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	Profile struct {
		ID          string
		Role        Role
		DisplayName string // empty when the user left it blank
	}

	FamilyLink struct {
		AdminID  string
		ViewerID string
	}

	LinkedViewer struct {
		ID          string
		DisplayName string
	}

	MonthSettings struct {
		UserOwner     string
		YearMonth     YearMonth
		SalaryMonthly Money
		AvgDobraValue Money
	}

	Income struct {
		ID        int64
		UserOwner string
		Date      Date
		Source    string
		Amount    Money
	}

	Expense struct {
		ID          int64
		UserOwner   string
		Date        Date
		Description string
		Amount      Money
	}

	Debt struct {
		ID                 int64
		UserOwner          string
		Creditor           string
		Type               string // optional
		TotalAmount        *Money // optional
		MonthlyInstallment Money
		DueDay             int
		Status             DebtStatus
	}
)

// DebtStatuses lists the statuses in the order the launch form offers them.
var DebtStatuses = []DebtStatus{DebtActive, DebtNegotiated, DebtSettled}

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidYearMonth  = errors.New("invalid year-month")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidDebtStatus = errors.New("invalid debt status")
	ErrInvalidDueDay     = errors.New("due day must be between 1 and 31")
	ErrMissingOwner      = errors.New("missing owner")
	ErrEmptySource       = errors.New("empty source")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyCreditor     = errors.New("empty creditor")
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleViewer:
		return r, nil
	}
	return "", ErrInvalidRole
}

// Label is the Portuguese name shown on the sign-up form.
func (r Role) Label() string {
	if r == RoleViewer {
		return "Visualizador"
	}
	return "Administrador"
}

// ParseDebtStatus accepts the canonical status names, ignoring case.
func ParseDebtStatus(s string) (DebtStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range DebtStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidDebtStatus
}

// Open reports whether a debt in this status still weighs on the monthly balance.
func (s DebtStatus) Open() bool {
	return s != DebtSettled
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// YearMonth returns the month key the date falls in.
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year(), Month: d.Month()}
}

// Label returns the display name, falling back to the raw id.
func (p Profile) Label() string {
	if strings.TrimSpace(p.DisplayName) != "" {
		return p.DisplayName
	}
	return p.ID
}

func (v LinkedViewer) Label() string {
	if strings.TrimSpace(v.DisplayName) != "" {
		return v.DisplayName
	}
	return v.ID
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrMissingOwner
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return err
	}
	return nil
}

func (ms MonthSettings) Validate() error {
	if strings.TrimSpace(ms.UserOwner) == "" {
		return ErrMissingOwner
	}
	if ms.YearMonth.IsZero() {
		return ErrInvalidYearMonth
	}
	return nil
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.UserOwner) == "" {
		return ErrMissingOwner
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.Source) == "" {
		return ErrEmptySource
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.UserOwner) == "" {
		return ErrMissingOwner
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.UserOwner) == "" {
		return ErrMissingOwner
	}
	if strings.TrimSpace(d.Creditor) == "" {
		return ErrEmptyCreditor
	}
	if d.DueDay < 1 || d.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if _, err := ParseDebtStatus(string(d.Status)); err != nil {
		return err
	}
	return nil
}

// IsDobraSource reports whether an income source names an extra shift.
func IsDobraSource(source string) bool {
	return strings.Contains(strings.ToLower(source), "dobra")
}
