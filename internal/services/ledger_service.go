package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"hoffman/internal/core"
)

type LedgerStore interface {
	InsertIncome(ctx context.Context, inc core.Income) (int64, error)
	InsertExpense(ctx context.Context, e core.Expense) (int64, error)
	InsertDebt(ctx context.Context, d core.Debt) (int64, error)
}

// LedgerPublisher announces stored ledger rows to the mirror worker.
type LedgerPublisher interface {
	PublishLedgerCreated(ctx context.Context, kind core.LedgerKind, id int64, owner string) error
}

// LedgerService records incomes, expenses and debts. Rows are stored first;
// publishing is best effort and never fails the request.
type LedgerService struct {
	store     LedgerStore
	publisher LedgerPublisher
}

// NewLedgerService accepts a nil publisher when no broker is configured.
func NewLedgerService(store LedgerStore, publisher LedgerPublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

func (s *LedgerService) AddIncome(ctx context.Context, owner string, form IncomeForm) (core.Income, error) {
	if err := checkForm(form, MsgIncomeRequired); err != nil {
		return core.Income{}, err
	}
	date, err := parseDate(form.Date)
	if err != nil {
		return core.Income{}, err
	}
	amount, err := parseAmount(form.Amount)
	if err != nil {
		return core.Income{}, err
	}

	inc := core.Income{
		UserOwner: owner,
		Date:      date,
		Source:    strings.TrimSpace(form.Source),
		Amount:    amount,
	}
	id, err := s.store.InsertIncome(ctx, inc)
	if err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}
	inc.ID = id

	s.publish(ctx, core.KindIncome, id, owner)
	return inc, nil
}

func (s *LedgerService) AddExpense(ctx context.Context, owner string, form ExpenseForm) (core.Expense, error) {
	if err := checkForm(form, MsgExpenseRequired); err != nil {
		return core.Expense{}, err
	}
	date, err := parseDate(form.Date)
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := parseAmount(form.Amount)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		UserOwner:   owner,
		Date:        date,
		Description: strings.TrimSpace(form.Description),
		Amount:      amount,
	}
	id, err := s.store.InsertExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	s.publish(ctx, core.KindExpense, id, owner)
	return e, nil
}

// AddDebt stores a debt. Type and total are optional; status defaults to Ativa.
func (s *LedgerService) AddDebt(ctx context.Context, owner string, form DebtForm) (core.Debt, error) {
	if err := checkForm(form, MsgDebtRequired); err != nil {
		return core.Debt{}, err
	}
	installment, err := parseAmount(form.MonthlyInstallment)
	if err != nil {
		return core.Debt{}, err
	}
	dueDay, err := strconv.Atoi(strings.TrimSpace(form.DueDay))
	if err != nil || dueDay < 1 || dueDay > 31 {
		return core.Debt{}, core.NewValidationError(MsgInvalidDueDay)
	}

	status := core.DebtActive
	if strings.TrimSpace(form.Status) != "" {
		if status, err = core.ParseDebtStatus(form.Status); err != nil {
			return core.Debt{}, core.NewValidationError(MsgInvalidStatus)
		}
	}

	d := core.Debt{
		UserOwner:          owner,
		Creditor:           strings.TrimSpace(form.Creditor),
		Type:               strings.TrimSpace(form.Type),
		MonthlyInstallment: installment,
		DueDay:             dueDay,
		Status:             status,
	}
	if strings.TrimSpace(form.TotalAmount) != "" {
		total, err := parseAmount(form.TotalAmount)
		if err != nil {
			return core.Debt{}, err
		}
		d.TotalAmount = &total
	}

	id, err := s.store.InsertDebt(ctx, d)
	if err != nil {
		return core.Debt{}, fmt.Errorf("save debt: %w", err)
	}
	d.ID = id

	s.publish(ctx, core.KindDebt, id, owner)
	return d, nil
}

func (s *LedgerService) publish(ctx context.Context, kind core.LedgerKind, id int64, owner string) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No ledger publisher configured, skipping event", "kind", kind, "id", id)
		return
	}
	if err := s.publisher.PublishLedgerCreated(ctx, kind, id, owner); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event", "kind", kind, "id", id, "error", err)
	}
}
