package services

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"hoffman/internal/core"
)

type PanelStore interface {
	GetMonthSettings(ctx context.Context, owner string, ym core.YearMonth) (core.MonthSettings, error)
	ListIncomes(ctx context.Context, owner, from, to string) ([]core.Income, error)
	ListExpenses(ctx context.Context, owner, from, to string) ([]core.Expense, error)
	ListOpenDebts(ctx context.Context, owner string) ([]core.Debt, error)
}

type PanelService struct {
	store PanelStore
}

func NewPanelService(store PanelStore) *PanelService {
	return &PanelService{store: store}
}

// Compute loads the month's data concurrently and derives the balance.
// A failed read is logged and treated as empty so the panel still renders;
// complete is false when that happened and the result must not be reused.
func (s *PanelService) Compute(ctx context.Context, owner string, ym core.YearMonth) (b core.Balance, complete bool) {
	var (
		in       core.BalanceInput
		g        errgroup.Group
		failed   atomic.Bool
		from, to = ym.DateRange()
	)
	readFailed := func(what string, err error) {
		failed.Store(true)
		logReadError(ctx, what, owner, ym, err)
	}

	g.Go(func() error {
		ms, err := s.store.GetMonthSettings(ctx, owner, ym)
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			readFailed("settings", err)
		default:
			in.Settings = &ms
		}
		return nil
	})
	g.Go(func() error {
		incomes, err := s.store.ListIncomes(ctx, owner, from, to)
		if err != nil {
			readFailed("incomes", err)
			return nil
		}
		in.Incomes = incomes
		return nil
	})
	g.Go(func() error {
		expenses, err := s.store.ListExpenses(ctx, owner, from, to)
		if err != nil {
			readFailed("expenses", err)
			return nil
		}
		in.Expenses = expenses
		return nil
	})
	g.Go(func() error {
		debts, err := s.store.ListOpenDebts(ctx, owner)
		if err != nil {
			readFailed("debts", err)
			return nil
		}
		in.Debts = debts
		return nil
	})
	_ = g.Wait()

	return core.ComputeBalance(ym, in), !failed.Load()
}

func logReadError(ctx context.Context, what, owner string, ym core.YearMonth, err error) {
	slog.ErrorContext(ctx, "Panel read failed, using empty "+what,
		"user_id", owner, "year_month", ym.String(), "error", err)
}
