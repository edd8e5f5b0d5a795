package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hoffman/internal/core"
)

var ErrNoPreviousSettings = core.NewValidationError(MsgNoPrevious)

type SettingsStore interface {
	GetMonthSettings(ctx context.Context, owner string, ym core.YearMonth) (core.MonthSettings, error)
	UpsertMonthSettings(ctx context.Context, ms core.MonthSettings) error
}

type SettingsService struct {
	store SettingsStore
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Load returns the owner's settings for ym. Missing rows and read errors
// both yield ok=false; errors are logged.
func (s *SettingsService) Load(ctx context.Context, owner string, ym core.YearMonth) (core.MonthSettings, bool) {
	ms, err := s.store.GetMonthSettings(ctx, owner, ym)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.ErrorContext(ctx, "Failed to load month settings",
				"user_id", owner, "year_month", ym.String(), "error", err)
		}
		return core.MonthSettings{}, false
	}
	return ms, true
}

func (s *SettingsService) Save(ctx context.Context, owner string, form SettingsForm) (core.MonthSettings, error) {
	if err := checkForm(form, MsgSettingsRequired, "YearMonth"); err != nil {
		return core.MonthSettings{}, err
	}
	if err := validate.Var(form.YearMonth, "yearmonth"); err != nil {
		return core.MonthSettings{}, core.NewValidationError(MsgInvalidMonth)
	}
	ym, err := core.ParseYearMonth(form.YearMonth)
	if err != nil {
		return core.MonthSettings{}, core.NewValidationError(MsgInvalidMonth)
	}
	salary, err := parseAmount(form.Salary)
	if err != nil {
		return core.MonthSettings{}, err
	}
	avg, err := parseAmount(form.AvgDobra)
	if err != nil {
		return core.MonthSettings{}, err
	}

	ms := core.MonthSettings{
		UserOwner:     owner,
		YearMonth:     ym,
		SalaryMonthly: salary,
		AvgDobraValue: avg,
	}
	if err := s.store.UpsertMonthSettings(ctx, ms); err != nil {
		return core.MonthSettings{}, fmt.Errorf("save month settings: %w", err)
	}

	slog.InfoContext(ctx, "Month settings saved", "user_id", owner, "year_month", ym.String())
	return ms, nil
}

// CopyPrevious reads the settings of the month before ym. Nothing is
// written; the caller shows the values for the user to save.
func (s *SettingsService) CopyPrevious(ctx context.Context, owner string, ym core.YearMonth) (core.MonthSettings, error) {
	prev, err := s.store.GetMonthSettings(ctx, owner, ym.Previous())
	if errors.Is(err, core.ErrNotFound) {
		return core.MonthSettings{}, ErrNoPreviousSettings
	}
	if err != nil {
		return core.MonthSettings{}, fmt.Errorf("load previous month settings: %w", err)
	}
	prev.YearMonth = ym
	return prev, nil
}
