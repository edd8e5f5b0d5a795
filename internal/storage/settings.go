package storage

import (
	"context"
	"fmt"

	"hoffman/internal/core"
)

// GetMonthSettings returns core.ErrNotFound when the month was never saved.
func (s *Store) GetMonthSettings(ctx context.Context, owner string, ym core.YearMonth) (core.MonthSettings, error) {
	ms := core.MonthSettings{UserOwner: owner, YearMonth: ym}
	err := s.queryRow(ctx, `
		SELECT salary_monthly_cents, avg_dobra_value_cents
		FROM settings_month
		WHERE user_owner = ? AND year_month = ?`, owner, ym.String()).
		Scan(&ms.SalaryMonthly.Cents, &ms.AvgDobraValue.Cents)
	if err != nil {
		return core.MonthSettings{}, notFound(err)
	}
	return ms, nil
}

// UpsertMonthSettings inserts or replaces the (owner, month) row.
func (s *Store) UpsertMonthSettings(ctx context.Context, ms core.MonthSettings) error {
	if err := ms.Validate(); err != nil {
		return err
	}
	_, err := s.exec(ctx, `
		INSERT INTO settings_month (user_owner, year_month, salary_monthly_cents, avg_dobra_value_cents)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_owner, year_month) DO UPDATE SET
			salary_monthly_cents = excluded.salary_monthly_cents,
			avg_dobra_value_cents = excluded.avg_dobra_value_cents,
			updated_at = CURRENT_TIMESTAMP`,
		ms.UserOwner, ms.YearMonth.String(), ms.SalaryMonthly.Cents, ms.AvgDobraValue.Cents)
	if err != nil {
		return fmt.Errorf("upsert month settings: %w", err)
	}
	return nil
}
