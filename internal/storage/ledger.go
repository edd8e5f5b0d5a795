package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"hoffman/internal/core"
)

func (s *Store) InsertIncome(ctx context.Context, inc core.Income) (int64, error) {
	if err := inc.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := s.queryRow(ctx, `
		INSERT INTO incomes (user_owner, date, source, amount_cents)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		inc.UserOwner, inc.Date.String(), inc.Source, inc.Amount.Cents).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	slog.InfoContext(ctx, "Income stored", "id", id, "user", inc.UserOwner, "amount_cents", inc.Amount.Cents)
	return id, nil
}

// ListIncomes returns the owner's incomes with from <= date <= to, compared as text.
func (s *Store) ListIncomes(ctx context.Context, owner, from, to string) ([]core.Income, error) {
	rows, err := s.query(ctx, `
		SELECT id, user_owner, date, source, amount_cents
		FROM incomes
		WHERE user_owner = ? AND date >= ? AND date <= ?
		ORDER BY date, id`, owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		inc, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (s *Store) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	row := s.queryRow(ctx, `
		SELECT id, user_owner, date, source, amount_cents
		FROM incomes WHERE id = ?`, id)
	inc, err := scanIncome(row)
	if err != nil {
		return core.Income{}, notFound(err)
	}
	return inc, nil
}

func (s *Store) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := s.queryRow(ctx, `
		INSERT INTO expenses (user_owner, date, description, amount_cents)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		e.UserOwner, e.Date.String(), e.Description, e.Amount.Cents).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense stored", "id", id, "user", e.UserOwner, "amount_cents", e.Amount.Cents)
	return id, nil
}

func (s *Store) ListExpenses(ctx context.Context, owner, from, to string) ([]core.Expense, error) {
	rows, err := s.query(ctx, `
		SELECT id, user_owner, date, description, amount_cents
		FROM expenses
		WHERE user_owner = ? AND date >= ? AND date <= ?
		ORDER BY date, id`, owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := s.queryRow(ctx, `
		SELECT id, user_owner, date, description, amount_cents
		FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, notFound(err)
	}
	return e, nil
}

func (s *Store) InsertDebt(ctx context.Context, d core.Debt) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	var total sql.NullInt64
	if d.TotalAmount != nil {
		total = sql.NullInt64{Int64: d.TotalAmount.Cents, Valid: true}
	}
	var id int64
	err := s.queryRow(ctx, `
		INSERT INTO debts (user_owner, creditor, type, total_amount_cents, monthly_installment_cents, due_day, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		d.UserOwner, d.Creditor, nullString(d.Type), total,
		d.MonthlyInstallment.Cents, d.DueDay, string(d.Status)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert debt: %w", err)
	}
	slog.InfoContext(ctx, "Debt stored", "id", id, "user", d.UserOwner, "installment_cents", d.MonthlyInstallment.Cents)
	return id, nil
}

// ListOpenDebts returns the owner's debts that are not settled.
func (s *Store) ListOpenDebts(ctx context.Context, owner string) ([]core.Debt, error) {
	rows, err := s.query(ctx, `
		SELECT id, user_owner, creditor, type, total_amount_cents, monthly_installment_cents, due_day, status
		FROM debts
		WHERE user_owner = ? AND status <> ?
		ORDER BY due_day, id`, owner, string(core.DebtSettled))
	if err != nil {
		return nil, fmt.Errorf("list open debts: %w", err)
	}
	defer rows.Close()

	var out []core.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	row := s.queryRow(ctx, `
		SELECT id, user_owner, creditor, type, total_amount_cents, monthly_installment_cents, due_day, status
		FROM debts WHERE id = ?`, id)
	d, err := scanDebt(row)
	if err != nil {
		return core.Debt{}, notFound(err)
	}
	return d, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIncome(sc scanner) (core.Income, error) {
	var (
		inc  core.Income
		date string
	)
	if err := sc.Scan(&inc.ID, &inc.UserOwner, &date, &inc.Source, &inc.Amount.Cents); err != nil {
		return core.Income{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Income{}, fmt.Errorf("income %d has bad date %q: %w", inc.ID, date, err)
	}
	inc.Date = d
	return inc, nil
}

func scanExpense(sc scanner) (core.Expense, error) {
	var (
		e    core.Expense
		date string
	)
	if err := sc.Scan(&e.ID, &e.UserOwner, &date, &e.Description, &e.Amount.Cents); err != nil {
		return core.Expense{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d has bad date %q: %w", e.ID, date, err)
	}
	e.Date = d
	return e, nil
}

func scanDebt(sc scanner) (core.Debt, error) {
	var (
		d      core.Debt
		typ    sql.NullString
		total  sql.NullInt64
		status string
	)
	if err := sc.Scan(&d.ID, &d.UserOwner, &d.Creditor, &typ, &total,
		&d.MonthlyInstallment.Cents, &d.DueDay, &status); err != nil {
		return core.Debt{}, err
	}
	d.Type = typ.String
	if total.Valid {
		d.TotalAmount = &core.Money{Cents: total.Int64}
	}
	d.Status = core.DebtStatus(status)
	return d, nil
}
