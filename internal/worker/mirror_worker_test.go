package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"hoffman/internal/amqp"
	"hoffman/internal/core"
	"hoffman/internal/sheets"
	"hoffman/internal/sheets/memory"
)

type fakeLedger struct {
	incomes  map[int64]core.Income
	expenses map[int64]core.Expense
	debts    map[int64]core.Debt
	err      error
}

func (f *fakeLedger) GetIncome(_ context.Context, id int64) (core.Income, error) {
	if f.err != nil {
		return core.Income{}, f.err
	}
	inc, ok := f.incomes[id]
	if !ok {
		return core.Income{}, core.ErrNotFound
	}
	return inc, nil
}

func (f *fakeLedger) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

func (f *fakeLedger) GetDebt(_ context.Context, id int64) (core.Debt, error) {
	d, ok := f.debts[id]
	if !ok {
		return core.Debt{}, core.ErrNotFound
	}
	return d, nil
}

type failingWriter struct{}

func (failingWriter) AppendLedgerRow(context.Context, sheets.LedgerRow) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestHandleLedgerEvent(t *testing.T) {
	ledger := &fakeLedger{
		incomes: map[int64]core.Income{
			1: {ID: 1, UserOwner: "u1", Date: core.NewDate(2024, 1, 10), Source: "Dobra sábado", Amount: core.Money{Cents: 10000}},
		},
		expenses: map[int64]core.Expense{
			2: {ID: 2, UserOwner: "u1", Date: core.NewDate(2023, 12, 30), Description: "Mercado", Amount: core.Money{Cents: 5000}},
		},
		debts: map[int64]core.Debt{
			3: {ID: 3, UserOwner: "u1", Creditor: "Banco", Type: "Empréstimo", MonthlyInstallment: core.Money{Cents: 30000}, DueDay: 10, Status: core.DebtActive},
		},
	}
	mem := memory.New()
	w := NewMirrorWorker(ledger, mem)
	ctx := context.Background()

	events := []*amqp.LedgerEvent{
		{Kind: core.KindIncome, ID: 1},
		{Kind: core.KindExpense, ID: 2},
		{Kind: core.KindDebt, ID: 3, Timestamp: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, ev := range events {
		if err := w.HandleLedgerEvent(ctx, ev); err != nil {
			t.Fatalf("handle %s: %v", ev.Kind, err)
		}
	}

	rows := mem.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Year != 2024 || rows[0].Description != "Dobra sábado" || rows[0].Date != "2024-01-10" {
		t.Fatalf("unexpected income row %+v", rows[0])
	}
	if rows[1].Year != 2023 {
		t.Fatalf("expense should go to its own year, got %d", rows[1].Year)
	}
	if rows[2].Description != "Banco (Empréstimo)" || rows[2].Status != "Ativa" || rows[2].Date != "" || rows[2].Year != 2024 {
		t.Fatalf("unexpected debt row %+v", rows[2])
	}
}

func TestHandleLedgerEventSkipsMissingRows(t *testing.T) {
	mem := memory.New()
	w := NewMirrorWorker(&fakeLedger{}, mem)
	if err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{Kind: core.KindIncome, ID: 42}); err != nil {
		t.Fatalf("missing rows should be acknowledged, got %v", err)
	}
	if len(mem.Rows()) != 0 {
		t.Fatal("nothing should be mirrored")
	}
}

func TestHandleLedgerEventReturnsErrorsForRetry(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("db locked")}
	w := NewMirrorWorker(ledger, memory.New())
	if err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{Kind: core.KindIncome, ID: 1}); err == nil {
		t.Fatal("expected load error")
	}

	ledger = &fakeLedger{incomes: map[int64]core.Income{1: {ID: 1, Date: core.NewDate(2024, 1, 1)}}}
	w = NewMirrorWorker(ledger, failingWriter{})
	if err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{Kind: core.KindIncome, ID: 1}); err == nil {
		t.Fatal("expected append error")
	}
}

func TestHandleLedgerEventUnknownKind(t *testing.T) {
	w := NewMirrorWorker(&fakeLedger{}, memory.New())
	if err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{Kind: "transfer", ID: 1}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
