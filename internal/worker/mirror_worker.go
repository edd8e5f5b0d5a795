package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hoffman/internal/amqp"
	"hoffman/internal/core"
	"hoffman/internal/sheets"
)

// LedgerReader loads ledger rows by id.
type LedgerReader interface {
	GetIncome(ctx context.Context, id int64) (core.Income, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	GetDebt(ctx context.Context, id int64) (core.Debt, error)
}

// MirrorWorker copies newly stored ledger rows to a spreadsheet.
type MirrorWorker struct {
	store  LedgerReader
	sheets sheets.LedgerWriter
}

func NewMirrorWorker(store LedgerReader, writer sheets.LedgerWriter) *MirrorWorker {
	return &MirrorWorker{store: store, sheets: writer}
}

// HandleLedgerEvent mirrors the row named by ev. Rows that no longer exist
// are skipped; any other failure is returned so the event is retried.
func (w *MirrorWorker) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Mirroring ledger row", "kind", ev.Kind, "id", ev.ID)

	row, err := w.loadRow(ctx, ev)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Ledger row vanished before mirroring, skipping", "kind", ev.Kind, "id", ev.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s %d: %w", ev.Kind, ev.ID, err)
	}

	ref, err := w.sheets.AppendLedgerRow(ctx, row)
	if err != nil {
		return fmt.Errorf("append %s %d: %w", ev.Kind, ev.ID, err)
	}

	slog.InfoContext(ctx, "Ledger row mirrored", "kind", ev.Kind, "id", ev.ID, "ref", ref)
	return nil
}

func (w *MirrorWorker) loadRow(ctx context.Context, ev *amqp.LedgerEvent) (sheets.LedgerRow, error) {
	row := sheets.LedgerRow{Kind: ev.Kind, ID: ev.ID}
	switch ev.Kind {
	case core.KindIncome:
		inc, err := w.store.GetIncome(ctx, ev.ID)
		if err != nil {
			return row, err
		}
		row.UserOwner = inc.UserOwner
		row.Year = inc.Date.Year()
		row.Date = inc.Date.String()
		row.Description = inc.Source
		row.Amount = inc.Amount
	case core.KindExpense:
		e, err := w.store.GetExpense(ctx, ev.ID)
		if err != nil {
			return row, err
		}
		row.UserOwner = e.UserOwner
		row.Year = e.Date.Year()
		row.Date = e.Date.String()
		row.Description = e.Description
		row.Amount = e.Amount
	case core.KindDebt:
		d, err := w.store.GetDebt(ctx, ev.ID)
		if err != nil {
			return row, err
		}
		row.UserOwner = d.UserOwner
		if !ev.Timestamp.IsZero() {
			row.Year = ev.Timestamp.Year()
		}
		row.Description = d.Creditor
		if d.Type != "" {
			row.Description += " (" + d.Type + ")"
		}
		row.Amount = d.MonthlyInstallment
		row.Status = string(d.Status)
	default:
		return row, fmt.Errorf("unknown ledger kind %q", ev.Kind)
	}
	return row, nil
}
