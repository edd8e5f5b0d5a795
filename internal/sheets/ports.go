package sheets

import (
	"context"

	"hoffman/internal/core"
)

// LedgerRow is one ledger entry as mirrored to a spreadsheet.
type LedgerRow struct {
	Kind        core.LedgerKind
	ID          int64
	UserOwner   string
	Year        int
	Date        string // YYYY-MM-DD; empty for debts
	Description string
	Amount      core.Money
	Status      string // debts only
}

// KindLabel is the Portuguese column value for the row kind.
func (r LedgerRow) KindLabel() string {
	switch r.Kind {
	case core.KindIncome:
		return "Entrada"
	case core.KindExpense:
		return "Saída"
	case core.KindDebt:
		return "Dívida"
	}
	return string(r.Kind)
}

// LedgerWriter appends ledger rows to an external sheet.
type LedgerWriter interface {
	AppendLedgerRow(ctx context.Context, row LedgerRow) (rowRef string, err error)
}
