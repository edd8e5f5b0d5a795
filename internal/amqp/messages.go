package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"hoffman/internal/core"
)

// LedgerEvent announces a stored ledger row. It carries only the row
// identity; consumers load the row itself from the database.
type LedgerEvent struct {
	Kind      core.LedgerKind `json:"kind"`
	ID        int64           `json:"id"`
	UserOwner string          `json:"user_owner"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewLedgerEvent(kind core.LedgerKind, id int64, owner string) *LedgerEvent {
	return &LedgerEvent{
		Kind:      kind,
		ID:        id,
		UserOwner: owner,
		Timestamp: time.Now(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Kind {
	case core.KindIncome, core.KindExpense, core.KindDebt:
	default:
		return nil, fmt.Errorf("unknown ledger kind %q", ev.Kind)
	}
	if ev.ID <= 0 {
		return nil, fmt.Errorf("invalid ledger id %d", ev.ID)
	}
	return &ev, nil
}
