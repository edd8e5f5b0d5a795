package memory

import (
	"context"
	"fmt"
	"sync"

	"hoffman/internal/sheets"
)

var _ sheets.LedgerWriter = (*Store)(nil)

// Store keeps mirrored rows in memory, for development without Google
// credentials and for tests.
type Store struct {
	mu   sync.Mutex
	rows []sheets.LedgerRow
}

func New() *Store {
	return &Store{}
}

// AppendLedgerRow stores the row and returns a synthetic row reference.
func (s *Store) AppendLedgerRow(_ context.Context, row sheets.LedgerRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of the rows appended so far.
func (s *Store) Rows() []sheets.LedgerRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.LedgerRow(nil), s.rows...)
}
