package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hoffman/internal/core"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Dialect: DialectSQLite,
		DSN:     filepath.Join(t.TempDir(), "hoffman.db"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, newSQLiteStore(t))
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: DialectPostgres}
	got := pg.rebind("SELECT a FROM t WHERE b = ? AND c = ?")
	if got != "SELECT a FROM t WHERE b = $1 AND c = $2" {
		t.Fatalf("unexpected rebind: %s", got)
	}
	lite := &Store{dialect: DialectSQLite}
	if q := "SELECT ?"; lite.rebind(q) != q {
		t.Fatal("sqlite queries must be left untouched")
	}
}

func TestOpenUnknownDialect(t *testing.T) {
	if _, err := Open(context.Background(), Config{Dialect: "mysql"}); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hoffman.db")
	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), Config{Dialect: DialectSQLite, DSN: path})
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		s.Close()
	}
}

// exerciseStore runs the same checks against any dialect.
func exerciseStore(t *testing.T, s *Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin := core.Account{ID: "admin-1", Email: "Admin@Example.com", PasswordHash: "h1"}
	viewer := core.Account{ID: "viewer-1", Email: "viewer@example.com", PasswordHash: "h2"}
	for _, a := range []core.Account{admin, viewer} {
		if err := s.CreateAccount(ctx, a); err != nil {
			t.Fatalf("create account %s: %v", a.ID, err)
		}
	}
	if err := s.CreateAccount(ctx, core.Account{ID: "dup", Email: "admin@example.com", PasswordHash: "x"}); err == nil {
		t.Fatal("expected unique email violation")
	}

	got, err := s.GetAccountByEmail(ctx, "ADMIN@example.com")
	if err != nil || got.ID != admin.ID {
		t.Fatalf("get account by email: %+v, %v", got, err)
	}
	if _, err := s.GetAccountByEmail(ctx, "nobody@example.com"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	t.Run("profiles", func(t *testing.T) {
		if err := s.InsertProfile(ctx, core.Profile{ID: admin.ID, Role: core.RoleAdmin, DisplayName: "Ana"}); err != nil {
			t.Fatalf("insert admin profile: %v", err)
		}
		if err := s.InsertProfile(ctx, core.Profile{ID: viewer.ID, Role: core.RoleViewer}); err != nil {
			t.Fatalf("insert viewer profile: %v", err)
		}
		p, err := s.GetProfile(ctx, viewer.ID)
		if err != nil {
			t.Fatal(err)
		}
		if p.Role != core.RoleViewer || p.DisplayName != "" {
			t.Fatalf("unexpected profile %+v", p)
		}
		if err := s.InsertProfile(ctx, core.Profile{ID: "ghost", Role: core.RoleAdmin}); err == nil {
			t.Fatal("profile without account must be rejected")
		}
	})

	t.Run("family links", func(t *testing.T) {
		if err := s.InsertFamilyLink(ctx, core.FamilyLink{AdminID: "missing", ViewerID: viewer.ID}); err == nil {
			t.Fatal("unknown admin code must be rejected")
		}
		if err := s.InsertFamilyLink(ctx, core.FamilyLink{AdminID: admin.ID, ViewerID: viewer.ID}); err != nil {
			t.Fatalf("insert link: %v", err)
		}
		if err := s.InsertFamilyLink(ctx, core.FamilyLink{AdminID: admin.ID, ViewerID: viewer.ID}); err == nil {
			t.Fatal("a viewer can join only one family")
		}
		viewers, err := s.ListLinkedViewers(ctx, admin.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(viewers) != 1 || viewers[0].Label() != viewer.ID {
			t.Fatalf("unexpected viewers %+v", viewers)
		}
	})

	t.Run("month settings", func(t *testing.T) {
		ym := core.YearMonth{Year: 2024, Month: time.January}
		if _, err := s.GetMonthSettings(ctx, admin.ID, ym); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		ms := core.MonthSettings{UserOwner: admin.ID, YearMonth: ym, SalaryMonthly: core.Money{Cents: 300000}, AvgDobraValue: core.Money{Cents: 15000}}
		if err := s.UpsertMonthSettings(ctx, ms); err != nil {
			t.Fatal(err)
		}
		ms.SalaryMonthly = core.Money{Cents: 310000}
		if err := s.UpsertMonthSettings(ctx, ms); err != nil {
			t.Fatalf("second upsert: %v", err)
		}
		got, err := s.GetMonthSettings(ctx, admin.ID, ym)
		if err != nil {
			t.Fatal(err)
		}
		if got.SalaryMonthly.Cents != 310000 || got.AvgDobraValue.Cents != 15000 {
			t.Fatalf("unexpected settings %+v", got)
		}
		if _, err := s.GetMonthSettings(ctx, viewer.ID, ym); !errors.Is(err, core.ErrNotFound) {
			t.Fatal("settings must be scoped to their owner")
		}
	})

	t.Run("ledger", func(t *testing.T) {
		for _, inc := range []core.Income{
			{UserOwner: admin.ID, Date: core.NewDate(2024, 1, 31), Source: "Dobra sábado", Amount: core.Money{Cents: 15000}},
			{UserOwner: admin.ID, Date: core.NewDate(2024, 2, 1), Source: "Fora do mês", Amount: core.Money{Cents: 1}},
			{UserOwner: viewer.ID, Date: core.NewDate(2024, 1, 10), Source: "Outro dono", Amount: core.Money{Cents: 1}},
		} {
			if _, err := s.InsertIncome(ctx, inc); err != nil {
				t.Fatalf("insert income: %v", err)
			}
		}
		from, to := core.YearMonth{Year: 2024, Month: time.January}.DateRange()
		incomes, err := s.ListIncomes(ctx, admin.ID, from, to)
		if err != nil {
			t.Fatal(err)
		}
		if len(incomes) != 1 || incomes[0].Source != "Dobra sábado" || incomes[0].Date.String() != "2024-01-31" {
			t.Fatalf("unexpected incomes %+v", incomes)
		}

		id, err := s.InsertExpense(ctx, core.Expense{UserOwner: admin.ID, Date: core.NewDate(2024, 1, 5), Description: "Mercado", Amount: core.Money{Cents: -250}})
		if err != nil {
			t.Fatal(err)
		}
		e, err := s.GetExpense(ctx, id)
		if err != nil || e.Amount.Cents != -250 {
			t.Fatalf("get expense: %+v, %v", e, err)
		}
		expenses, err := s.ListExpenses(ctx, admin.ID, from, to)
		if err != nil || len(expenses) != 1 {
			t.Fatalf("list expenses: %+v, %v", expenses, err)
		}

		total := core.Money{Cents: 1000000}
		open, err := s.InsertDebt(ctx, core.Debt{UserOwner: admin.ID, Creditor: "Banco", Type: "Empréstimo", TotalAmount: &total, MonthlyInstallment: core.Money{Cents: 50000}, DueDay: 10, Status: core.DebtActive})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.InsertDebt(ctx, core.Debt{UserOwner: admin.ID, Creditor: "Loja", MonthlyInstallment: core.Money{Cents: 100}, DueDay: 5, Status: core.DebtSettled}); err != nil {
			t.Fatal(err)
		}
		debts, err := s.ListOpenDebts(ctx, admin.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(debts) != 1 || debts[0].ID != open {
			t.Fatalf("expected only the open debt, got %+v", debts)
		}
		if debts[0].TotalAmount == nil || debts[0].TotalAmount.Cents != total.Cents || debts[0].Type != "Empréstimo" {
			t.Fatalf("optional fields lost: %+v", debts[0])
		}

		noTotal, err := s.InsertDebt(ctx, core.Debt{UserOwner: admin.ID, Creditor: "Amigo", MonthlyInstallment: core.Money{Cents: 100}, DueDay: 31, Status: core.DebtNegotiated})
		if err != nil {
			t.Fatal(err)
		}
		d, err := s.GetDebt(ctx, noTotal)
		if err != nil || d.TotalAmount != nil || d.Type != "" {
			t.Fatalf("expected null optional fields, got %+v, %v", d, err)
		}

		if _, err := s.GetIncome(ctx, 999999); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete account cascades", func(t *testing.T) {
		if err := s.DeleteAccount(ctx, viewer.ID); err != nil {
			t.Fatal(err)
		}
		viewers, err := s.ListLinkedViewers(ctx, admin.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(viewers) != 0 {
			t.Fatalf("expected link removed, got %+v", viewers)
		}
	})
}
