package core

import (
	"testing"
	"time"
)

func brl(reais int64) Money { return Money{Cents: reais * 100} }

func TestComputeBalance(t *testing.T) {
	ym := YearMonth{2024, time.January}
	settings := &MonthSettings{SalaryMonthly: brl(3000), AvgDobraValue: brl(150)}

	cases := []struct {
		name          string
		in            BalanceInput
		wantSaldo     Money
		wantNeeded    int
		wantDone      int
		wantRemaining int
	}{
		{
			name: "positive saldo",
			in: BalanceInput{
				Settings: settings,
				Incomes:  []Income{{Source: "Salário extra", Amount: brl(500)}},
				Expenses: []Expense{{Amount: brl(2000)}},
				Debts:    []Debt{{MonthlyInstallment: brl(1000), Status: DebtActive}},
			},
			wantSaldo: brl(500),
		},
		{
			name: "deficit rounds up",
			in: BalanceInput{
				Settings: &MonthSettings{SalaryMonthly: brl(2000), AvgDobraValue: brl(100)},
				Expenses: []Expense{{Amount: brl(2500)}},
			},
			wantSaldo:     brl(-500),
			wantNeeded:    5,
			wantRemaining: 5,
		},
		{
			name: "partial dobra rounds up",
			in: BalanceInput{
				Settings: &MonthSettings{SalaryMonthly: brl(2000), AvgDobraValue: brl(300)},
				Expenses: []Expense{{Amount: brl(2500)}},
			},
			wantSaldo:     brl(-500),
			wantNeeded:    2,
			wantRemaining: 2,
		},
		{
			name: "zero average dobra",
			in: BalanceInput{
				Settings: &MonthSettings{SalaryMonthly: brl(2000)},
				Expenses: []Expense{{Amount: brl(2500)}},
			},
			wantSaldo: brl(-500),
		},
		{
			name: "missing settings",
			in: BalanceInput{
				Expenses: []Expense{{Amount: brl(10)}},
			},
			wantSaldo: brl(-10),
		},
		{
			name: "settled debts ignored",
			in: BalanceInput{
				Settings: settings,
				Debts: []Debt{
					{MonthlyInstallment: brl(100), Status: DebtActive},
					{MonthlyInstallment: brl(200), Status: DebtNegotiated},
					{MonthlyInstallment: brl(400), Status: DebtSettled},
				},
			},
			wantSaldo: brl(2700),
		},
		{
			name: "done exceeds needed",
			in: BalanceInput{
				Settings: &MonthSettings{SalaryMonthly: brl(0), AvgDobraValue: brl(100)},
				Incomes: []Income{
					{Source: "Dobra sábado", Amount: brl(100)},
					{Source: "DOBRA domingo", Amount: brl(100)},
				},
				Expenses: []Expense{{Amount: brl(300)}},
			},
			wantSaldo:  brl(-100),
			wantNeeded: 1,
			wantDone:   2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := ComputeBalance(ym, tc.in)
			if b.Saldo != tc.wantSaldo {
				t.Fatalf("saldo = %d, want %d", b.Saldo.Cents, tc.wantSaldo.Cents)
			}
			if b.DobrasNeeded != tc.wantNeeded {
				t.Fatalf("needed = %d, want %d", b.DobrasNeeded, tc.wantNeeded)
			}
			if b.DobrasDone != tc.wantDone {
				t.Fatalf("done = %d, want %d", b.DobrasDone, tc.wantDone)
			}
			if b.DobrasRemaining != tc.wantRemaining {
				t.Fatalf("remaining = %d, want %d", b.DobrasRemaining, tc.wantRemaining)
			}
			if b.DobrasRemaining < 0 {
				t.Fatal("remaining must never be negative")
			}
			if b.Configured != (tc.in.Settings != nil) {
				t.Fatalf("configured = %v", b.Configured)
			}
		})
	}
}

func TestCountDobras(t *testing.T) {
	incomes := []Income{
		{Source: "Salário extra"},
		{Source: "Dobra sábado"},
		{Source: "DOBRA domingo"},
	}
	if got := CountDobras(incomes); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	if got := CountDobras(nil); got != 0 {
		t.Fatalf("got %d for empty list", got)
	}
}

func TestDobrasNeeded(t *testing.T) {
	cases := []struct {
		saldo, avg int64
		want       int
	}{
		{0, 100, 0},
		{5000, 100, 0},
		{-1, 100, 1},
		{-100, 100, 1},
		{-101, 100, 2},
		{-500, 0, 0},
		{-500, -10, 0},
	}
	for _, tc := range cases {
		if got := DobrasNeeded(Money{tc.saldo}, Money{tc.avg}); got != tc.want {
			t.Fatalf("DobrasNeeded(%d, %d) = %d, want %d", tc.saldo, tc.avg, got, tc.want)
		}
	}
}
