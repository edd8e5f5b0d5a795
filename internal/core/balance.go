package core

// BalanceInput is everything the panel reads for one user and month.
// Settings is nil when the month has not been configured.
type BalanceInput struct {
	Settings *MonthSettings
	Incomes  []Income
	Expenses []Expense
	Debts    []Debt
}

// Balance is the derived monthly picture shown on the panel.
type Balance struct {
	YearMonth         YearMonth
	Configured        bool
	Salary            Money
	AvgDobraValue     Money
	TotalExtras       Money
	TotalExpenses     Money
	TotalInstallments Money
	Saldo             Money
	DobrasNeeded      int
	DobrasDone        int
	DobrasRemaining   int
}

// ComputeBalance derives the monthly balance. Missing settings count as
// zero salary and zero average dobra value; settled debts are ignored.
func ComputeBalance(ym YearMonth, in BalanceInput) Balance {
	b := Balance{YearMonth: ym}
	if in.Settings != nil {
		b.Configured = true
		b.Salary = in.Settings.SalaryMonthly
		b.AvgDobraValue = in.Settings.AvgDobraValue
	}
	for _, inc := range in.Incomes {
		b.TotalExtras = b.TotalExtras.Add(inc.Amount)
	}
	for _, e := range in.Expenses {
		b.TotalExpenses = b.TotalExpenses.Add(e.Amount)
	}
	for _, d := range in.Debts {
		if d.Status.Open() {
			b.TotalInstallments = b.TotalInstallments.Add(d.MonthlyInstallment)
		}
	}
	b.Saldo = b.Salary.Add(b.TotalExtras).Sub(b.TotalExpenses).Sub(b.TotalInstallments)
	b.DobrasNeeded = DobrasNeeded(b.Saldo, b.AvgDobraValue)
	b.DobrasDone = CountDobras(in.Incomes)
	b.DobrasRemaining = max(b.DobrasNeeded-b.DobrasDone, 0)
	return b
}

// DobrasNeeded is the number of extra shifts that cover a negative saldo,
// rounded up. It is zero when the saldo is not negative or avg is not positive.
func DobrasNeeded(saldo, avg Money) int {
	if saldo.Cents >= 0 || avg.Cents <= 0 {
		return 0
	}
	deficit := -saldo.Cents
	return int((deficit + avg.Cents - 1) / avg.Cents)
}

// CountDobras counts incomes whose source mentions "dobra" in any casing.
func CountDobras(incomes []Income) int {
	n := 0
	for _, inc := range incomes {
		if IsDobraSource(inc.Source) {
			n++
		}
	}
	return n
}
