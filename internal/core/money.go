package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	Cents int64
}

var maxCents = decimal.NewFromInt(1<<63 - 1)

// ParseAmount converts a user-typed amount to cents.
//
// A comma is accepted as decimal separator ("1500,50"). The value is rounded
// half away from zero to two decimal places. Negative and zero amounts are
// accepted; only unparseable input is rejected.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// FormString renders the amount the way a form field shows it back:
// plain dot decimal, trailing zeros trimmed ("1500.5", "3000").
func (m Money) FormString() string {
	return m.Decimal().String()
}

// Decimal returns the amount in reais.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
