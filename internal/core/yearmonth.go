package core

import (
	"fmt"
	"strings"
	"time"
)

// YearMonth identifies a calendar month; its string form "YYYY-MM" is the
// key monthly settings are stored under.
type YearMonth struct {
	Year  int
	Month time.Month
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// CurrentYearMonth returns the month containing now, in now's location.
func CurrentYearMonth(now time.Time) YearMonth {
	return YearMonth{Year: now.Year(), Month: now.Month()}
}

func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, ErrInvalidYearMonth
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Previous returns the month before ym, rolling January back to December.
func (ym YearMonth) Previous() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// DateRange returns the inclusive string bounds used to select ledger rows
// of the month. The upper bound is always day 31, whatever the month length.
func (ym YearMonth) DateRange() (from, to string) {
	key := ym.String()
	return key + "-01", key + "-31"
}

// Label renders the month for headings, e.g. "janeiro de 2024".
func (ym YearMonth) Label() string {
	if ym.Month < time.January || ym.Month > time.December {
		return ym.String()
	}
	return fmt.Sprintf("%s de %d", monthNames[ym.Month-1], ym.Year)
}
