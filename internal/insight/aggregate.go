// Package insight aggregates income and expense entries into month
// buckets, yearly summaries and category rankings.
package insight

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/money"
)

var (
	// ErrNoRecords means both lists were empty.
	ErrNoRecords = errors.New("no financial records")
	// ErrNoValidMonth means no month at or before the reference month has data.
	ErrNoValidMonth = errors.New("no month with data at or before the reference month")
)

// NoMonthDataError means the target month has no entries or only zeros.
type NoMonthDataError struct {
	Month calendar.MonthKey
}

func (e *NoMonthDataError) Error() string {
	return fmt.Sprintf("no financial records for %s", e.Month)
}

// Bucket holds one month's totals. Savings is derived.
type Bucket struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Savings is income minus expense.
func (b Bucket) Savings() decimal.Decimal { return b.Income.Sub(b.Expense) }

// Zero reports whether both totals are zero.
func (b Bucket) Zero() bool { return b.Income.IsZero() && b.Expense.IsZero() }

// CategoryTotal is one row of a category ranking.
type CategoryTotal struct {
	Tag    model.Tag
	Amount decimal.Decimal
}

// Dataset is the parsed view of one user's entries.
type Dataset struct {
	Incomes  []model.Record
	Expenses []model.Record
	Months   map[calendar.MonthKey]Bucket
	Skipped  int
}

// Build parses entries into records and month buckets. Entries with a
// missing or unparseable amount or date are skipped with a warning.
// Expenses without a tag count as Others.
func Build(incomes, expenses []model.Entry, logger *log.Logger) Dataset {
	if logger == nil {
		logger = log.Discard()
	}
	d := Dataset{Months: make(map[calendar.MonthKey]Bucket)}

	for _, e := range incomes {
		rec, err := e.Record()
		if err != nil {
			logger.Warn("skipping income entry", log.FieldEntryID, e.ID, log.FieldError, err.Error())
			d.Skipped++
			continue
		}
		d.Incomes = append(d.Incomes, rec)
		b := d.Months[rec.Date.MonthKey()]
		b.Income = b.Income.Add(rec.Amount)
		d.Months[rec.Date.MonthKey()] = b
	}

	for _, e := range expenses {
		rec, err := e.Record()
		if err != nil {
			logger.Warn("skipping expense entry", log.FieldEntryID, e.ID, log.FieldError, err.Error())
			d.Skipped++
			continue
		}
		if rec.Tag == "" {
			rec.Tag = model.TagOthers
		}
		d.Expenses = append(d.Expenses, rec)
		b := d.Months[rec.Date.MonthKey()]
		b.Expense = b.Expense.Add(rec.Amount)
		d.Months[rec.Date.MonthKey()] = b
	}
	return d
}

// Empty reports whether no record survived parsing.
func (d Dataset) Empty() bool {
	return len(d.Incomes) == 0 && len(d.Expenses) == 0
}

// Keys returns the months with data, oldest first.
func (d Dataset) Keys() []calendar.MonthKey {
	keys := make([]calendar.MonthKey, 0, len(d.Months))
	for k := range d.Months {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Totals sums all incomes and all expenses.
func (d Dataset) Totals() Bucket {
	var b Bucket
	for _, r := range d.Incomes {
		b.Income = b.Income.Add(r.Amount)
	}
	for _, r := range d.Expenses {
		b.Expense = b.Expense.Add(r.Amount)
	}
	return b
}

// TopCategories ranks expense tags among records accepted by keep. Ties
// keep first-appearance order. n <= 0 returns every category.
func TopCategories(expenses []model.Record, keep func(model.Record) bool, n int) []CategoryTotal {
	var totals []CategoryTotal
	index := make(map[model.Tag]int)
	for _, r := range expenses {
		if keep != nil && !keep(r) {
			continue
		}
		i, ok := index[r.Tag]
		if !ok {
			i = len(totals)
			index[r.Tag] = i
			totals = append(totals, CategoryTotal{Tag: r.Tag})
		}
		totals[i].Amount = totals[i].Amount.Add(r.Amount)
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount.GreaterThan(totals[j].Amount)
	})
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// YearSummary is the yearly view.
type YearSummary struct {
	Year        int
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Savings     decimal.Decimal
	SavingsRate decimal.Decimal // percent; zero when Income is zero
	Top         []CategoryTotal
}

// Yearly summarizes records dated in year with the top five categories.
func (d Dataset) Yearly(year int) YearSummary {
	inYear := func(r model.Record) bool { return r.Date.Year() == year }
	s := YearSummary{Year: year}
	for _, r := range d.Incomes {
		if inYear(r) {
			s.Income = s.Income.Add(r.Amount)
		}
	}
	for _, r := range d.Expenses {
		if inYear(r) {
			s.Expense = s.Expense.Add(r.Amount)
		}
	}
	s.Savings = s.Income.Sub(s.Expense)
	s.SavingsRate = money.Percent(s.Savings, s.Income)
	s.Top = TopCategories(d.Expenses, inYear, 5)
	return s
}

// MonthInsight is the monthly view.
type MonthInsight struct {
	Month         calendar.MonthKey
	Current       Bucket
	PreviousMonth calendar.MonthKey // empty when no earlier month has data
	Previous      Bucket
	Top           []CategoryTotal
}

// Delta is current savings minus previous savings.
func (m MonthInsight) Delta() decimal.Decimal {
	return m.Current.Savings().Sub(m.Previous.Savings())
}

// Monthly resolves the target month and builds its insight. An explicit or
// relative period wins; otherwise the latest month with data at or before
// today's month is used.
func (d Dataset) Monthly(p Period, today calendar.Date) (MonthInsight, error) {
	target, ok := p.MonthKey()
	if !ok {
		ref := today.MonthKey()
		keys := d.Keys()
		for i := len(keys) - 1; i >= 0; i-- {
			if keys[i] <= ref {
				target, ok = keys[i], true
				break
			}
		}
		if !ok {
			return MonthInsight{}, ErrNoValidMonth
		}
	}

	cur, exists := d.Months[target]
	if !exists || cur.Zero() {
		return MonthInsight{}, &NoMonthDataError{Month: target}
	}

	m := MonthInsight{Month: target, Current: cur}
	keys := d.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		if keys[i] < target {
			m.PreviousMonth = keys[i]
			m.Previous = d.Months[keys[i]]
			break
		}
	}
	m.Top = TopCategories(d.Expenses, func(r model.Record) bool {
		return r.Date.MonthKey() == target
	}, 3)
	return m, nil
}
