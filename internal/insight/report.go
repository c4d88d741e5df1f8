package insight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/money"
)

// Report answers query from d. The error is one of ErrNoRecords,
// ErrNoValidMonth or *NoMonthDataError; NoDataMessage renders it.
func Report(d Dataset, query string, today calendar.Date, symbol string) (string, error) {
	if d.Empty() {
		return "", ErrNoRecords
	}
	p := ParsePeriod(query, today)
	if p.Kind == PeriodYear {
		return FormatYearly(d.Yearly(p.Year), symbol), nil
	}
	m, err := d.Monthly(p, today)
	if err != nil {
		return "", err
	}
	return FormatMonthly(m, symbol), nil
}

// NoDataMessage renders the no-data outcomes of Report. ok is false for
// any other error.
func NoDataMessage(err error) (string, bool) {
	var nm *NoMonthDataError
	switch {
	case errors.Is(err, ErrNoRecords):
		return "📭 No financial records found.", true
	case errors.Is(err, ErrNoValidMonth):
		return "📭 No financial data available for any valid month.", true
	case errors.As(err, &nm):
		return fmt.Sprintf("📭 No financial records found for %s.", nm.Month), true
	}
	return "", false
}

// FormatYearly renders a yearly summary.
func FormatYearly(s YearSummary, symbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 **Financial Summary for %d:**\n", s.Year)
	fmt.Fprintf(&b, "- 💰 Total Income: %s\n", money.Format(symbol, s.Income))
	fmt.Fprintf(&b, "- 💸 Total Expenses: %s\n", money.Format(symbol, s.Expense))
	fmt.Fprintf(&b, "- 💼 Total Savings: %s\n", money.Format(symbol, s.Savings))
	fmt.Fprintf(&b, "- 📊 Savings Rate: %s%%\n", s.SavingsRate.StringFixed(1))
	b.WriteString("\n📊 **Top Spending Categories:**\n")
	writeCategories(&b, s.Top, symbol)
	return strings.TrimSpace(b.String())
}

// FormatMonthly renders a monthly insight with its trend line.
func FormatMonthly(m MonthInsight, symbol string) string {
	delta := m.Delta()
	direction, trend := "📈 Up", "increased"
	if delta.IsNegative() {
		direction, trend = "📉 Down", "decreased"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 **Financial Insight for %s:**\n", m.Month)
	fmt.Fprintf(&b, "- 💰 Income: %s\n", money.Format(symbol, m.Current.Income))
	fmt.Fprintf(&b, "- 💸 Expenses: %s\n", money.Format(symbol, m.Current.Expense))
	fmt.Fprintf(&b, "- 💼 Savings: %s (%s %s from last month)\n",
		money.Format(symbol, m.Current.Savings()), direction, money.Format(symbol, delta.Abs()))
	b.WriteString("\n📊 **Top Spending Categories:**\n")
	writeCategories(&b, m.Top, symbol)
	fmt.Fprintf(&b, "\n📈 **Trend:** Compared to last month, your savings have %s.\n", trend)
	return strings.TrimSpace(b.String())
}

func writeCategories(b *strings.Builder, top []CategoryTotal, symbol string) {
	if len(top) == 0 {
		b.WriteString("- No category data available.\n")
		return
	}
	for _, c := range top {
		fmt.Fprintf(b, "- %s: %s\n", c.Tag, money.Format(symbol, c.Amount))
	}
}
