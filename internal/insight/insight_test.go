package insight

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/money"
)

var today = calendar.MustParse("2025-03-15")

func entry(id, amount, date, tag string) model.Entry {
	return model.Entry{ID: id, Amount: model.FlexString(amount), Date: model.FlexString(date), Tag: tag}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		query string
		want  Period
	}{
		{"Give insights for 2025 overall", Period{Kind: PeriodYear, Year: 2025}},
		{"summary of 2024", Period{Kind: PeriodYear, Year: 2024}},
		{"year 2023 please", Period{Kind: PeriodYear, Year: 2023}},
		{"top expenses in March 2024?", Period{Kind: PeriodMonth, Year: 2024, Month: time.March}},
		{"how did january go", Period{Kind: PeriodMonth, Year: 2025, Month: time.January}},
		{"february 2024 vs last month", Period{Kind: PeriodMonth, Year: 2024, Month: time.February}},
		{"Show insights for last month", Period{Kind: PeriodLastMonth, Year: 2025, Month: time.February}},
		{"this month", Period{Kind: PeriodThisMonth, Year: 2025, Month: time.March}},
		{"current month status", Period{Kind: PeriodThisMonth, Year: 2025, Month: time.March}},
		{"2024", Period{Kind: PeriodUnspecified}},
		{"dismay", Period{Kind: PeriodUnspecified}},
		{"", Period{Kind: PeriodUnspecified}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePeriod(tt.query, today), tt.query)
	}
}

func TestParsePeriod_LastMonthAcrossYear(t *testing.T) {
	p := ParsePeriod("last month", calendar.MustParse("2025-01-20"))
	key, ok := p.MonthKey()
	require.True(t, ok)
	assert.Equal(t, calendar.MonthKey("2024-12"), key)
}

func TestBuild_SkipsMalformed(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Format: "json", Output: &buf, Component: log.ComponentInsight})

	d := Build(
		[]model.Entry{entry("i1", "100", "2025-01-10", ""), entry("i2", "", "2025-01-11", ""), entry("i3", "50", "Jan 5", "")},
		[]model.Entry{entry("e1", "abc", "2025-01-10", "Food"), entry("e2", "20", "2025-01-12", "")},
		logger,
	)
	assert.Equal(t, 3, d.Skipped)
	require.Len(t, d.Incomes, 1)
	require.Len(t, d.Expenses, 1)
	assert.Equal(t, model.TagOthers, d.Expenses[0].Tag)
	assert.True(t, d.Months["2025-01"].Income.Equal(dec("100")))
	assert.True(t, d.Months["2025-01"].Expense.Equal(dec("20")))
	assert.Contains(t, buf.String(), "skipping income entry")
	assert.Contains(t, buf.String(), "skipping expense entry")
}

func TestMonthly_SingleMonth(t *testing.T) {
	d := Build(
		[]model.Entry{entry("i1", "50000", "2025-01-10", "Salary")},
		[]model.Entry{entry("e1", "30000", "2025-01-05", "Food")},
		nil,
	)
	m, err := d.Monthly(ParsePeriod("january 2025", today), today)
	require.NoError(t, err)
	assert.Equal(t, calendar.MonthKey("2025-01"), m.Month)
	assert.True(t, m.Current.Income.Equal(dec("50000")))
	assert.True(t, m.Current.Expense.Equal(dec("30000")))
	assert.True(t, m.Current.Savings().Equal(dec("20000")))
	assert.Empty(t, m.PreviousMonth)
	assert.True(t, m.Delta().Equal(dec("20000")))

	want := "📅 **Financial Insight for 2025-01:**\n" +
		"- 💰 Income: ₹50,000.00\n" +
		"- 💸 Expenses: ₹30,000.00\n" +
		"- 💼 Savings: ₹20,000.00 (📈 Up ₹20,000.00 from last month)\n" +
		"\n" +
		"📊 **Top Spending Categories:**\n" +
		"- Food: ₹30,000.00\n" +
		"\n" +
		"📈 **Trend:** Compared to last month, your savings have increased."
	assert.Equal(t, want, FormatMonthly(m, money.DefaultSymbol))
}

func TestMonthly_TrendAgainstPreviousMonthWithData(t *testing.T) {
	d := Build(
		[]model.Entry{
			entry("i1", "1000", "2024-11-02", ""),
			entry("i2", "1000", "2025-02-02", ""),
		},
		[]model.Entry{
			entry("e1", "200", "2024-11-03", "Food"),
			entry("e2", "700", "2025-02-03", "Food"),
			entry("e3", "100", "2025-02-04", "Medical"),
			entry("e4", "100", "2025-02-05", "Utilities"),
			entry("e5", "50", "2025-02-06", "Entertainment"),
		},
		nil,
	)
	m, err := d.Monthly(Period{Kind: PeriodUnspecified}, today)
	require.NoError(t, err)
	assert.Equal(t, calendar.MonthKey("2025-02"), m.Month)
	assert.Equal(t, calendar.MonthKey("2024-11"), m.PreviousMonth)
	// 50 - 800
	assert.True(t, m.Delta().Equal(dec("-750")))

	require.Len(t, m.Top, 3)
	assert.Equal(t, model.TagFood, m.Top[0].Tag)
	// Medical and Utilities tie; first appearance wins.
	assert.Equal(t, model.TagMedical, m.Top[1].Tag)
	assert.Equal(t, model.TagUtilities, m.Top[2].Tag)

	out := FormatMonthly(m, money.DefaultSymbol)
	assert.Contains(t, out, "- 💼 Savings: ₹50.00 (📉 Down ₹750.00 from last month)")
	assert.Contains(t, out, "your savings have decreased.")
}

func TestMonthly_LatestIgnoresFutureMonths(t *testing.T) {
	d := Build(nil, []model.Entry{
		entry("e1", "10", "2025-01-03", "Food"),
		entry("e2", "10", "2025-06-03", "Food"),
	}, nil)
	m, err := d.Monthly(Period{}, today)
	require.NoError(t, err)
	assert.Equal(t, calendar.MonthKey("2025-01"), m.Month)
}

func TestMonthly_NoData(t *testing.T) {
	future := Build(nil, []model.Entry{entry("e1", "10", "2026-01-03", "Food")}, nil)
	_, err := future.Monthly(Period{}, today)
	assert.ErrorIs(t, err, ErrNoValidMonth)
	msg, ok := NoDataMessage(err)
	require.True(t, ok)
	assert.Equal(t, "📭 No financial data available for any valid month.", msg)

	_, err = future.Monthly(ParsePeriod("last month", today), today)
	var nm *NoMonthDataError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, calendar.MonthKey("2025-02"), nm.Month)
	msg, _ = NoDataMessage(err)
	assert.Equal(t, "📭 No financial records found for 2025-02.", msg)

	zero := Build([]model.Entry{entry("i1", "0", "2025-03-01", "")}, nil, nil)
	_, err = zero.Monthly(ParsePeriod("this month", today), today)
	assert.ErrorAs(t, err, &nm)
}

func TestYearly(t *testing.T) {
	d := Build(
		[]model.Entry{entry("i1", "40000", "2024-05-01", ""), entry("i2", "60000", "2024-09-01", ""), entry("i3", "999", "2025-01-01", "")},
		[]model.Entry{
			entry("e1", "10000", "2024-05-02", "Food"),
			entry("e2", "5000", "2024-06-02", "Transportation"),
			entry("e3", "5000", "2024-07-02", "Food"),
			entry("e4", "1", "2025-01-02", "Medical"),
		},
		nil,
	)
	s := d.Yearly(2024)
	assert.True(t, s.Income.Equal(dec("100000")))
	assert.True(t, s.Expense.Equal(dec("20000")))
	assert.True(t, s.Savings.Equal(dec("80000")))
	assert.Equal(t, "80.0", s.SavingsRate.StringFixed(1))

	want := "📅 **Financial Summary for 2024:**\n" +
		"- 💰 Total Income: ₹100,000.00\n" +
		"- 💸 Total Expenses: ₹20,000.00\n" +
		"- 💼 Total Savings: ₹80,000.00\n" +
		"- 📊 Savings Rate: 80.0%\n" +
		"\n" +
		"📊 **Top Spending Categories:**\n" +
		"- Food: ₹15,000.00\n" +
		"- Transportation: ₹5,000.00"
	assert.Equal(t, want, FormatYearly(s, money.DefaultSymbol))
}

func TestYearly_ZeroIncomeRateIsZero(t *testing.T) {
	d := Build(nil, []model.Entry{entry("e1", "500", "2024-02-02", "Food")}, nil)
	s := d.Yearly(2024)
	assert.True(t, s.SavingsRate.IsZero())
	out := FormatYearly(s, money.DefaultSymbol)
	assert.Contains(t, out, "- 📊 Savings Rate: 0.0%")
	assert.Contains(t, out, "- 💼 Total Savings: ₹-500.00")
}

func TestYearly_NoCategories(t *testing.T) {
	d := Build([]model.Entry{entry("i1", "5", "2023-02-02", "")}, nil, nil)
	out := FormatYearly(d.Yearly(2023), money.DefaultSymbol)
	assert.Contains(t, out, "- No category data available.")
}

func TestTopCategories_Limit(t *testing.T) {
	var recs []model.Record
	for i, tag := range []model.Tag{model.TagFood, model.TagMedical, model.TagUtilities, model.TagOthers, model.TagEntertainment, model.TagTransportation} {
		recs = append(recs, model.Record{Tag: tag, Amount: decimal.NewFromInt(int64(10 + i))})
	}
	top := TopCategories(recs, nil, 5)
	require.Len(t, top, 5)
	assert.Equal(t, model.TagTransportation, top[0].Tag)
	assert.Len(t, TopCategories(recs, nil, 0), 6)
}

func TestReport(t *testing.T) {
	d := Build(
		[]model.Entry{entry("i1", "50000", "2025-01-10", "")},
		[]model.Entry{entry("e1", "30000", "2025-01-05", "Food")},
		nil,
	)
	out, err := Report(d, "insights for 2025 overall", today, money.DefaultSymbol)
	require.NoError(t, err)
	assert.Contains(t, out, "Financial Summary for 2025")

	out, err = Report(d, "", today, money.DefaultSymbol)
	require.NoError(t, err)
	assert.Contains(t, out, "Financial Insight for 2025-01")

	_, err = Report(Build(nil, nil, nil), "", today, money.DefaultSymbol)
	assert.ErrorIs(t, err, ErrNoRecords)
	msg, ok := NoDataMessage(err)
	require.True(t, ok)
	assert.Equal(t, "📭 No financial records found.", msg)
}
