// Package goal checks whether current net cash flow meets a savings goal.
package goal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/money"
)

var (
	amountRe = regexp.MustCompile(`[₹$€£]?(\d+(?:,\d{3})*(?:\.\d{1,2})?)`)
	monthsRe = regexp.MustCompile(`(?i)in\s+(\d+)\s+month`)
)

// Code says why goal text was rejected.
type Code string

const (
	CodeUnclear     Code = "unclear_goal"
	CodeBadDuration Code = "bad_duration"
)

var messages = map[Code]string{
	CodeUnclear:     "❌ Please provide a clear goal amount and time, e.g., 'I want to save ₹50000 in 6 months'.",
	CodeBadDuration: "❌ Goal duration must be at least 1 month.",
}

// ParseError means the goal amount or duration could not be recovered.
type ParseError struct {
	Code  Code
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("goal parse error: %s: %q", e.Code, e.Input)
}

// Message is the user-facing text for the error.
func (e *ParseError) Message() string { return messages[e.Code] }

// Goal is a target amount over a number of months.
type Goal struct {
	Amount decimal.Decimal
	Months int
}

// MonthlyTarget is Amount / Months.
func (g Goal) MonthlyTarget() decimal.Decimal {
	return g.Amount.Div(decimal.NewFromInt(int64(g.Months)))
}

// Parse reads "save ₹50,000 in 6 months" style text. The first amount in
// the text is the goal.
func Parse(text string) (Goal, error) {
	am := amountRe.FindStringSubmatch(text)
	mm := monthsRe.FindStringSubmatch(text)
	if am == nil || mm == nil {
		return Goal{}, &ParseError{Code: CodeUnclear, Input: text}
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(am[1], ",", ""))
	if err != nil {
		return Goal{}, &ParseError{Code: CodeUnclear, Input: text}
	}
	months, err := strconv.Atoi(mm[1])
	if err != nil || months <= 0 {
		return Goal{}, &ParseError{Code: CodeBadDuration, Input: text}
	}
	return Goal{Amount: amount, Months: months}, nil
}

// Assessment compares a goal with the user's overall net flow.
type Assessment struct {
	Goal    Goal
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Assess builds an assessment from total income and expense over the
// whole record set.
func Assess(g Goal, income, expense decimal.Decimal) Assessment {
	return Assessment{Goal: g, Income: income, Expense: expense}
}

// Net is income minus expense.
func (a Assessment) Net() decimal.Decimal { return a.Income.Sub(a.Expense) }

// OnTrack reports whether net flow covers the monthly target.
func (a Assessment) OnTrack() bool {
	return a.Net().GreaterThanOrEqual(a.Goal.MonthlyTarget())
}

// Format renders the goal report.
func Format(a Assessment, symbol string) string {
	status := "⚠️ Behind schedule!"
	if a.OnTrack() {
		status = "✅ On track!"
	}
	var b strings.Builder
	b.WriteString("🎯 **Savings Goal Insight**:\n")
	fmt.Fprintf(&b, "- 🏁 Goal: %s in %d months\n", money.Format(symbol, a.Goal.Amount), a.Goal.Months)
	fmt.Fprintf(&b, "- 📅 Monthly Target: %s\n", money.Format(symbol, a.Goal.MonthlyTarget()))
	b.WriteString("\n📊 **Current Performance**:\n")
	fmt.Fprintf(&b, "- 💰 Monthly Income: %s\n", money.Format(symbol, a.Income))
	fmt.Fprintf(&b, "- 💸 Monthly Expenses: %s\n", money.Format(symbol, a.Expense))
	fmt.Fprintf(&b, "- 💼 Current Savings: %s\n", money.Format(symbol, a.Net()))
	fmt.Fprintf(&b, "\n%s Try to cut unnecessary expenses or increase income to meet your goal.", status)
	return b.String()
}
