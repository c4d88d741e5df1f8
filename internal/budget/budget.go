// Package budget diagnoses spending against income and suggests cuts.
package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/money"
)

// Percent thresholds.
var (
	FlagPercent          = decimal.NewFromInt(30)
	FoodPercent          = decimal.NewFromInt(30)
	EntertainmentPercent = decimal.NewFromInt(15)
	SavingsTarget        = decimal.RequireFromString("0.2")
)

// Suggestion identifies one advice line.
type Suggestion string

const (
	SuggestOverspending  Suggestion = "overspending"
	SuggestSaveTwenty    Suggestion = "save_twenty_percent"
	SuggestFood          Suggestion = "food"
	SuggestEntertainment Suggestion = "entertainment"
)

var suggestionText = map[Suggestion]string{
	SuggestOverspending:  "You're spending more than you earn. Cut overall expenses.",
	SuggestSaveTwenty:    "Aim to save at least 20% of your income.",
	SuggestFood:          "Food expenses are too high. Cut back on eating out.",
	SuggestEntertainment: "Reduce entertainment costs. Target below 15%.",
}

// Text is the advice sentence for s.
func (s Suggestion) Text() string { return suggestionText[s] }

// Category is one line of the breakdown.
type Category struct {
	Tag     model.Tag
	Amount  decimal.Decimal
	Percent decimal.Decimal // of total expense; zero when total is zero
	Flagged bool            // Percent above FlagPercent
}

// Diagnosis is the full budget picture.
type Diagnosis struct {
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Categories  []Category // first-appearance order
	Suggestions []Suggestion
}

// Savings is income minus expense.
func (d Diagnosis) Savings() decimal.Decimal { return d.Income.Sub(d.Expense) }

// Category returns the total for tag, zero when the tag never appears.
func (d Diagnosis) Category(tag model.Tag) decimal.Decimal {
	for _, c := range d.Categories {
		if c.Tag == tag {
			return c.Amount
		}
	}
	return decimal.Zero
}

// Diagnose totals expenses per tag and evaluates each suggestion rule on
// its own.
func Diagnose(expenses []model.Record, totalIncome decimal.Decimal) Diagnosis {
	d := Diagnosis{Income: totalIncome}

	index := make(map[model.Tag]int)
	for _, r := range expenses {
		d.Expense = d.Expense.Add(r.Amount)
		i, ok := index[r.Tag]
		if !ok {
			i = len(d.Categories)
			index[r.Tag] = i
			d.Categories = append(d.Categories, Category{Tag: r.Tag})
		}
		d.Categories[i].Amount = d.Categories[i].Amount.Add(r.Amount)
	}
	for i := range d.Categories {
		c := &d.Categories[i]
		c.Percent = money.Percent(c.Amount, d.Expense)
		c.Flagged = c.Percent.GreaterThan(FlagPercent)
	}

	savings := d.Savings()
	if savings.IsNegative() {
		d.Suggestions = append(d.Suggestions, SuggestOverspending)
	}
	if savings.LessThan(totalIncome.Mul(SavingsTarget)) {
		d.Suggestions = append(d.Suggestions, SuggestSaveTwenty)
	}
	if money.Percent(d.Category(model.TagFood), d.Expense).GreaterThan(FoodPercent) {
		d.Suggestions = append(d.Suggestions, SuggestFood)
	}
	if money.Percent(d.Category(model.TagEntertainment), d.Expense).GreaterThan(EntertainmentPercent) {
		d.Suggestions = append(d.Suggestions, SuggestEntertainment)
	}
	return d
}

// Format renders the budget summary, category breakdown and suggestions.
func Format(d Diagnosis, symbol string) string {
	savings := d.Savings()
	mark := "✅"
	if savings.IsNegative() {
		mark = "❗ Overspending!"
	}

	var b strings.Builder
	b.WriteString("📊 **Budget Summary**:\n")
	fmt.Fprintf(&b, "- 💰 Total Income: %s\n", money.Format(symbol, d.Income))
	fmt.Fprintf(&b, "- 💸 Total Expenses: %s\n", money.Format(symbol, d.Expense))
	fmt.Fprintf(&b, "- 💼 Estimated Savings: %s %s\n", money.Format(symbol, savings), mark)
	b.WriteString("\n🔍 **Category Breakdown**:\n")
	for _, c := range d.Categories {
		warn := ""
		if c.Flagged {
			warn = "⚠️"
		}
		fmt.Fprintf(&b, "- %s: %s (%s%%) %s\n", c.Tag, money.Format(symbol, c.Amount), c.Percent.StringFixed(1), warn)
	}
	b.WriteString("\n💡 **Suggestions:**\n")
	for _, s := range d.Suggestions {
		fmt.Fprintf(&b, "- %s\n", s.Text())
	}
	return strings.TrimSpace(b.String())
}
