package budget

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/money"
)

func rec(tag model.Tag, amount int64) model.Record {
	return model.Record{Tag: tag, Amount: decimal.NewFromInt(amount), Kind: model.KindExpenses}
}

func TestDiagnose_FoodOverThirty(t *testing.T) {
	expenses := []model.Record{
		rec(model.TagFood, 4000),
		rec(model.TagUtilities, 3000),
		rec(model.TagTransportation, 3000),
	}
	d := Diagnose(expenses, decimal.NewFromInt(50000))

	require.Len(t, d.Categories, 3)
	assert.Equal(t, model.TagFood, d.Categories[0].Tag)
	assert.True(t, d.Categories[0].Flagged)
	assert.Equal(t, "40.0", d.Categories[0].Percent.StringFixed(1))
	assert.False(t, d.Categories[1].Flagged, "exactly 30% is not flagged")
	assert.Contains(t, d.Suggestions, SuggestFood)
	assert.NotContains(t, d.Suggestions, SuggestOverspending)
	assert.NotContains(t, d.Suggestions, SuggestSaveTwenty)

	out := Format(d, money.DefaultSymbol)
	assert.Contains(t, out, "- Food: ₹4,000.00 (40.0%) ⚠️\n")
	assert.Contains(t, out, "- Food expenses are too high. Cut back on eating out.")
}

func TestDiagnose_FoodUnderThirty(t *testing.T) {
	expenses := []model.Record{
		rec(model.TagFood, 2500),
		rec(model.TagUtilities, 2500),
		rec(model.TagTransportation, 2500),
		rec(model.TagMedical, 2500),
	}
	d := Diagnose(expenses, decimal.NewFromInt(50000))
	for _, c := range d.Categories {
		assert.False(t, c.Flagged, c.Tag)
	}
	assert.NotContains(t, d.Suggestions, SuggestFood)

	out := Format(d, money.DefaultSymbol)
	assert.NotContains(t, out, "⚠️")
	assert.NotContains(t, out, "Food expenses are too high")
}

func TestDiagnose_OverspendingAndSaveTwentyAreIndependent(t *testing.T) {
	d := Diagnose([]model.Record{rec(model.TagMedical, 1200)}, decimal.NewFromInt(1000))
	assert.Equal(t, []Suggestion{SuggestOverspending, SuggestSaveTwenty}, d.Suggestions)

	d = Diagnose([]model.Record{rec(model.TagMedical, 900)}, decimal.NewFromInt(1000))
	assert.Equal(t, []Suggestion{SuggestSaveTwenty}, d.Suggestions)
}

func TestDiagnose_Entertainment(t *testing.T) {
	d := Diagnose([]model.Record{
		rec(model.TagEntertainment, 16),
		rec(model.TagMedical, 84),
	}, decimal.NewFromInt(1000))
	assert.Equal(t, []Suggestion{SuggestEntertainment}, d.Suggestions)

	d = Diagnose([]model.Record{
		rec(model.TagEntertainment, 15),
		rec(model.TagMedical, 85),
	}, decimal.NewFromInt(1000))
	assert.Empty(t, d.Suggestions)
}

func TestDiagnose_AbsentTagsAreSilent(t *testing.T) {
	d := Diagnose(nil, decimal.NewFromInt(1000))
	assert.True(t, d.Expense.IsZero())
	assert.True(t, d.Category(model.TagFood).IsZero())
	assert.Empty(t, d.Suggestions)
}

func TestFormat_Layout(t *testing.T) {
	d := Diagnose([]model.Record{
		rec(model.TagFood, 600),
		rec(model.TagMedical, 400),
		rec(model.TagFood, 200),
	}, decimal.NewFromInt(1000))

	want := "📊 **Budget Summary**:\n" +
		"- 💰 Total Income: ₹1,000.00\n" +
		"- 💸 Total Expenses: ₹1,200.00\n" +
		"- 💼 Estimated Savings: ₹-200.00 ❗ Overspending!\n" +
		"\n" +
		"🔍 **Category Breakdown**:\n" +
		"- Food: ₹800.00 (66.7%) ⚠️\n" +
		"- Medical: ₹400.00 (33.3%) ⚠️\n" +
		"\n" +
		"💡 **Suggestions:**\n" +
		"- You're spending more than you earn. Cut overall expenses.\n" +
		"- Aim to save at least 20% of your income.\n" +
		"- Food expenses are too high. Cut back on eating out."
	assert.Equal(t, want, Format(d, money.DefaultSymbol))
}

func TestFormat_UnflaggedLineKeepsTrailingSpace(t *testing.T) {
	d := Diagnose([]model.Record{
		rec(model.TagFood, 30),
		rec(model.TagMedical, 30),
		rec(model.TagUtilities, 40),
	}, decimal.NewFromInt(1000))
	out := Format(d, money.DefaultSymbol)
	assert.Contains(t, out, "- Food: ₹30.00 (30.0%) \n")
	assert.Contains(t, out, "✅")
}
