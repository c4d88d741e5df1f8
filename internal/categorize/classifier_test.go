package categorize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestClassify_Exact(t *testing.T) {
	c := Default()
	tests := []struct {
		title string
		want  model.Tag
	}{
		{"Weekly grocery run", model.TagFood},
		{"NETFLIX subscription", model.TagEntertainment},
		{"Uber to airport", model.TagTransportation},
		{"Water bill for March", model.TagUtilities},
		{"Pharmacy", model.TagMedical},
		{"Monthly pay", model.TagSalary},
		{"Client retainer", model.TagBusiness},
		{"SIP installment", model.TagInvestment},
		{"random stuff", model.TagOthers},
	}
	for _, tt := range tests {
		got := c.Classify(tt.title)
		assert.Equal(t, tt.want, got.Tag, "Classify(%q)", tt.title)
		assert.Equal(t, 100.0, got.Score, "Classify(%q)", tt.title)
		assert.Equal(t, MethodExact, got.Method, "Classify(%q)", tt.title)
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	c := Default()
	// "food" (Food) is declared before "uber" (Transportation).
	assert.Equal(t, model.TagFood, c.Classify("uber eats food").Tag)
	// "misc" appears under both Other and Others; Other is declared first.
	assert.Equal(t, model.TagOther, c.Classify("misc").Tag)
}

func TestClassify_Fuzzy(t *testing.T) {
	got := Default().Classify("groceri")
	assert.Equal(t, model.TagFood, got.Tag)
	assert.Equal(t, MethodFuzzy, got.Method)
	assert.GreaterOrEqual(t, got.Score, 85.0)
	assert.Less(t, got.Score, 100.0)
}

func TestClassify_FuzzyReturnsFirstOverThreshold(t *testing.T) {
	rules := RuleTable{
		{Tag: model.TagFood, Keywords: []string{"abxy"}},
		{Tag: model.TagMedical, Keywords: []string{"abcz"}},
	}

	// Food scores ~66.7 and crosses a threshold of 50 before Medical (~85.7)
	// is considered.
	got := New(rules, 50).Classify("abcd")
	assert.Equal(t, model.TagFood, got.Tag)
	assert.InDelta(t, 66.67, got.Score, 0.01)
	assert.Equal(t, MethodFuzzy, got.Method)

	// Nothing crosses 90, so the best observed score wins.
	got = New(rules, 90).Classify("abcd")
	assert.Equal(t, model.TagMedical, got.Tag)
	assert.InDelta(t, 85.71, got.Score, 0.01)
	assert.Equal(t, MethodBestNear, got.Method)
}

func TestClassify_Fallback(t *testing.T) {
	for _, title := range []string{"", "qqqq"} {
		got := Default().Classify(title)
		assert.Equal(t, model.TagOthers, got.Tag)
		assert.Equal(t, 0.0, got.Score)
		assert.True(t, got.Fallback())
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := Default()
	for _, title := range []string{"Groceries", "taxy ride", "dinner with friends", "stok purchase"} {
		assert.Equal(t, c.Classify(title), c.Classify(title), title)
	}
}

func TestForIncome(t *testing.T) {
	tests := []struct {
		name string
		text string
		in   Result
		want model.Tag
	}{
		{"salary keyword", "received my salary", Result{Tag: model.TagFood, Score: 40}, model.TagSalary},
		{"freelance keyword", "freelance design", Result{Tag: model.TagOther, Score: 100}, model.TagOther},
		{"consulting keyword", "Consulting fee", Result{Tag: model.TagBusiness, Score: 100}, model.TagOther},
		{"income tag kept", "quarterly dividend", Result{Tag: model.TagInvestment, Score: 100}, model.TagInvestment},
		{"expense tag forced", "birthday gift", Result{Tag: model.TagFood, Score: 30}, model.TagOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForIncome(tt.text, tt.in).Tag)
		})
	}
}

func TestPartialRatio(t *testing.T) {
	assert.Equal(t, 100.0, PartialRatio("this is a test", "test"))
	assert.Equal(t, 100.0, PartialRatio("abcd", "xabcdy"))
	assert.Equal(t, 100.0, PartialRatio("", ""))
	assert.Equal(t, 0.0, PartialRatio("abc", ""))
	assert.Equal(t, 0.0, PartialRatio("abc", "xyz"))
	assert.Equal(t, PartialRatio("food", "groceri"), PartialRatio("groceri", "food"))
	assert.InDelta(t, 92.31, PartialRatio("groceri", "grocery"), 0.01)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 75.0, Ratio("abcd", "abce"))
	assert.Equal(t, 100.0, Ratio("ç", "ç"))
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`rules:
  - tag: medical
    keywords: [Gym, " Yoga "]
  - tag: Food
    keywords: [cafe]
`), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, model.TagMedical, rules[0].Tag)
	assert.Equal(t, []string{"gym", "yoga"}, rules[0].Keywords)

	c := New(rules, 0)
	assert.Equal(t, model.TagMedical, c.Classify("Gym membership").Tag)
}

func TestParseRules_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown tag", "rules:\n  - tag: Travel\n    keywords: [flight]\n"},
		{"no keywords", "rules:\n  - tag: Food\n"},
		{"blank keyword", "rules:\n  - tag: Food\n    keywords: [\"  \"]\n"},
		{"empty table", "rules: []\n"},
		{"unknown field", "rules:\n  - tag: Food\n    words: [x]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestMarshalRules_RoundTripsDefaults(t *testing.T) {
	data, err := MarshalRules(DefaultRules())
	require.NoError(t, err)
	rules, err := ParseRules(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)
}
