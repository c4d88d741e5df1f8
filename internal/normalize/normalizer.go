// Package normalize turns free text or a JSON object into a draft
// transaction using keyword and pattern heuristics.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/session"
)

// DefaultMaxLength bounds input size in runes.
const DefaultMaxLength = 1000

var (
	spendWords   = []string{"spent", "paid", "bought"}
	receiveWords = []string{"received", "earned", "salary"}

	isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	amountRe  = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`)
	titleRe   = regexp.MustCompile(`\b(?:for|on)\s+([\p{L}\p{N}_\s]+)`)
	spacesRe  = regexp.MustCompile(`\s+`)
)

type relativeDate struct {
	keyword string
	resolve func(today calendar.Date) calendar.Date
}

// relativeDates is checked in order; the first keyword present wins.
var relativeDates = []relativeDate{
	{"yesterday", func(d calendar.Date) calendar.Date { return d.AddDays(-1) }},
	{"tomorrow", func(d calendar.Date) calendar.Date { return d.AddDays(1) }},
	{"last week", func(d calendar.Date) calendar.Date { return d.AddDays(-7) }},
	{"last month", calendar.Date.FirstOfPreviousMonth},
}

var dateWordsRe = regexp.MustCompile(`(?i)yesterday|today|tomorrow|last week|last month`)

type defaultTitle struct {
	keyword string
	title   string
}

var defaultTitles = []defaultTitle{
	{"salary", "Salary"},
	{"freelance", "Freelance"},
	{"received", "Received Payment"},
	{"earned", "Earned Income"},
}

// Normalizer is stateless apart from its length bound.
type Normalizer struct {
	MaxLength int
}

// New returns a Normalizer. A non-positive bound selects DefaultMaxLength.
func New(maxLength int) *Normalizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Normalizer{MaxLength: maxLength}
}

// Parse builds a draft from input. Relative dates resolve against the
// session clock.
func (n *Normalizer) Parse(input string, sess session.Session) (model.Draft, error) {
	limit := n.MaxLength
	if limit <= 0 {
		limit = DefaultMaxLength
	}
	if utf8.RuneCountInString(input) > limit {
		return model.Draft{}, &InputError{Code: CodeTooLong, Detail: fmt.Sprintf("over %d characters", limit)}
	}

	if d, ok, err := parseStructured(input); ok {
		return d, err
	}
	return parseText(input, sess.Today())
}

type structuredInput struct {
	TransactionType *string          `json:"transaction_type"`
	Title           string           `json:"title"`
	Amount          model.FlexString `json:"amount"`
	Date            model.FlexString `json:"date"`
	Tag             string           `json:"tag"`
	PaymentMethod   string           `json:"paymentmethod"`
	Description     string           `json:"description"`
}

// parseStructured reports ok when input is a JSON object naming a
// transaction_type. Objects without that field fall through to the text
// heuristics.
func parseStructured(input string) (model.Draft, bool, error) {
	trimmed := bytes.TrimSpace([]byte(input))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.Draft{}, false, nil
	}
	var in structuredInput
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return model.Draft{}, false, nil
	}
	if in.TransactionType == nil {
		return model.Draft{}, false, nil
	}
	kind := model.Kind(*in.TransactionType)
	if !kind.Valid() {
		return model.Draft{}, true, &InputError{Code: CodeBadKind, Detail: fmt.Sprintf("got %q", *in.TransactionType)}
	}
	return model.Draft{
		Kind:          kind,
		Title:         strings.TrimSpace(in.Title),
		Amount:        strings.TrimSpace(string(in.Amount)),
		Date:          strings.TrimSpace(string(in.Date)),
		Tag:           strings.TrimSpace(in.Tag),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Description:   in.Description,
		Source:        input,
		Structured:    true,
	}, true, nil
}

func parseText(input string, today calendar.Date) (model.Draft, error) {
	lower := strings.ToLower(input)

	kind, ok := detectKind(lower)
	if !ok {
		return model.Draft{}, &InputError{Code: CodeNoKind}
	}

	amount, ok := extractAmount(lower)
	if !ok {
		return model.Draft{}, &InputError{Code: CodeNoAmount}
	}

	return model.Draft{
		Kind:          kind,
		Title:         extractTitle(lower, kind),
		Amount:        amount,
		Date:          resolveDate(lower, today).String(),
		PaymentMethod: model.DefaultPaymentMethod,
		Source:        input,
	}, nil
}

func detectKind(lower string) (model.Kind, bool) {
	if containsAny(lower, spendWords) {
		return model.KindExpenses, true
	}
	if containsAny(lower, receiveWords) {
		return model.KindIncome, true
	}
	return "", false
}

// extractAmount returns the first numeric token that is not part of an
// ISO date, with thousands separators removed.
func extractAmount(lower string) (string, bool) {
	masked := isoDateRe.ReplaceAllStringFunc(lower, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
	m := amountRe.FindString(masked)
	if m == "" {
		return "", false
	}
	return strings.ReplaceAll(m, ",", ""), true
}

func resolveDate(lower string, today calendar.Date) calendar.Date {
	for _, rd := range relativeDates {
		if strings.Contains(lower, rd.keyword) {
			return rd.resolve(today)
		}
	}
	if m := isoDateRe.FindString(lower); m != "" {
		if d, err := calendar.Parse(m); err == nil {
			return d
		}
	}
	return today
}

func extractTitle(lower string, kind model.Kind) string {
	if m := titleRe.FindStringSubmatch(lower); m != nil {
		title := dateWordsRe.ReplaceAllString(m[1], " ")
		title = strings.TrimSpace(spacesRe.ReplaceAllString(title, " "))
		if title != "" {
			return titleCase(title)
		}
	}
	for _, dt := range defaultTitles {
		if strings.Contains(lower, dt.keyword) {
			return dt.title
		}
	}
	if kind == model.KindIncome {
		return "General Income"
	}
	return "General Expense"
}

// titleCase upper-cases the first letter of every letter run and lowers
// the rest ("2nd floor rent" -> "2Nd Floor Rent").
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
