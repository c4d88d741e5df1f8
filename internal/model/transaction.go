package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/calendar"
)

// Kind is the direction of a transaction.
type Kind string

const (
	KindIncome   Kind = "income"
	KindExpenses Kind = "expenses"
)

// ParseKind accepts "income"/"incomes" and "expense"/"expenses" in any case.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "incomes":
		return KindIncome, true
	case "expense", "expenses":
		return KindExpenses, true
	}
	return "", false
}

// Valid reports whether k is one of the two kinds.
func (k Kind) Valid() bool { return k == KindIncome || k == KindExpenses }

// Label is the capitalized form used in payloads and messages ("Income", "Expenses").
func (k Kind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// DefaultPaymentMethod is recorded when the caller gives none.
const DefaultPaymentMethod = "Not specified"

// Draft is an unvalidated transaction candidate.
type Draft struct {
	Kind          Kind
	Title         string
	Amount        string // raw, validated later
	Date          string // raw "YYYY-MM-DD", validated later
	Tag           string // optional, may be outside the tag set
	PaymentMethod string
	Description   string
	Source        string // original input text
	Structured    bool   // came from a JSON object rather than free text
}

// Record is a validated transaction. Records are never mutated after creation.
type Record struct {
	ID            string
	Owner         string
	Title         string
	Amount        decimal.Decimal
	Tag           Tag
	Kind          Kind
	Date          calendar.Date
	PaymentMethod string
	Description   string
}

// Entry renders the record in its persisted wire shape.
func (r Record) Entry() Entry {
	return Entry{
		ID:            r.ID,
		User:          r.Owner,
		Title:         r.Title,
		Amount:        FlexString(r.Amount.StringFixed(2)),
		Tag:           string(r.Tag),
		Type:          r.Kind.Label(),
		Date:          FlexString(r.Date.String()),
		PaymentMethod: r.PaymentMethod,
		Description:   r.Description,
	}
}
