// Package ledger validates drafts into records and keeps them in per-owner
// CSV files.
package ledger

import (
	"fmt"
	"strings"

	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/categorize"
	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/money"
	"github.com/tally-dev/tally/internal/session"
)

// Code names the rule a draft broke.
type Code string

const (
	CodeInvalidKind       Code = "invalid_kind"
	CodeMissingField      Code = "missing_field"
	CodeInvalidAmount     Code = "invalid_amount"
	CodeNonPositiveAmount Code = "non_positive_amount"
	CodeInvalidDate       Code = "invalid_date"
	CodeFutureDate        Code = "future_date"
)

var messages = map[Code]string{
	CodeInvalidKind:       "❌ 'transaction_type' must be 'expenses' or 'income'.",
	CodeMissingField:      "❌ Missing required fields.",
	CodeInvalidAmount:     "❌ Amount must be a valid number.",
	CodeNonPositiveAmount: "❌ Amount must be a positive number.",
	CodeInvalidDate:       "❌ Invalid date format. Use YYYY-MM-DD.",
	CodeFutureDate:        "❌ Date cannot be in the future.",
}

// ValidationError describes the first rule a draft violated.
type ValidationError struct {
	Code        Code
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Code, e.Field, e.Description)
}

// Message is the user-facing text for the violation.
func (e ValidationError) Message() string {
	return messages[e.Code]
}

// Classifier tags a title.
type Classifier interface {
	Classify(title string) categorize.Result
}

// Validator turns drafts into records.
type Validator struct {
	classifier Classifier
	ids        id.Generator
}

// NewValidator creates a Validator. Nil arguments select the default
// classifier and UUID ids.
func NewValidator(classifier Classifier, ids id.Generator) *Validator {
	if classifier == nil {
		classifier = categorize.Default()
	}
	if ids == nil {
		ids = id.UUID{}
	}
	return &Validator{classifier: classifier, ids: ids}
}

// Validate checks, in order: kind, presence of title/amount/date, amount is
// a positive number, date is ISO and not after the session's today. An
// absent or unknown tag is replaced by classifying the title.
func (v *Validator) Validate(d model.Draft, sess session.Session) (model.Record, error) {
	if !d.Kind.Valid() {
		return model.Record{}, ValidationError{Code: CodeInvalidKind, Field: "kind", Description: fmt.Sprintf("unknown kind %q", d.Kind)}
	}

	title := strings.TrimSpace(d.Title)
	for _, f := range []struct{ name, value string }{
		{"title", title},
		{"amount", d.Amount},
		{"date", d.Date},
	} {
		if strings.TrimSpace(f.value) == "" {
			return model.Record{}, ValidationError{Code: CodeMissingField, Field: f.name, Description: "required"}
		}
	}

	amount, err := money.Parse(d.Amount)
	if err != nil {
		return model.Record{}, ValidationError{Code: CodeInvalidAmount, Field: "amount", Description: err.Error()}
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return model.Record{}, ValidationError{Code: CodeNonPositiveAmount, Field: "amount", Description: fmt.Sprintf("%s is not positive", amount.StringFixed(2))}
	}

	date, err := calendar.Parse(strings.TrimSpace(d.Date))
	if err != nil {
		return model.Record{}, ValidationError{Code: CodeInvalidDate, Field: "date", Description: err.Error()}
	}
	today := sess.Today()
	if date.After(today) {
		return model.Record{}, ValidationError{Code: CodeFutureDate, Field: "date", Description: fmt.Sprintf("%s is after %s", date, today)}
	}

	tag, ok := model.ParseTag(d.Tag)
	if !ok {
		tag = v.classifier.Classify(title).Tag
		if !tag.Valid() {
			tag = model.TagOthers
		}
	}

	payment := strings.TrimSpace(d.PaymentMethod)
	if payment == "" {
		payment = model.DefaultPaymentMethod
	}

	return model.Record{
		ID:            v.ids.NewID(),
		Owner:         sess.UserID,
		Title:         title,
		Amount:        amount,
		Tag:           tag,
		Kind:          d.Kind,
		Date:          date,
		PaymentMethod: payment,
		Description:   d.Description,
	}, nil
}
