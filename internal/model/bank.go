package model

import (
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/calendar"
)

// BankTransaction represents a parsed bank CSV row.
type BankTransaction struct {
	Date        calendar.Date
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}

// Kind derives the transaction direction from the amount sign.
func (b BankTransaction) Kind() Kind {
	if b.Amount.IsNegative() {
		return KindExpenses
	}
	return KindIncome
}

// Draft turns the bank row into an untagged draft for validation.
func (b BankTransaction) Draft() Draft {
	return Draft{
		Kind:          b.Kind(),
		Title:         b.Description,
		Amount:        b.Amount.Abs().String(),
		Date:          b.Date.String(),
		PaymentMethod: b.Type,
		Description:   b.Reference,
		Source:        b.Description,
	}
}
