package normalize

import "fmt"

// Code identifies why input could not be turned into a draft.
type Code string

const (
	CodeTooLong  Code = "too_long"
	CodeBadKind  Code = "invalid_transaction_type"
	CodeNoKind   Code = "no_kind"
	CodeNoAmount Code = "no_amount"
)

var messages = map[Code]string{
	CodeTooLong:  "❌ Input too long. Please shorten the message.",
	CodeBadKind:  "❌ 'transaction_type' must be 'expenses' or 'income'.",
	CodeNoKind:   "❌ Could not determine transaction_type. Use 'spent' or 'received'.",
	CodeNoAmount: "❌ Could not detect amount. Please include a number.",
}

// InputError means the text was unparseable or ambiguous.
type InputError struct {
	Code   Code
	Detail string
}

func (e *InputError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("input error: %s", e.Code)
	}
	return fmt.Sprintf("input error: %s: %s", e.Code, e.Detail)
}

// Message is the user-facing text for the error.
func (e *InputError) Message() string {
	return messages[e.Code]
}
