package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/calendar"
)

// Entry is a record as persisted or returned by a store. Amount and Date
// stay raw so aggregation can skip rows that do not parse.
type Entry struct {
	ID            string     `json:"Id"`
	User          string     `json:"User"`
	Title         string     `json:"Title"`
	Amount        FlexString `json:"Amount"`
	Tag           string     `json:"Tag"`
	Type          string     `json:"Type"`
	Date          FlexString `json:"Date"`
	PaymentMethod string     `json:"Paymentmethod"`
	Description   string     `json:"Description"`
}

// Record parses the entry. Unknown tags are kept verbatim; known tags are
// canonicalized.
func (e Entry) Record() (Record, error) {
	raw := strings.TrimSpace(string(e.Amount))
	if raw == "" {
		return Record{}, fmt.Errorf("entry %q: missing amount", e.ID)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Record{}, fmt.Errorf("entry %q: parsing amount %q: %w", e.ID, raw, err)
	}
	ds := strings.TrimSpace(string(e.Date))
	if ds == "" {
		return Record{}, fmt.Errorf("entry %q: missing date", e.ID)
	}
	date, err := calendar.Parse(ds)
	if err != nil {
		return Record{}, fmt.Errorf("entry %q: %w", e.ID, err)
	}

	tag := Tag(strings.TrimSpace(e.Tag))
	if t, ok := ParseTag(e.Tag); ok {
		tag = t
	}
	kind, _ := ParseKind(e.Type)

	return Record{
		ID:            e.ID,
		Owner:         e.User,
		Title:         e.Title,
		Amount:        amount,
		Tag:           tag,
		Kind:          kind,
		Date:          date,
		PaymentMethod: e.PaymentMethod,
		Description:   e.Description,
	}, nil
}

// FlexString decodes from a JSON string, number or null.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = FlexString(n.String())
	return nil
}
