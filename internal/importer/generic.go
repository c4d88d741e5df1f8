package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/money"
)

// GenericParser reads CSVs with a named header. The date, description and
// amount columns are required; type and reference are optional. Dates are
// YYYY-MM-DD and negative amounts are expenses.
type GenericParser struct{}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads the CSV and returns BankTransactions.
func (p *GenericParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "description", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("generic CSV header missing %q column", required)
		}
	}
	cr.FieldsPerRecord = len(header)

	field := func(rec []string, name string) string {
		if i, ok := cols[name]; ok {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var txns []model.BankTransaction
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading generic CSV: %w", err)
		}

		date, err := calendar.Parse(field(rec, "date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date: %w", row, err)
		}
		amount, err := money.Parse(field(rec, "amount"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		desc := field(rec, "description")
		ref := field(rec, "reference")
		if ref == "" {
			ref = makeRef("generic", date, desc)
		}
		txns = append(txns, model.BankTransaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Reference:   ref,
			Type:        field(rec, "type"),
		})
	}
	return txns, nil
}
