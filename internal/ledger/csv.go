package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// Header is the CSV header of every ledger file.
const Header = "id,user,title,amount,tag,type,date,payment_method,description"

const (
	numFields  = 9
	colID      = 0
	colUser    = 1
	colTitle   = 2
	colAmount  = 3
	colTag     = 4
	colType    = 5
	colDate    = 6
	colPayment = 7
	colDesc    = 8
)

// ReadEntries reads all rows of a ledger file. Rows are not parsed beyond
// splitting columns; bad amounts or dates surface at aggregation time.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	entries := make([]model.Entry, 0, len(records)-1)
	for _, rec := range records[1:] {
		entries = append(entries, UnmarshalEntry(rec))
	}
	return entries, nil
}

// WriteEntries writes a header and the given entries.
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendEntries writes entries without a header.
func AppendEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colID] = e.ID
	row[colUser] = e.User
	row[colTitle] = e.Title
	row[colAmount] = string(e.Amount)
	row[colTag] = e.Tag
	row[colType] = e.Type
	row[colDate] = string(e.Date)
	row[colPayment] = e.PaymentMethod
	row[colDesc] = e.Description
	return row
}

// UnmarshalEntry converts a CSV row to an Entry. The caller guarantees
// numFields columns.
func UnmarshalEntry(record []string) model.Entry {
	return model.Entry{
		ID:            record[colID],
		User:          record[colUser],
		Title:         record[colTitle],
		Amount:        model.FlexString(record[colAmount]),
		Tag:           record[colTag],
		Type:          record[colType],
		Date:          model.FlexString(record[colDate]),
		PaymentMethod: record[colPayment],
		Description:   record[colDesc],
	}
}
