// Package activity keeps a CSV audit trail of assistant operations.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	User      string
	Operation string
	Status    string
	Code      string
	Detail    string
}

// Header is the CSV header for the activity log.
const Header = "timestamp,user,operation,status,code,detail"

const (
	numFields    = 6
	colTimestamp = 0
	colUser      = 1
	colOperation = 2
	colStatus    = 3
	colCode      = 4
	colDetail    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colUser] = e.User
	row[colOperation] = e.Operation
	row[colStatus] = e.Status
	row[colCode] = e.Code
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		User:      record[colUser],
		Operation: record[colOperation],
		Status:    record[colStatus],
		Code:      record[colCode],
		Detail:    record[colDetail],
	}, nil
}

// Log appends entries to a single CSV file. Safe for concurrent use.
type Log struct {
	path string
	mu   sync.Mutex
}

// Open returns a Log writing to path. The file is created on first append.
func Open(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// Append writes entries, creating the file and header if needed.
func (l *Log) Append(entries ...Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating activity log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries. A missing file yields no entries.
func (l *Log) Read() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
