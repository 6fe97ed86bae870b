// Package audit appends one CSV row per successful ledger mutation. The log
// is a trace, not a system of record: the snapshot file is authoritative.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp time.Time
	AccountID uuid.UUID
	Action    string
	Detail    string
}

// Header is the CSV header for the audit log.
const Header = "timestamp,account_id,action,detail"

const (
	numFields    = 4
	colTimestamp = 0
	colAccountID = 1
	colAction    = 2
	colDetail    = 3
)

// Log appends entries to a CSV file, creating it with a header on first use.
type Log struct {
	path string
}

// NewLog creates a Log writing to path.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one entry.
func (l *Log) Append(e Entry) error {
	needsHeader := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return cw.Error()
}

// Read returns all entries. A missing file yields an empty slice.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit CSV: %w", err)
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

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAccountID] = e.AccountID.String()
	row[colAction] = e.Action
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

	id, err := uuid.Parse(record[colAccountID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing account ID %q: %w", record[colAccountID], err)
	}

	return Entry{
		Timestamp: ts,
		AccountID: id,
		Action:    record[colAction],
		Detail:    record[colDetail],
	}, nil
}
