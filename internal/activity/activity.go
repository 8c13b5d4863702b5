package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Outcomes recorded for a command.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Entry is one command run in a session.
type Entry struct {
	Timestamp time.Time
	Step      int // ledger step after the command ran
	Command   string
	Outcome   string
	Details   string
	EntryID   string // set when the command posted a transaction
}

// Header is the CSV header for an activity log.
const Header = "timestamp,step,command,outcome,details,entry_id"

const (
	numFields    = 6
	colTimestamp = 0
	colStep      = 1
	colCommand   = 2
	colOutcome   = 3
	colDetails   = 4
	colEntryID   = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colStep] = strconv.Itoa(e.Step)
	row[colCommand] = e.Command
	row[colOutcome] = e.Outcome
	row[colDetails] = e.Details
	row[colEntryID] = e.EntryID
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
	step, err := strconv.Atoi(record[colStep])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing step %q: %w", record[colStep], err)
	}
	switch record[colOutcome] {
	case OutcomeOK, OutcomeError:
	default:
		return Entry{}, fmt.Errorf("unknown outcome %q", record[colOutcome])
	}

	return Entry{
		Timestamp: ts,
		Step:      step,
		Command:   record[colCommand],
		Outcome:   record[colOutcome],
		Details:   record[colDetails],
		EntryID:   record[colEntryID],
	}, nil
}

// Append writes entries to the log at path, creating the file and header if
// needed.
func Append(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log dir: %w", err)
		}
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
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

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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
