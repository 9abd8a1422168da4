package table

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/notegrid/model"
	"github.com/pkg/errors"
)

const (
	NoteColumn       = "note"
	StartTimeColumn  = "start_time"
	EndTimeColumn    = "end_time"
	StartBeatColumn  = "start_beat"
	EndBeatColumn    = "end_beat"
	InstrumentColumn = "instrument"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrBadCell       = errors.New("invalid cell value")
)

// IsInputError reports whether err comes from a malformed or unreadable table.
func IsInputError(err error) bool {
	cause := errors.Cause(err)
	return cause == ErrMissingColumn || cause == ErrBadCell || isReadError(cause)
}

type readError struct{ error }

func isReadError(err error) bool {
	_, ok := err.(readError)
	return ok
}

func ReadFile(path string, maxRows int) (model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Table{}, errors.WithStack(readError{err})
	}
	defer f.Close()
	return Read(f, maxRows)
}

// Read parses a CSV note table. Rows are stable sorted by start_time when
// that column exists and then cut down to maxRows (0 keeps everything).
func Read(r io.Reader, maxRows int) (model.Table, error) {
	var t model.Table
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return t, errors.Wrap(ErrMissingColumn, NoteColumn)
	}
	if err != nil {
		return t, errors.WithStack(readError{err})
	}

	index := make(map[string]int)
	t.Columns = make(map[string]bool)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
		t.Columns[name] = true
	}

	if err := checkColumns(t); err != nil {
		return t, err
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return t, errors.WithStack(readError{err})
		}
		line++
		row, err := parseRow(t, index, record, line)
		if err != nil {
			return t, err
		}
		t.Rows = append(t.Rows, row)
	}

	if t.Has(StartTimeColumn) {
		sort.SliceStable(t.Rows, func(i, j int) bool {
			return t.Rows[i].StartTime < t.Rows[j].StartTime
		})
	}
	if maxRows > 0 && len(t.Rows) > maxRows {
		t.Rows = t.Rows[:maxRows]
	}
	return t, nil
}

func checkColumns(t model.Table) error {
	if !t.Has(NoteColumn) {
		return errors.Wrap(ErrMissingColumn, NoteColumn)
	}
	if t.Has(StartBeatColumn) && t.Has(EndBeatColumn) {
		return nil
	}
	for _, c := range []string{StartTimeColumn, EndTimeColumn} {
		if !t.Has(c) {
			return errors.Wrap(ErrMissingColumn, c)
		}
	}
	return nil
}

func parseRow(t model.Table, index map[string]int, record []string, line int) (model.Row, error) {
	var row model.Row
	cell := func(column string) (string, bool) {
		i, ok := index[column]
		if !ok {
			return "", false
		}
		if i >= len(record) {
			return "", true
		}
		return strings.TrimSpace(record[i]), true
	}
	number := func(column string, dst *float64) error {
		value, ok := cell(column)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Wrapf(ErrBadCell, "line %d, column %v: %q", line, column, value)
		}
		*dst = f
		return nil
	}

	var note float64
	if err := number(NoteColumn, &note); err != nil {
		return row, err
	}
	row.Note = int(note)

	beats := t.Has(StartBeatColumn) && t.Has(EndBeatColumn)
	if beats {
		if err := number(StartBeatColumn, &row.StartBeat); err != nil {
			return row, err
		}
		if err := number(EndBeatColumn, &row.EndBeat); err != nil {
			return row, err
		}
	}
	// start_time is also read in beat mode since rows are ordered by it
	if err := number(StartTimeColumn, &row.StartTime); err != nil {
		return row, err
	}
	if !beats {
		if err := number(EndTimeColumn, &row.EndTime); err != nil {
			return row, err
		}
	}

	switch {
	case row.StartTime < 0:
		return row, errors.Wrapf(ErrBadCell, "line %d, column %v: negative onset %v", line, StartTimeColumn, row.StartTime)
	case beats && row.StartBeat < 0:
		return row, errors.Wrapf(ErrBadCell, "line %d, column %v: negative onset %v", line, StartBeatColumn, row.StartBeat)
	case beats && row.EndBeat <= 0:
		return row, errors.Wrapf(ErrBadCell, "line %d, column %v: duration must be positive, got %v", line, EndBeatColumn, row.EndBeat)
	}

	if value, ok := cell(InstrumentColumn); ok {
		row.Instrument = value
	}
	return row, nil
}
