package parser

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shift-scheduler/errors"
	"shift-scheduler/metrics"
	"shift-scheduler/models"
)

const (
	fieldsWithoutPriority = 1 + models.DaysPerWeek
	fieldsWithPriority    = fieldsWithoutPriority + 3
)

// ParseFile reads a roster file, choosing the decoder from its extension:
// .csv, .yaml/.yml or .json.
func ParseFile(path string) (models.Roster, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Roster{}, fmt.Errorf("error opening roster: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return Parse(file)
	case ".yaml", ".yml":
		return ParseYAML(file)
	case ".json":
		return ParseJSON(file)
	default:
		return models.Roster{}, fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Parse reads a CSV roster from the reader.
// Lines starting with '#' are headers/comments.
// Each record is a name followed by the preferred shift for Monday through
// Sunday, optionally followed by three shifts giving the employee's
// priority order (most preferred first). Shift labels are case-insensitive.
//
//	# Name, Mon, Tue, Wed, Thu, Fri, Sat, Sun, First, Second, Third
//	Alice, morning, morning, morning, morning, morning, morning, morning, morning, afternoon, evening
//	Bob, afternoon, afternoon, evening, afternoon, afternoon, morning, afternoon
func Parse(r io.Reader) (models.Roster, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	b := newRosterBuilder()
	lineNum := 0

	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Roster{}, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}

		// Handle headers/comments
		if len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			continue
		}

		if len(record) != fieldsWithoutPriority && len(record) != fieldsWithPriority {
			return models.Roster{}, parseFailure(lineNum, record, errors.ErrInvalidFieldCount)
		}

		entry := rawEmployee{
			Name:        record[0],
			Preferences: record[1:fieldsWithoutPriority],
		}
		if len(record) == fieldsWithPriority {
			entry.Priority = record[fieldsWithoutPriority:]
		}

		if err := b.add(entry); err != nil {
			return models.Roster{}, parseFailure(lineNum, record, err)
		}
	}

	return b.roster, nil
}

// parseFailure counts the error and wraps it with its location.
func parseFailure(line int, record []string, err error) error {
	metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
	return &errors.ParseError{
		Line:   line,
		Record: record,
		Err:    err,
	}
}

func errorType(err error) string {
	for _, known := range []struct {
		err  error
		name string
	}{
		{errors.ErrInvalidFieldCount, "field_count"},
		{errors.ErrEmptyName, "empty_name"},
		{errors.ErrUnknownShift, "unknown_shift"},
		{errors.ErrInvalidPriority, "priority"},
		{errors.ErrDuplicateEmployee, "duplicate"},
		{errors.ErrInvalidPreferences, "preference_count"},
	} {
		if stderrors.Is(err, known.err) {
			return known.name
		}
	}
	return "other"
}
