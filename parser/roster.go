package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"shift-scheduler/errors"
	"shift-scheduler/metrics"
	"shift-scheduler/models"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// rawEmployee is one roster entry before validation.
type rawEmployee struct {
	Name        string   `mapstructure:"name"`
	Preferences []string `mapstructure:"preferences"`
	Priority    []string `mapstructure:"priority"`
}

// record flattens the entry for error reporting.
func (e rawEmployee) record() []string {
	return append(append([]string{e.Name}, e.Preferences...), e.Priority...)
}

type rawRoster struct {
	Employees []rawEmployee `mapstructure:"employees"`
}

// ParseYAML reads a roster document of the form
//
//	employees:
//	  - name: Alice
//	    preferences: [morning, morning, morning, morning, morning, morning, morning]
//	    priority: [morning, afternoon, evening]
func ParseYAML(r io.Reader) (models.Roster, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return models.Roster{}, fmt.Errorf("error reading YAML: %w", err)
	}
	return decodeRoster(doc)
}

// ParseJSON reads a roster document with the same shape as ParseYAML.
func ParseJSON(r io.Reader) (models.Roster, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return models.Roster{}, fmt.Errorf("error reading JSON: %w", err)
	}
	return decodeRoster(doc)
}

func decodeRoster(doc map[string]any) (models.Roster, error) {
	var raw rawRoster
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return models.Roster{}, err
	}
	if err := decoder.Decode(doc); err != nil {
		return models.Roster{}, fmt.Errorf("error decoding roster: %w", err)
	}

	b := newRosterBuilder()
	for i, entry := range raw.Employees {
		if err := b.add(entry); err != nil {
			return models.Roster{}, parseFailure(i+1, entry.record(), err)
		}
	}
	return b.roster, nil
}

// rosterBuilder validates entries and accumulates them into a Roster.
type rosterBuilder struct {
	roster models.Roster
}

func newRosterBuilder() *rosterBuilder {
	return &rosterBuilder{
		roster: models.Roster{
			Preferences:    make(models.Preferences),
			PriorityOrders: make(models.PriorityOrders),
		},
	}
}

func (b *rosterBuilder) add(entry rawEmployee) error {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return errors.ErrEmptyName
	}
	if _, exists := b.roster.Preferences[name]; exists {
		return fmt.Errorf("%w: %q", errors.ErrDuplicateEmployee, name)
	}
	if len(entry.Preferences) != models.DaysPerWeek {
		return fmt.Errorf("%w: got %d, want %d", errors.ErrInvalidPreferences, len(entry.Preferences), models.DaysPerWeek)
	}

	days := make(map[models.Day]models.Shift, models.DaysPerWeek)
	for i, label := range entry.Preferences {
		shift, ok := models.ParseShift(label)
		if !ok {
			return fmt.Errorf("%w: %q on %s", errors.ErrUnknownShift, strings.TrimSpace(label), models.Day(i))
		}
		days[models.Day(i)] = shift
	}

	if len(entry.Priority) > 0 {
		order, err := parsePriority(entry.Priority)
		if err != nil {
			return err
		}
		b.roster.PriorityOrders[name] = order
	}

	b.roster.Preferences[name] = days
	metrics.ParserRecordsTotal.Inc()
	return nil
}

// parsePriority requires a permutation of the three shifts.
func parsePriority(labels []string) ([]models.Shift, error) {
	if len(labels) != len(models.Shifts) {
		return nil, fmt.Errorf("%w: got %d shifts, want %d", errors.ErrInvalidPriority, len(labels), len(models.Shifts))
	}
	order := make([]models.Shift, 0, len(labels))
	for _, label := range labels {
		shift, ok := models.ParseShift(label)
		if !ok {
			return nil, fmt.Errorf("%w: unknown shift %q", errors.ErrInvalidPriority, strings.TrimSpace(label))
		}
		order = append(order, shift)
	}
	if !models.IsPermutation(order) {
		return nil, fmt.Errorf("%w: %v repeats a shift", errors.ErrInvalidPriority, order)
	}
	return order, nil
}
