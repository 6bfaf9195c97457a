package models_test

import (
	"testing"

	"shift-scheduler/models"

	"github.com/stretchr/testify/assert"
)

func TestWeeklySchedule(t *testing.T) {
	assignments := map[models.Slot][]string{
		{Day: models.Monday, Shift: models.Morning}:  {"Alice", "Bob"},
		{Day: models.Tuesday, Shift: models.Evening}: {"Alice"},
	}
	ws := models.NewWeeklySchedule(assignments, 2)

	// The schedule keeps its own copy of the input.
	assignments[models.Slot{Day: models.Monday, Shift: models.Morning}][0] = "Mallory"

	assert.Equal(t, 21, ws.Len())
	assert.Equal(t, []string{"Alice", "Bob"}, ws.Employees(models.Monday, models.Morning))
	assert.Empty(t, ws.Employees(models.Sunday, models.Afternoon))
	assert.Equal(t, 2, ws.DaysWorked("Alice"))
	assert.Equal(t, 1, ws.DaysWorked("Bob"))
	assert.Equal(t, 0, ws.DaysWorked("Carol"))
	assert.Equal(t, map[string]int{"Alice": 2, "Bob": 1}, ws.Workload())

	shift, ok := ws.ShiftOn("Alice", models.Tuesday)
	assert.True(t, ok)
	assert.Equal(t, models.Evening, shift)

	understaffed := ws.Understaffed()
	assert.Len(t, understaffed, 20)
	assert.Equal(t, models.UnderstaffedSlot{
		Slot:     models.Slot{Day: models.Monday, Shift: models.Afternoon},
		Assigned: 0,
		Required: 2,
	}, understaffed[0])
	assert.False(t, ws.IsUnderstaffed(models.Monday, models.Morning))
	assert.True(t, ws.IsUnderstaffed(models.Tuesday, models.Evening))
}

func TestParseShift(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected models.Shift
		valid    bool
	}{
		"Lower":   {input: "morning", expected: models.Morning, valid: true},
		"Padded":  {input: "  Evening ", expected: models.Evening, valid: true},
		"Upper":   {input: "AFTERNOON", expected: models.Afternoon, valid: true},
		"Unknown": {input: "night", expected: "night", valid: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := models.ParseShift(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestIsPermutation(t *testing.T) {
	m, a, e := models.Morning, models.Afternoon, models.Evening

	tests := map[string]struct {
		order    []models.Shift
		expected bool
	}{
		"Ranking":  {order: []models.Shift{e, m, a}, expected: true},
		"Repeated": {order: []models.Shift{m, m, a}},
		"Short":    {order: []models.Shift{m, a}},
		"Empty":    {order: nil},
		"Unknown":  {order: []models.Shift{m, a, "night"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.IsPermutation(tt.order))
		})
	}
}

func TestAllSlots(t *testing.T) {
	slots := models.AllSlots()

	assert.Len(t, slots, 21)
	assert.Equal(t, models.Slot{Day: models.Monday, Shift: models.Morning}, slots[0])
	assert.Equal(t, models.Slot{Day: models.Monday, Shift: models.Evening}, slots[2])
	assert.Equal(t, models.Slot{Day: models.Sunday, Shift: models.Evening}, slots[20])
	assert.Equal(t, "Day(9)", models.Day(9).String())
}
