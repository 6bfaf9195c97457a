package scheduler

import (
	"shift-scheduler/models"

	"github.com/samber/lo"
)

// state is the working set of one Build call.
type state struct {
	prefs      models.Preferences
	priorities models.PriorityOrders
	limits     models.Limits

	// employees is the shuffled scheduling order.
	employees     []string
	slots         map[models.Slot][]string
	daysWorked    map[string]int
	assignedToday [models.DaysPerWeek]map[string]bool
	placements    map[string]int
}

func newState(roster models.Roster, limits models.Limits, employees []string) *state {
	st := &state{
		prefs:      roster.Preferences,
		priorities: roster.PriorityOrders,
		limits:     limits,
		employees:  employees,
		slots:      make(map[models.Slot][]string),
		daysWorked: make(map[string]int, len(employees)),
		placements: make(map[string]int),
	}
	for d := range st.assignedToday {
		st.assignedToday[d] = make(map[string]bool)
	}
	return st
}

// canAssign reports whether name is free on day and under the day cap.
func (st *state) canAssign(name string, day models.Day) bool {
	return !st.assignedToday[day][name] && st.daysWorked[name] < st.limits.MaxDaysPerEmployee
}

func (st *state) assign(name string, slot models.Slot, phase string) {
	st.slots[slot] = append(st.slots[slot], name)
	st.assignedToday[slot.Day][name] = true
	st.daysWorked[name]++
	st.placements[phase]++
}

// placeOnPreferredDay scans the week from the employee's offset and places
// them on the first free day where either the preferred slot has room or a
// fallback shift accepts them.
func (st *state) placeOnPreferredDay(index int, name string) bool {
	for offset := range models.DaysPerWeek {
		day := models.Day((index + offset) % models.DaysPerWeek)
		if !st.canAssign(name, day) {
			continue
		}

		preferred := st.prefs[name][day]
		slot := models.Slot{Day: day, Shift: preferred}
		if len(st.slots[slot]) < st.limits.PreferredShiftCap {
			st.assign(name, slot, phasePreference)
			return true
		}

		// Fallback shifts share the day-cap and free-today checks but not
		// the preferred-slot cap.
		for _, shift := range st.fallbackOrder(name, preferred) {
			if shift == preferred || !st.canAssign(name, day) {
				continue
			}
			st.assign(name, models.Slot{Day: day, Shift: shift}, phaseFallback)
			return true
		}
	}
	return false
}

// fallbackOrder returns the employee's priority order, or the preferred
// shift followed by the others in enumeration order.
func (st *state) fallbackOrder(name string, preferred models.Shift) []models.Shift {
	if order := st.priorities[name]; len(order) > 0 {
		return order
	}
	return append([]models.Shift{preferred}, lo.Without(models.Shifts, preferred)...)
}
