package models

import "slices"

// WeeklySchedule is the output of a scheduling run: every slot of the week
// mapped to the employees working it, in placement order. It is not
// modified after construction.
type WeeklySchedule struct {
	slots        map[Slot][]string
	minPerShift  int
	understaffed []UnderstaffedSlot
}

// NewWeeklySchedule builds a schedule from the given assignments. Slots
// missing from assignments are present and empty. The staffing report is
// computed against minPerShift.
func NewWeeklySchedule(assignments map[Slot][]string, minPerShift int) *WeeklySchedule {
	ws := &WeeklySchedule{
		slots:       make(map[Slot][]string, DaysPerWeek*len(Shifts)),
		minPerShift: minPerShift,
	}
	for _, slot := range AllSlots() {
		ws.slots[slot] = slices.Clone(assignments[slot])
		if n := len(ws.slots[slot]); n < minPerShift {
			ws.understaffed = append(ws.understaffed, UnderstaffedSlot{
				Slot:     slot,
				Assigned: n,
				Required: minPerShift,
			})
		}
	}
	return ws
}

// Employees returns a copy of the names assigned to the given shift.
func (ws *WeeklySchedule) Employees(day Day, shift Shift) []string {
	return slices.Clone(ws.slots[Slot{Day: day, Shift: shift}])
}

// Slots returns every slot with its assignees, keyed by slot.
func (ws *WeeklySchedule) Slots() map[Slot][]string {
	out := make(map[Slot][]string, len(ws.slots))
	for slot, names := range ws.slots {
		out[slot] = slices.Clone(names)
	}
	return out
}

// Len returns the number of slots, always 21.
func (ws *WeeklySchedule) Len() int {
	return len(ws.slots)
}

// MinPerShift returns the staffing floor the report was computed against.
func (ws *WeeklySchedule) MinPerShift() int {
	return ws.minPerShift
}

// Understaffed returns the slots below the staffing floor in day-then-shift order.
func (ws *WeeklySchedule) Understaffed() []UnderstaffedSlot {
	return slices.Clone(ws.understaffed)
}

// IsUnderstaffed reports whether the slot is below the staffing floor.
func (ws *WeeklySchedule) IsUnderstaffed(day Day, shift Shift) bool {
	return len(ws.slots[Slot{Day: day, Shift: shift}]) < ws.minPerShift
}

// DaysWorked returns the number of distinct days the employee works.
func (ws *WeeklySchedule) DaysWorked(name string) int {
	days := 0
	for _, d := range Days {
		if _, ok := ws.ShiftOn(name, d); ok {
			days++
		}
	}
	return days
}

// ShiftOn returns the shift the employee works on day, if any.
func (ws *WeeklySchedule) ShiftOn(name string, day Day) (Shift, bool) {
	for _, s := range Shifts {
		if slices.Contains(ws.slots[Slot{Day: day, Shift: s}], name) {
			return s, true
		}
	}
	return "", false
}

// Workload returns days worked per scheduled employee.
func (ws *WeeklySchedule) Workload() map[string]int {
	load := make(map[string]int)
	for _, slot := range AllSlots() {
		for _, name := range ws.slots[slot] {
			load[name]++
		}
	}
	return load
}
