package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Day is a day of the scheduling week, Monday (0) through Sunday (6).
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the length of the scheduling week.
const DaysPerWeek = 7

// Days lists the week in order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Day) String() string {
	if d < 0 || int(d) >= DaysPerWeek {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Shift is one of the three fixed shifts of a day.
type Shift string

const (
	Morning   Shift = "morning"
	Afternoon Shift = "afternoon"
	Evening   Shift = "evening"
)

// Shifts lists the shifts in enumeration order.
var Shifts = []Shift{Morning, Afternoon, Evening}

// Valid reports whether s is one of the known shifts.
func (s Shift) Valid() bool {
	return slices.Contains(Shifts, s)
}

// Title returns the shift label with a leading capital, e.g. "Morning".
func (s Shift) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseShift normalizes a user supplied label ("  Morning ") into a Shift.
func ParseShift(label string) (Shift, bool) {
	s := Shift(strings.ToLower(strings.TrimSpace(label)))
	return s, s.Valid()
}

// Preferences maps an employee name to their preferred shift for each day.
type Preferences map[string]map[Day]Shift

// PriorityOrders maps an employee name to their fallback ranking of shifts,
// most preferred first.
type PriorityOrders map[string][]Shift

// IsPermutation reports whether order names each shift exactly once.
func IsPermutation(order []Shift) bool {
	return len(order) == len(Shifts) && lo.Every(order, Shifts)
}

// Roster is the complete scheduling input for one run.
type Roster struct {
	Preferences    Preferences
	PriorityOrders PriorityOrders
}

// Employees returns the roster's employee names in sorted order.
func (r Roster) Employees() []string {
	names := make([]string, 0, len(r.Preferences))
	for name := range r.Preferences {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Limits holds the staffing rules applied by the scheduler.
type Limits struct {
	// MinPerShift is the staffing floor the backfill phase tries to reach.
	MinPerShift int `validate:"gte=0"`
	// MaxDaysPerEmployee caps how many days one employee may work.
	MaxDaysPerEmployee int `validate:"gte=1,lte=7"`
	// AssignmentPasses is the number of preference rounds.
	AssignmentPasses int `validate:"gte=0"`
	// PreferredShiftCap bounds how many employees a preferred placement may
	// join during the preference rounds.
	PreferredShiftCap int `validate:"gte=1"`
}

// DefaultLimits returns the standard weekly staffing rules.
func DefaultLimits() Limits {
	return Limits{
		MinPerShift:        2,
		MaxDaysPerEmployee: 5,
		AssignmentPasses:   3,
		PreferredShiftCap:  3,
	}
}

// Slot identifies one shift on one day.
type Slot struct {
	Day   Day
	Shift Shift
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s", s.Day, s.Shift)
}

// AllSlots returns the 21 slots of the week in day-then-shift order.
func AllSlots() []Slot {
	slots := make([]Slot, 0, DaysPerWeek*len(Shifts))
	for _, d := range Days {
		for _, s := range Shifts {
			slots = append(slots, Slot{Day: d, Shift: s})
		}
	}
	return slots
}

// UnderstaffedSlot tracks a slot that ended below the staffing floor.
type UnderstaffedSlot struct {
	Slot     Slot
	Assigned int
	Required int
}

// Run is one persisted scheduling run.
type Run struct {
	ID        string
	Seed      uint64
	CreatedAt time.Time
	Schedule  *WeeklySchedule
}

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	ID           string
	Seed         uint64
	CreatedAt    time.Time
	Employees    int
	Understaffed int
}
