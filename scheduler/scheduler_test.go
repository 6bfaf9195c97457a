package scheduler_test

import (
	"errors"
	"fmt"
	"testing"

	"shift-scheduler/demo"
	customerrors "shift-scheduler/errors"
	"shift-scheduler/models"
	"shift-scheduler/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sameEveryDay builds a preference map with one shift for the whole week.
func sameEveryDay(shift models.Shift) map[models.Day]models.Shift {
	days := make(map[models.Day]models.Shift, models.DaysPerWeek)
	for _, d := range models.Days {
		days[d] = shift
	}
	return days
}

// assertInvariants checks the day cap, single shift per day and completeness.
func assertInvariants(t *testing.T, ws *models.WeeklySchedule, limits models.Limits) {
	t.Helper()

	assert.Equal(t, 21, ws.Len(), "schedule must contain every slot")

	perDay := make(map[models.Day]map[string]int)
	days := make(map[string]map[models.Day]bool)
	for slot, names := range ws.Slots() {
		if perDay[slot.Day] == nil {
			perDay[slot.Day] = make(map[string]int)
		}
		for _, name := range names {
			perDay[slot.Day][name]++
			if days[name] == nil {
				days[name] = make(map[models.Day]bool)
			}
			days[name][slot.Day] = true
		}
	}

	for day, counts := range perDay {
		for name, n := range counts {
			assert.Equal(t, 1, n, fmt.Sprintf("%s double-booked on %s", name, day))
		}
	}
	for name, worked := range days {
		assert.LessOrEqual(t, len(worked), limits.MaxDaysPerEmployee, fmt.Sprintf("%s exceeds the day cap", name))
	}
}

func TestBuild_Scenarios(t *testing.T) {
	tests := map[string]struct {
		roster           models.Roster
		minUnderstaffed  int
		maxUnderstaffed  int
		expectedWorkload map[string]int
	}{
		"EmptyRoster": {
			roster:           models.Roster{Preferences: models.Preferences{}},
			minUnderstaffed:  21,
			maxUnderstaffed:  21,
			expectedWorkload: map[string]int{},
		},
		"ThreeEmployees_OneShiftEach": {
			roster: models.Roster{
				Preferences: models.Preferences{
					"Alice": sameEveryDay(models.Morning),
					"Bob":   sameEveryDay(models.Afternoon),
					"Carol": sameEveryDay(models.Evening),
				},
			},
			// 15 placements can lift at most 7 slots to two employees.
			minUnderstaffed:  14,
			maxUnderstaffed:  21,
			expectedWorkload: map[string]int{"Alice": 5, "Bob": 5, "Carol": 5},
		},
		"SampleRoster": {
			roster:          demo.Roster(),
			minUnderstaffed: 0,
			maxUnderstaffed: 21,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for seed := range uint64(20) {
				ws, err := scheduler.Build(tt.roster.Preferences, tt.roster.PriorityOrders, scheduler.NewSource(seed))
				require.NoError(t, err)

				assertInvariants(t, ws, models.DefaultLimits())
				assert.GreaterOrEqual(t, len(ws.Understaffed()), tt.minUnderstaffed)
				assert.LessOrEqual(t, len(ws.Understaffed()), tt.maxUnderstaffed)
				if tt.expectedWorkload != nil {
					assert.Equal(t, tt.expectedWorkload, ws.Workload())
				}
			}
		})
	}
}

func TestBuild_PreferredShiftHonoredFirst(t *testing.T) {
	prefs := models.Preferences{
		"Alice": sameEveryDay(models.Morning),
		"Bob":   sameEveryDay(models.Afternoon),
		"Carol": sameEveryDay(models.Evening),
	}

	ws, err := scheduler.Build(prefs, nil, scheduler.NewSource(7))
	require.NoError(t, err)

	for name, shift := range map[string]models.Shift{"Alice": models.Morning, "Bob": models.Afternoon, "Carol": models.Evening} {
		onPreferred := 0
		for _, d := range models.Days {
			if s, ok := ws.ShiftOn(name, d); ok && s == shift {
				onPreferred++
			}
		}
		assert.GreaterOrEqual(t, onPreferred, 3, fmt.Sprintf("%s should get every preference round", name))
	}
}

func TestBuild_MinimumStaffingWithLargeRoster(t *testing.T) {
	prefs := make(models.Preferences)
	for i := range 42 {
		prefs[fmt.Sprintf("emp%02d", i)] = sameEveryDay(models.Shifts[i%len(models.Shifts)])
	}

	for seed := range uint64(10) {
		ws, err := scheduler.Build(prefs, nil, scheduler.NewSource(seed))
		require.NoError(t, err)

		assertInvariants(t, ws, models.DefaultLimits())
		assert.Empty(t, ws.Understaffed())
		for _, slot := range models.AllSlots() {
			assert.GreaterOrEqual(t, len(ws.Employees(slot.Day, slot.Shift)), 2, slot.String())
		}
	}
}

func TestBuild_FallbackOrder(t *testing.T) {
	// Eight employees all wanting mornings with a preferred cap of one: the
	// eighth in scan order starts on Monday again and must fall back.
	prefs := make(models.Preferences)
	for i := range 8 {
		prefs[fmt.Sprintf("emp%d", i)] = sameEveryDay(models.Morning)
	}
	limits := models.Limits{
		MinPerShift:        0,
		MaxDaysPerEmployee: 5,
		AssignmentPasses:   1,
		PreferredShiftCap:  1,
	}

	tests := map[string]struct {
		priorities    models.PriorityOrders
		expectedShift models.Shift
	}{
		"DefaultOrder": {
			priorities:    nil,
			expectedShift: models.Afternoon,
		},
		"PriorityOrder": {
			priorities: func() models.PriorityOrders {
				orders := make(models.PriorityOrders)
				for name := range prefs {
					orders[name] = []models.Shift{models.Evening, models.Afternoon, models.Morning}
				}
				return orders
			}(),
			expectedShift: models.Evening,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := scheduler.New(scheduler.NewSource(3), scheduler.WithLimits(limits))
			ws, err := s.Build(prefs, tt.priorities)
			require.NoError(t, err)

			for _, d := range models.Days {
				assert.Len(t, ws.Employees(d, models.Morning), 1, d.String())
			}
			assert.Len(t, ws.Employees(models.Monday, tt.expectedShift), 1)
			assert.Empty(t, ws.Understaffed())

			total := 0
			for _, names := range ws.Slots() {
				total += len(names)
			}
			assert.Equal(t, 8, total)
		})
	}
}

func TestBuild_Limits(t *testing.T) {
	prefs := models.Preferences{
		"Alice": sameEveryDay(models.Morning),
		"Bob":   sameEveryDay(models.Morning),
	}

	tests := map[string]struct {
		limits          models.Limits
		expectedDays    int
		expectedShort   int
		expectedMinimum int
	}{
		"SingleDayCap": {
			limits:          models.Limits{MinPerShift: 2, MaxDaysPerEmployee: 1, AssignmentPasses: 3, PreferredShiftCap: 3},
			expectedDays:    1,
			expectedShort:   21,
			expectedMinimum: 2,
		},
		"NoFloor": {
			limits:          models.Limits{MinPerShift: 0, MaxDaysPerEmployee: 5, AssignmentPasses: 2, PreferredShiftCap: 3},
			expectedDays:    2,
			expectedShort:   0,
			expectedMinimum: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := scheduler.New(scheduler.NewSource(11), scheduler.WithLimits(tt.limits))
			ws, err := s.Build(prefs, nil)
			require.NoError(t, err)

			assertInvariants(t, ws, tt.limits)
			assert.Equal(t, tt.expectedDays, ws.DaysWorked("Alice"))
			assert.Equal(t, tt.expectedDays, ws.DaysWorked("Bob"))
			assert.Len(t, ws.Understaffed(), tt.expectedShort)
			assert.Equal(t, tt.expectedMinimum, ws.MinPerShift())
		})
	}
}

func TestBuild_InvalidInput(t *testing.T) {
	missingWednesday := sameEveryDay(models.Evening)
	delete(missingWednesday, models.Wednesday)

	tests := map[string]struct {
		prefs         models.Preferences
		priorities    models.PriorityOrders
		expectedField string
		expectedError error
	}{
		"MissingDay": {
			prefs: models.Preferences{
				"Alice": sameEveryDay(models.Morning),
				"Carol": missingWednesday,
			},
			expectedField: "Wednesday",
			expectedError: customerrors.ErrMissingPreference,
		},
		"UnknownShift": {
			prefs: models.Preferences{
				"Carol": func() map[models.Day]models.Shift {
					days := sameEveryDay(models.Morning)
					days[models.Friday] = "night"
					return days
				}(),
			},
			expectedField: "Friday",
			expectedError: customerrors.ErrUnknownShift,
		},
		"UnknownPriorityShift": {
			prefs: models.Preferences{
				"Carol": sameEveryDay(models.Morning),
			},
			priorities: models.PriorityOrders{
				"Carol": {models.Morning, "night", models.Evening},
			},
			expectedField: "priority",
			expectedError: customerrors.ErrUnknownShift,
		},
		"RepeatedPriorityShift": {
			prefs: models.Preferences{
				"Alice": sameEveryDay(models.Morning),
				"Carol": sameEveryDay(models.Morning),
			},
			priorities: models.PriorityOrders{
				"Carol": {models.Morning, models.Morning},
			},
			expectedField: "priority",
			expectedError: customerrors.ErrInvalidPriority,
		},
		"IncompletePriority": {
			prefs: models.Preferences{
				"Carol": sameEveryDay(models.Evening),
			},
			priorities: models.PriorityOrders{
				"Carol": {models.Evening, models.Morning},
			},
			expectedField: "priority",
			expectedError: customerrors.ErrInvalidPriority,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ws, err := scheduler.Build(tt.prefs, tt.priorities, scheduler.NewSource(1))
			assert.Nil(t, ws)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedError), err.Error())

			var inputErr *customerrors.InvalidInputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, "Carol", inputErr.Employee)
			assert.Equal(t, tt.expectedField, inputErr.Field)
		})
	}
}

func TestBuild_SeededRunsAreReproducible(t *testing.T) {
	roster := demo.Roster()

	first, err := scheduler.Build(roster.Preferences, roster.PriorityOrders, scheduler.NewSource(42))
	require.NoError(t, err)
	second, err := scheduler.Build(roster.Preferences, roster.PriorityOrders, scheduler.NewSource(42))
	require.NoError(t, err)
	assert.Equal(t, first.Slots(), second.Slots())

	differs := false
	for seed := uint64(43); seed < 63; seed++ {
		other, err := scheduler.Build(roster.Preferences, roster.PriorityOrders, scheduler.NewSource(seed))
		require.NoError(t, err)
		assertInvariants(t, other, models.DefaultLimits())
		if !assert.ObjectsAreEqual(first.Slots(), other.Slots()) {
			differs = true
		}
	}
	assert.True(t, differs, "every seed produced the seed 42 schedule")
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	roster := demo.Roster()
	before := demo.Roster()

	_, err := scheduler.Build(roster.Preferences, roster.PriorityOrders, scheduler.NewSource(5))
	require.NoError(t, err)

	assert.Equal(t, before.Preferences, roster.Preferences)
	assert.Equal(t, before.PriorityOrders, roster.PriorityOrders)
}
