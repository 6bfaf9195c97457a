package scheduler

import (
	"fmt"
	"math/rand/v2"
	"time"

	customerrors "shift-scheduler/errors"
	"shift-scheduler/metrics"
	"shift-scheduler/models"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	phasePreference = "preference"
	phaseFallback   = "fallback"
	phaseBackfill   = "backfill"
)

// Scheduler assigns employees to the slots of a week. It owns its random
// source, so a Scheduler must not be shared between goroutines.
type Scheduler struct {
	limits models.Limits
	rng    *rand.Rand
	logger *zap.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLimits overrides the default staffing rules.
func WithLimits(limits models.Limits) Option {
	return func(s *Scheduler) {
		s.limits = limits
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSource returns a random source for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// New creates a Scheduler drawing tie-breaks from rng. A nil rng is
// replaced by a source seeded from the clock.
func New(rng *rand.Rand, opts ...Option) *Scheduler {
	if rng == nil {
		rng = NewSource(uint64(time.Now().UnixNano()))
	}
	s := &Scheduler{
		limits: models.DefaultLimits(),
		rng:    rng,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build schedules a week with the default limits. See Scheduler.Build.
func Build(prefs models.Preferences, priorities models.PriorityOrders, rng *rand.Rand) (*models.WeeklySchedule, error) {
	return New(rng).Build(prefs, priorities)
}

// Build produces a weekly schedule from per-day shift preferences and
// optional fallback priority orders.
//
// Employees are placed in two phases. Preference rounds give every employee
// at most one new day per round, starting the day scan at the employee's
// position in a shuffled list so contention spreads over the week. A full
// preferred slot sends the employee to another shift of the same day, in
// their priority order. The backfill phase then tops every slot up towards
// MinPerShift from the employees still free that day. Slots that cannot be
// filled are reported by WeeklySchedule.Understaffed, not as errors.
//
// An employee missing a day, or naming an unknown shift, fails the whole
// run with an InvalidInputError. The inputs are never modified.
func (s *Scheduler) Build(prefs models.Preferences, priorities models.PriorityOrders) (*models.WeeklySchedule, error) {
	start := time.Now()
	defer func() {
		metrics.SchedulerDurationSeconds.Observe(time.Since(start).Seconds())
	}()
	metrics.ResetSchedulerGauges()

	roster := models.Roster{Preferences: prefs, PriorityOrders: priorities}
	if err := validate(roster); err != nil {
		metrics.SchedulerInvalidInputTotal.Inc()
		return nil, err
	}
	metrics.SchedulerEmployeesProcessed.Observe(float64(len(prefs)))

	employees := roster.Employees()
	s.rng.Shuffle(len(employees), func(i, j int) {
		employees[i], employees[j] = employees[j], employees[i]
	})

	st := newState(roster, s.limits, employees)
	s.assignPreferences(st)
	s.backfill(st)

	schedule := models.NewWeeklySchedule(st.slots, s.limits.MinPerShift)
	s.record(schedule, st)
	return schedule, nil
}

// validate checks that every employee has a known shift for all seven days
// and that every non-empty priority order ranks each shift once.
func validate(roster models.Roster) error {
	for _, name := range roster.Employees() {
		days := roster.Preferences[name]
		for _, day := range models.Days {
			shift, ok := days[day]
			if !ok {
				return &customerrors.InvalidInputError{
					Employee: name,
					Field:    day.String(),
					Err:      customerrors.ErrMissingPreference,
				}
			}
			if !shift.Valid() {
				return &customerrors.InvalidInputError{
					Employee: name,
					Field:    day.String(),
					Err:      fmt.Errorf("%w: %q", customerrors.ErrUnknownShift, shift),
				}
			}
		}
		order := roster.PriorityOrders[name]
		for _, shift := range order {
			if !shift.Valid() {
				return &customerrors.InvalidInputError{
					Employee: name,
					Field:    "priority",
					Err:      fmt.Errorf("%w: %q", customerrors.ErrUnknownShift, shift),
				}
			}
		}
		// An empty order falls back to the default ranking.
		if len(order) > 0 && !models.IsPermutation(order) {
			return &customerrors.InvalidInputError{
				Employee: name,
				Field:    "priority",
				Err:      fmt.Errorf("%w: %v is not a ranking of all shifts", customerrors.ErrInvalidPriority, order),
			}
		}
	}
	return nil
}

// assignPreferences runs the preference rounds.
func (s *Scheduler) assignPreferences(st *state) {
	for round := range s.limits.AssignmentPasses {
		placed := 0
		for index, name := range st.employees {
			if st.daysWorked[name] >= s.limits.MaxDaysPerEmployee {
				continue
			}
			if st.placeOnPreferredDay(index, name) {
				placed++
			}
		}
		s.logger.Debug("preference round complete",
			zap.Int("round", round+1),
			zap.Int("placed", placed),
		)
	}
}

// backfill tops each slot up to the staffing floor in day-then-shift order.
func (s *Scheduler) backfill(st *state) {
	for _, slot := range models.AllSlots() {
		need := s.limits.MinPerShift - len(st.slots[slot])
		if need <= 0 {
			continue
		}

		candidates := lo.Filter(st.employees, func(name string, _ int) bool {
			return st.canAssign(name, slot.Day)
		})
		s.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		for _, name := range candidates {
			if need <= 0 {
				break
			}
			st.assign(name, slot, phaseBackfill)
			need--
		}

		if need > 0 {
			s.logger.Debug("slot left understaffed",
				zap.Stringer("day", slot.Day),
				zap.String("shift", string(slot.Shift)),
				zap.Int("missing", need),
			)
		}
	}
}

// record publishes the run's staffing outcome.
func (s *Scheduler) record(schedule *models.WeeklySchedule, st *state) {
	shortfall := 0
	for _, u := range schedule.Understaffed() {
		shortfall += u.Required - u.Assigned
	}
	atCap := lo.CountBy(st.employees, func(name string) bool {
		return st.daysWorked[name] >= s.limits.MaxDaysPerEmployee
	})

	metrics.SlotsUnderstaffed.Set(float64(len(schedule.Understaffed())))
	metrics.StaffingShortfall.Set(float64(shortfall))
	metrics.EmployeesAtDayCap.Set(float64(atCap))
	for phase, n := range st.placements {
		metrics.AssignmentsTotal.WithLabelValues(phase).Add(float64(n))
	}

	s.logger.Info("schedule built",
		zap.Int("employees", len(st.employees)),
		zap.Int("preference_placements", st.placements[phasePreference]),
		zap.Int("fallback_placements", st.placements[phaseFallback]),
		zap.Int("backfill_placements", st.placements[phaseBackfill]),
		zap.Int("understaffed_slots", len(schedule.Understaffed())),
	)
}
