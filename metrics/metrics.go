// Package metrics provides Prometheus observability metrics for the shift scheduler.
// It includes staffing metrics for business visibility and run metrics for operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// STAFFING METRICS - Business Impact Visibility
// =============================================================================

// SlotsUnderstaffed tracks slots that ended below the staffing floor in the last run.
// High values indicate the roster is too small for the week.
var SlotsUnderstaffed = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "slots_understaffed",
	Help:      "Number of (day, shift) slots below the minimum staffing level in the last run",
})

// StaffingShortfall tracks the total number of missing employees across all slots.
var StaffingShortfall = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "staffing_shortfall",
	Help:      "Employees missing to reach the minimum staffing level, summed over all slots",
})

// AssignmentsTotal tracks placements by the phase that made them.
var AssignmentsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "scheduler",
	Name:      "assignments_total",
	Help:      "Total employee placements by scheduling phase",
}, []string{"phase"})

// EmployeesAtDayCap tracks employees that reached the maximum workdays in the last run.
var EmployeesAtDayCap = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "employees_at_day_cap",
	Help:      "Number of employees scheduled for the maximum number of days in the last run",
})

// =============================================================================
// OPERATIONAL METRICS
// =============================================================================

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total roster records successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total roster records successfully parsed",
})

// ParserDurationSeconds tracks time to parse roster files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse a roster",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// SchedulerDurationSeconds tracks time to build a schedule.
var SchedulerDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "duration_seconds",
	Help:      "Time taken to build the weekly schedule",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// SchedulerEmployeesProcessed tracks number of employees per scheduling run.
var SchedulerEmployeesProcessed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "employees_processed",
	Help:      "Number of employees processed per scheduling run",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
})

// SchedulerInvalidInputTotal tracks runs rejected for invalid input.
var SchedulerInvalidInputTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "scheduler",
	Name:      "invalid_input_total",
	Help:      "Scheduling runs rejected because of invalid input",
})

// StoreRunsSavedTotal tracks runs persisted to the history store.
var StoreRunsSavedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "store",
	Name:      "runs_saved_total",
	Help:      "Scheduling runs persisted to the history store",
})

// PublishErrorsTotal tracks failed schedule publications by target.
var PublishErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "notify",
	Name:      "errors_total",
	Help:      "Failed schedule publications by target",
}, []string{"target"})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetSchedulerGauges resets all scheduler gauges before a new scheduling run.
// Call this at the start of Build.
func ResetSchedulerGauges() {
	SlotsUnderstaffed.Set(0)
	StaffingShortfall.Set(0)
	EmployeesAtDayCap.Set(0)
}
