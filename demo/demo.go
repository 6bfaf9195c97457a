// Package demo holds a fixed sample roster for trying the scheduler without
// an input file.
package demo

import "shift-scheduler/models"

const (
	m = models.Morning
	a = models.Afternoon
	e = models.Evening
)

var weeklyPreferences = map[string][7]models.Shift{
	"Alice": {m, m, m, m, m, m, m},
	"Bob":   {a, a, a, a, a, a, a},
	"Carol": {e, e, e, e, e, e, e},
	"Dave":  {m, a, e, m, a, e, m},
	"Eve":   {a, e, m, a, e, m, a},
	"Frank": {m, m, a, a, e, e, m},
	"Grace": {e, m, a, e, m, a, a},
	"Henry": {a, e, m, a, e, m, e},
	"Ivy":   {m, a, e, m, a, e, m},
	"Jack":  {e, m, a, e, m, a, e},
}

var priorityOrders = map[string][]models.Shift{
	"Alice": {m, a, e},
	"Bob":   {a, m, e},
	"Carol": {e, a, m},
	"Dave":  {m, a, e},
	"Eve":   {a, e, m},
	"Frank": {m, a, e},
	"Grace": {e, m, a},
	"Henry": {a, e, m},
	"Ivy":   {m, a, e},
	"Jack":  {e, m, a},
}

// Roster returns a fresh copy of the ten-employee sample roster, with
// priority orders for everyone.
func Roster() models.Roster {
	roster := models.Roster{
		Preferences:    make(models.Preferences, len(weeklyPreferences)),
		PriorityOrders: make(models.PriorityOrders, len(priorityOrders)),
	}
	for name, week := range weeklyPreferences {
		days := make(map[models.Day]models.Shift, models.DaysPerWeek)
		for d, shift := range week {
			days[models.Day(d)] = shift
		}
		roster.Preferences[name] = days
	}
	for name, order := range priorityOrders {
		roster.PriorityOrders[name] = append([]models.Shift(nil), order...)
	}
	return roster
}
