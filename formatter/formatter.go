package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"shift-scheduler/models"

	"github.com/samber/lo"
)

const (
	bannerWidth  = 70
	dividerWidth = 40
	emptySlot    = "(none)"
)

// ScheduleData holds prepared schedule data used by all formatters
type ScheduleData struct {
	Days         []DayData      `json:"days"`
	Workload     map[string]int `json:"workload"`
	Understaffed int            `json:"understaffed_slots"`
}

// DayData groups the shifts of one day
type DayData struct {
	Day    string      `json:"day"`
	Shifts []ShiftData `json:"shifts"`
}

// ShiftData describes the staffing of one slot
type ShiftData struct {
	Shift        string   `json:"shift"`
	Employees    []string `json:"employees"`
	Count        int      `json:"count"`
	Understaffed bool     `json:"understaffed"`
	Missing      int      `json:"missing,omitempty"`
}

// prepareScheduleData extracts and organizes schedule data for formatting
func prepareScheduleData(schedule *models.WeeklySchedule) *ScheduleData {
	data := &ScheduleData{
		Days:         make([]DayData, 0, models.DaysPerWeek),
		Workload:     schedule.Workload(),
		Understaffed: len(schedule.Understaffed()),
	}

	for _, day := range models.Days {
		dayData := DayData{Day: day.String()}
		for _, shift := range models.Shifts {
			names := schedule.Employees(day, shift)
			if names == nil {
				names = []string{}
			}
			sd := ShiftData{
				Shift:        string(shift),
				Employees:    names,
				Count:        len(names),
				Understaffed: schedule.IsUnderstaffed(day, shift),
			}
			if sd.Understaffed {
				sd.Missing = schedule.MinPerShift() - sd.Count
			}
			dayData.Shifts = append(dayData.Shifts, sd)
		}
		data.Days = append(data.Days, dayData)
	}

	return data
}

// FormatText returns the text representation of the schedule
func FormatText(schedule *models.WeeklySchedule) string {
	data := prepareScheduleData(schedule)
	var sb strings.Builder

	banner := strings.Repeat("=", bannerWidth)
	sb.WriteString(banner + "\n")
	sb.WriteString("WEEKLY EMPLOYEE SCHEDULE\n")
	sb.WriteString(banner + "\n")

	for _, dayData := range data.Days {
		sb.WriteString(fmt.Sprintf("\n%s:\n", dayData.Day))
		sb.WriteString(strings.Repeat("-", dividerWidth) + "\n")
		for _, shiftData := range dayData.Shifts {
			sb.WriteString(formatTextLine(shiftData))
			sb.WriteString("\n")

			// Add understaffing warning if the slot is short
			if shiftData.Understaffed {
				sb.WriteString(fmt.Sprintf("    ⚠️  UNDERSTAFFED: Assigned=%d, Required=%d\n",
					shiftData.Count, shiftData.Count+shiftData.Missing))
			}
		}
	}

	sb.WriteString("\n" + banner + "\n")
	sb.WriteString(formatWorkload(data.Workload))
	sb.WriteString("\n")

	return sb.String()
}

// FormatJSON returns the JSON representation of the schedule
func FormatJSON(schedule *models.WeeklySchedule) string {
	data := prepareScheduleData(schedule)
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of the schedule
func FormatCSV(schedule *models.WeeklySchedule) string {
	data := prepareScheduleData(schedule)
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	writer.Write([]string{"Day", "Shift", "Employees", "Count", "Understaffed", "Missing"})

	for _, dayData := range data.Days {
		for _, shiftData := range dayData.Shifts {
			writeShiftToCSV(writer, dayData.Day, shiftData)
		}
	}

	writer.Flush()
	return sb.String()
}

// writeShiftToCSV writes a single slot's data to CSV
func writeShiftToCSV(writer *csv.Writer, day string, shiftData ShiftData) {
	row := []string{
		day,
		shiftData.Shift,
		strings.Join(shiftData.Employees, "; "),
		fmt.Sprintf("%d", shiftData.Count),
	}

	if shiftData.Understaffed {
		row = append(row, "Yes", fmt.Sprintf("%d", shiftData.Missing))
	} else {
		row = append(row, "No", "")
	}

	writer.Write(row)
}

// formatTextLine formats a single shift line for text output
func formatTextLine(shiftData ShiftData) string {
	names := emptySlot
	if len(shiftData.Employees) > 0 {
		names = strings.Join(shiftData.Employees, ", ")
	}
	return fmt.Sprintf("  %-12s : %s", models.Shift(shiftData.Shift).Title(), names)
}

// formatWorkload lists days worked per employee, sorted by name
func formatWorkload(workload map[string]int) string {
	if len(workload) == 0 {
		return "Days worked: none"
	}
	names := lo.Keys(workload)
	slices.Sort(names)
	parts := lo.Map(names, func(name string, _ int) string {
		return fmt.Sprintf("%s=%d", name, workload[name])
	})
	return "Days worked: " + strings.Join(parts, ", ")
}
