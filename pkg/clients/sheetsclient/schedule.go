package sheetsclient

import (
	"fmt"
	"strings"
	"time"
)

var monthNames = [...]string{
	time.January:   "Janeiro",
	time.February:  "Fevereiro",
	time.March:     "Março",
	time.April:     "Abril",
	time.May:       "Maio",
	time.June:      "Junho",
	time.July:      "Julho",
	time.August:    "Agosto",
	time.September: "Setembro",
	time.October:   "Outubro",
	time.November:  "Novembro",
	time.December:  "Dezembro",
}

// PublishedScheduleRow is one event of the published schedule
type PublishedScheduleRow struct {
	Date       string   // Format: "02/01/2006"
	Weekday    string   // "Domingo", "Quarta", ...
	Title      string
	Volunteers []string // Volunteer names
	OpenSlots  int
}

// PublishedSchedule is a ministry's schedule for one calendar month
type PublishedSchedule struct {
	Ministry string
	Year     int
	Month    time.Month
	Rows     []PublishedScheduleRow
}

// TabTitle returns the tab the schedule is written to, e.g. "Escala Abril 2024"
func (s *PublishedSchedule) TabTitle() string {
	return fmt.Sprintf("Escala %s %d", monthNames[s.Month], s.Year)
}

// PublishSchedule writes the schedule to its month tab, creating the tab if
// needed and overwriting it otherwise. Returns the tab title.
func (c *Client) PublishSchedule(spreadsheetID string, schedule *PublishedSchedule) (string, error) {
	tabTitle := schedule.TabTitle()

	exists, err := c.HasSheet(spreadsheetID, tabTitle)
	if err != nil {
		return "", err
	}
	if !exists {
		if _, err := c.CreateSheet(spreadsheetID, tabTitle); err != nil {
			return "", fmt.Errorf("failed to create tab: %w", err)
		}
	}

	quoted := "'" + strings.ReplaceAll(tabTitle, "'", "''") + "'"
	if err := c.ReplaceValues(spreadsheetID, quoted+"!A1:ZZ", quoted+"!A1", scheduleValues(schedule)); err != nil {
		return "", fmt.Errorf("failed to write schedule: %w", err)
	}

	return tabTitle, nil
}

// scheduleValues lays the schedule out as a title row, a blank row, a header
// and one row per event with a column per volunteer slot
func scheduleValues(schedule *PublishedSchedule) [][]interface{} {
	maxVolunteers := 0
	for _, row := range schedule.Rows {
		maxVolunteers = max(maxVolunteers, len(row.Volunteers))
	}

	header := []interface{}{"Data", "Dia", "Culto"}
	for i := 0; i < maxVolunteers; i++ {
		header = append(header, fmt.Sprintf("Brigadista %d", i+1))
	}
	header = append(header, "Vagas")

	values := [][]interface{}{
		{fmt.Sprintf("%s - %s", schedule.Ministry, schedule.TabTitle())},
		{},
		header,
	}

	for _, row := range schedule.Rows {
		sheetRow := []interface{}{row.Date, row.Weekday, row.Title}
		for i := 0; i < maxVolunteers; i++ {
			if i < len(row.Volunteers) {
				sheetRow = append(sheetRow, row.Volunteers[i])
			} else {
				sheetRow = append(sheetRow, "")
			}
		}
		sheetRow = append(sheetRow, row.OpenSlots)
		values = append(values, sheetRow)
	}

	return values
}
