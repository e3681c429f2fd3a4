package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda",
	time.Tuesday:   "Terça",
	time.Wednesday: "Quarta",
	time.Thursday:  "Quinta",
	time.Friday:    "Sexta",
	time.Saturday:  "Sábado",
}

// parseMonthArg reads "YYYY-MM" or "MM/YYYY". An empty value means the month
// containing now.
func parseMonthArg(raw string, now time.Time) (int, time.Month, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.Year(), now.Month(), nil
	}
	for _, layout := range []string{"2006-01", "01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Year(), t.Month(), nil
		}
	}
	return 0, 0, fmt.Errorf("month must be YYYY-MM or MM/YYYY, got: %s", raw)
}

// parseDateArg reads "YYYY-MM-DD" or "DD/MM/YYYY" into a civil date
func parseDateArg(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{model.DateLayout, "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD or DD/MM/YYYY, got: %s", raw)
}

// displayDate renders a civil date as "DD/MM/YYYY (Weekday)"
func displayDate(d time.Time) string {
	return fmt.Sprintf("%s (%s)", d.Format("02/01/2006"), weekdayNames[d.Weekday()])
}

// slotsColor picks a color from how full an event is: green when full,
// yellow when at least half the slots are taken, red otherwise
func slotsColor(assigned, required int, green, yellow, red string) string {
	switch {
	case assigned >= required:
		return green
	case assigned*2 >= required:
		return yellow
	default:
		return red
	}
}

// truncate shortens s to width runes, marking the cut with "…"
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

// ruleError replaces a rule rejection with the message shown to users,
// keeping other errors as they are
func ruleError(err error) error {
	switch kind := rules.KindOf(err); kind {
	case rules.KindNone, rules.KindOther:
		return err
	default:
		return fmt.Errorf("%s (%s)", rules.Message(err), kind)
	}
}
