package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/clients/sheetsclient"
	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// PublishScheduleStore is the subset of the store the publishing use cases need
type PublishScheduleStore interface {
	db.MinistryStore
	db.VolunteerStore
	db.EventStore
	db.AssignmentStore
}

// SchedulePublisher writes a month schedule to a spreadsheet
type SchedulePublisher interface {
	PublishSchedule(spreadsheetID string, schedule *sheetsclient.PublishedSchedule) (string, error)
}

// EmailSender sends a plain text email
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// BuildMonthSchedule assembles the published view of a ministry's month:
// one row per event with its volunteers' names and open slots
func BuildMonthSchedule(ctx context.Context, store PublishScheduleStore, logger *zap.Logger, ministryID string, year int, month time.Month) (*sheetsclient.PublishedSchedule, error) {
	ministry, err := store.GetMinistry(ctx, ministryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ministry: %w", err)
	}

	summaries, err := ListEvents(ctx, store, logger, ministryID, year, month)
	if err != nil {
		return nil, err
	}

	events := make([]model.Event, len(summaries))
	for i, s := range summaries {
		events[i] = s.Event
	}
	assignments, err := store.GetAssignmentsForEvents(ctx, eventIDs(events))
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	volunteers, err := store.GetVolunteers(ctx, ministryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteers: %w", err)
	}
	lookup := rules.LookupFromSlice(volunteers)

	namesByEvent := make(map[string][]string)
	for _, a := range assignments {
		if v, ok := lookup(a.VolunteerID); ok {
			namesByEvent[a.EventID] = append(namesByEvent[a.EventID], v.Name)
		}
	}

	schedule := &sheetsclient.PublishedSchedule{
		Ministry: ministry.Name,
		Year:     year,
		Month:    month,
		Rows:     make([]sheetsclient.PublishedScheduleRow, 0, len(summaries)),
	}
	for _, s := range summaries {
		schedule.Rows = append(schedule.Rows, sheetsclient.PublishedScheduleRow{
			Date:       s.Event.Date.Format("02/01/2006"),
			Weekday:    rules.WeekdayName(s.Event.Date.Weekday()),
			Title:      s.Event.Title,
			Volunteers: namesByEvent[s.Event.ID],
			OpenSlots:  s.OpenSlots(),
		})
	}

	logger.Debug("Built month schedule",
		zap.String("ministry", ministry.Name),
		zap.String("tab", schedule.TabTitle()),
		zap.Int("rows", len(schedule.Rows)))
	return schedule, nil
}

// PublishSchedule builds a month schedule and writes it to the spreadsheet.
// Returns the tab title written.
func PublishSchedule(ctx context.Context, store PublishScheduleStore, publisher SchedulePublisher, logger *zap.Logger, ministryID, spreadsheetID string, year int, month time.Month) (*sheetsclient.PublishedSchedule, string, error) {
	if spreadsheetID == "" {
		return nil, "", fmt.Errorf("%w: scheduleSheetID is not configured", ErrInvalidInput)
	}

	schedule, err := BuildMonthSchedule(ctx, store, logger, ministryID, year, month)
	if err != nil {
		return nil, "", err
	}

	tab, err := publisher.PublishSchedule(spreadsheetID, schedule)
	if err != nil {
		return nil, "", fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Schedule published", zap.String("tab", tab), zap.Int("rows", len(schedule.Rows)))
	return schedule, tab, nil
}

// NotifySchedulePublished emails each recipient that a schedule was published.
// Every recipient is attempted; the first failure is returned.
func NotifySchedulePublished(sender EmailSender, logger *zap.Logger, schedule *sheetsclient.PublishedSchedule, spreadsheetID string, recipients []string) error {
	subject := fmt.Sprintf("%s - %s publicada", schedule.Ministry, schedule.TabTitle())
	body := scheduleEmailBody(schedule, spreadsheetID)

	var firstErr error
	sent := 0
	for _, to := range recipients {
		if err := sender.SendEmail(to, subject, body); err != nil {
			logger.Error("Failed to send schedule email", zap.String("to", to), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to email %s: %w", to, err)
			}
			continue
		}
		sent++
		logger.Debug("Schedule email sent", zap.String("to", to))
	}

	logger.Info("Schedule notifications sent", zap.Int("sent", sent), zap.Int("recipients", len(recipients)))
	return firstErr
}

func scheduleEmailBody(schedule *sheetsclient.PublishedSchedule, spreadsheetID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A %s do ministério %s foi publicada.\n\n", schedule.TabTitle(), schedule.Ministry)
	for _, row := range schedule.Rows {
		fmt.Fprintf(&b, "%s (%s) %s: ", row.Date, row.Weekday, row.Title)
		if len(row.Volunteers) == 0 {
			b.WriteString("ninguém escalado")
		} else {
			b.WriteString(strings.Join(row.Volunteers, ", "))
		}
		if row.OpenSlots > 0 {
			fmt.Fprintf(&b, " (%d vaga(s))", row.OpenSlots)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nhttps://docs.google.com/spreadsheets/d/%s\n", spreadsheetID)
	return b.String()
}
