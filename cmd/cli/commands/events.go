package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/services"
)

// AddEventCmd creates the addEvent command
func AddEventCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addEvent <date> <title>",
		Short: "Create a single service (culto) on a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			description, _ := cmd.Flags().GetString("description")
			required := requiredFlag(cmd, app)

			event, err := services.CreateEvent(app.Ctx, app.Database, app.Logger, ministryID, services.EventInput{
				Date:          date,
				Title:         args[1],
				Description:   description,
				RequiredCount: required,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Event created!\n\n")
			fmt.Printf("Event ID: %s\n", event.ID)
			fmt.Printf("Date:     %s\n", displayDate(event.Date))
			fmt.Printf("Title:    %s\n", event.Title)
			fmt.Printf("Slots:    %d\n\n", event.RequiredCount)

			return nil
		},
	}

	cmd.Flags().String("description", "", "Event description")
	cmd.Flags().Int("required", 0, "Volunteers needed (defaults to defaultRequiredCount)")

	return cmd
}

// CreateEventsCmd creates the createEvents command
func CreateEventsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createEvents <date> [date...]",
		Short: "Create the services for each date (Sundays get morning and evening)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}

			dates := make([]time.Time, len(args))
			for i, raw := range args {
				if dates[i], err = parseDateArg(raw); err != nil {
					return err
				}
			}

			result, err := services.CreateEventsForDates(app.Ctx, app.Database, app.Logger, ministryID, dates, requiredFlag(cmd, app))
			if err != nil {
				return err
			}

			printBatchResult(result)
			return nil
		},
	}

	cmd.Flags().Int("required", 0, "Volunteers needed per event (defaults to defaultRequiredCount)")

	return cmd
}

// CreateMonthCmd creates the createMonth command
func CreateMonthCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createMonth [month]",
		Short: "Create the month's services from serviceDaysRRule (defaults to next month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}

			now := app.now()
			year, month := now.Year(), now.Month()+1
			if month > time.December {
				year, month = year+1, time.January
			}
			if len(args) > 0 {
				if year, month, err = parseMonthArg(args[0], now); err != nil {
					return err
				}
			}

			app.Logger.Debug("createMonth command",
				zap.Int("year", year),
				zap.String("month", month.String()),
				zap.String("rrule", app.Cfg.ServiceDaysRRule))

			result, err := services.CreateMonthEvents(app.Ctx, app.Database, app.Logger, ministryID, year, month, app.Cfg.ServiceDaysRRule, requiredFlag(cmd, app))
			if err != nil {
				return err
			}

			printBatchResult(result)
			return nil
		},
	}

	cmd.Flags().Int("required", 0, "Volunteers needed per event (defaults to defaultRequiredCount)")

	return cmd
}

// RemoveEventCmd creates the removeEvent command
func RemoveEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeEvent <event_id>",
		Short: "Delete an event and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteEvent(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}
			fmt.Printf("\n✓ Event %s removed\n\n", args[0])
			return nil
		},
	}
}

// ListEventsCmd creates the listEvents command
func ListEventsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listEvents [month]",
		Short: "Show the month's services with their fill state (defaults to this month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}

			raw := ""
			if len(args) > 0 {
				raw = args[0]
			}
			year, month, err := parseMonthArg(raw, app.now())
			if err != nil {
				return err
			}

			summaries, err := services.ListEvents(app.Ctx, app.Database, app.Logger, ministryID, year, month)
			if err != nil {
				return err
			}

			fmt.Printf("\nServices in %04d-%02d (%d)\n\n", year, int(month), len(summaries))
			if len(summaries) == 0 {
				fmt.Println("No events scheduled. Use createMonth to generate them.")
				fmt.Println()
				return nil
			}

			const (
				dateColWidth  = 20
				titleColWidth = 28
				slotColWidth  = 10
			)
			fmt.Printf("%-*s%-*s%-*s%s\n", dateColWidth, "Date", titleColWidth, "Title", slotColWidth, "Filled", "Event ID")
			fmt.Println(strings.Repeat("-", dateColWidth+titleColWidth+slotColWidth+36))

			for _, s := range summaries {
				cell := fmt.Sprintf("%d/%d", s.Assigned, s.Event.RequiredCount)
				color := slotsColor(s.Assigned, s.Event.RequiredCount, colorGreen, colorYellow, colorRed)
				fmt.Printf("%-*s%-*s%s%-*s%s%s\n",
					dateColWidth, displayDate(s.Event.Date),
					titleColWidth, truncate(s.Event.Title, titleColWidth-2),
					color, slotColWidth, cell, colorReset,
					s.Event.ID)
			}

			fmt.Println()
			fmt.Println("Legend:")
			fmt.Printf("  %sX/Y%s = full\n", colorGreen, colorReset)
			fmt.Printf("  %sX/Y%s = at least half the slots taken\n", colorYellow, colorReset)
			fmt.Printf("  %sX/Y%s = fewer than half the slots taken\n", colorRed, colorReset)

			return nil
		},
	}
}

// requiredFlag reads --required, falling back to the configured default
func requiredFlag(cmd *cobra.Command, app *AppContext) int {
	if required, _ := cmd.Flags().GetInt("required"); required > 0 {
		return required
	}
	return app.Cfg.DefaultRequiredCount
}

func printBatchResult(result *services.BatchResult) {
	fmt.Printf("\n✓ Created %d events\n\n", len(result.Created))
	for _, e := range result.Created {
		fmt.Printf("  %s  %-20s %s\n", displayDate(e.Date), e.Title, e.ID)
	}
	fmt.Println()

	if len(result.Conflicts) > 0 {
		fmt.Printf("⚠️  Skipped %d dates that already have events:\n", len(result.Conflicts))
		for _, c := range result.Conflicts {
			titles := make([]string, len(c.Existing))
			for i, e := range c.Existing {
				titles[i] = e.Title
			}
			fmt.Printf("  ✗ %s: %s\n", displayDate(c.Date), strings.Join(titles, ", "))
		}
		fmt.Println()
	}
}
