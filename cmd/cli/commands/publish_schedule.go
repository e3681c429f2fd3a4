package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/services"
)

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishSchedule [month]",
		Short: "Publish the month's schedule to the schedule sheet (defaults to this month)",
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
			notify, _ := cmd.Flags().GetBool("notify")

			app.Logger.Debug("publishSchedule command",
				zap.Int("year", year),
				zap.String("month", month.String()),
				zap.Bool("notify", notify))

			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}

			schedule, tab, err := services.PublishSchedule(app.Ctx, app.Database, sheets, app.Logger, ministryID, app.Cfg.ScheduleSheetID, year, month)
			if err != nil {
				return err
			}

			fmt.Printf("\n✅ Schedule Published Successfully\n\n")
			fmt.Printf("Ministry: %s\n", schedule.Ministry)
			fmt.Printf("Tab:      %s\n", tab)
			fmt.Printf("Sheet ID: %s\n\n", app.Cfg.ScheduleSheetID)

			fmt.Printf("%-12s  %-8s  %-20s  %-40s\n", "Data", "Dia", "Culto", "Brigadistas")
			fmt.Println(strings.Repeat("-", 86))
			for _, row := range schedule.Rows {
				volunteers := "—"
				if len(row.Volunteers) > 0 {
					volunteers = strings.Join(row.Volunteers, ", ")
				}
				if row.OpenSlots > 0 {
					volunteers = fmt.Sprintf("%s %s(+%d)%s", volunteers, colorYellow, row.OpenSlots, colorReset)
				}
				fmt.Printf("%-12s  %-8s  %-20s  %s\n", row.Date, row.Weekday, truncate(row.Title, 20), volunteers)
			}
			fmt.Println()

			if !notify {
				return nil
			}
			if len(app.Cfg.NotifyRecipients) == 0 {
				fmt.Println("⚠️  No notifyRecipients configured, skipping emails.")
				return nil
			}

			gmail, err := app.GmailClient()
			if err != nil {
				return err
			}
			if err := services.NotifySchedulePublished(gmail, app.Logger, schedule, app.Cfg.ScheduleSheetID, app.Cfg.NotifyRecipients); err != nil {
				return err
			}
			fmt.Printf("✓ Notified %d recipients\n\n", len(app.Cfg.NotifyRecipients))

			return nil
		},
	}

	cmd.Flags().Bool("notify", false, "Email notifyRecipients once published")

	return cmd
}

// AuditCmd creates the audit command
func AuditCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "audit [month]",
		Short: "Check the month's stored assignments for capacity and duplicate violations",
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

			violations, err := services.AuditSchedule(app.Ctx, app.Database, app.Logger, ministryID, year, month)
			if err != nil {
				return err
			}

			if len(violations) == 0 {
				fmt.Printf("\n%s✓ No violations in %04d-%02d%s\n\n", colorGreen, year, int(month), colorReset)
				return nil
			}

			fmt.Printf("\n%s⚠️  %d violations in %04d-%02d%s\n\n", colorRed, len(violations), year, int(month), colorReset)
			for _, v := range violations {
				fmt.Printf("  [%s] %s %s: %s\n", v.Rule, v.EventDate, v.EventID, v.Description)
			}
			fmt.Println()

			return nil
		},
	}
}
