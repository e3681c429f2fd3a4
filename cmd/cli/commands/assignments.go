package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/services"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <event_id> [volunteer_id...]",
		Short: "Set the full list of volunteers for an event (no volunteers clears it)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID := args[0]
			volunteerIDs := args[1:]

			app.Logger.Debug("assign command", zap.String("event_id", eventID), zap.Strings("volunteer_ids", volunteerIDs))

			assignments, err := services.SetAssignments(app.Ctx, app.Database, app.Logger, eventID, volunteerIDs)
			if err != nil {
				return ruleError(err)
			}

			fmt.Printf("\n✓ Event %s now has %d volunteers\n\n", eventID, len(assignments))
			return nil
		},
	}
}

// SelfAssignCmd creates the selfAssign command
func SelfAssignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "selfAssign <event_id> <cpf>",
		Short: "Schedule the volunteer with this CPF for an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignment, err := services.SelfAssign(app.Ctx, app.Database, app.Logger, args[0], args[1], app.now())
			if err != nil {
				return ruleError(err)
			}

			fmt.Printf("\n✓ Agendamento confirmado!\n\n")
			fmt.Printf("Assignment ID: %s\n", assignment.ID)
			fmt.Printf("CPF:           %s\n\n", cpf.Mask(args[1]))
			return nil
		},
	}
}

// CancelAssignmentCmd creates the cancelAssignment command
func CancelAssignmentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelAssignment <assignment_id> <cpf>",
		Short: "Cancel an assignment; the CPF must belong to its volunteer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.CancelAssignment(app.Ctx, app.Database, app.Logger, args[0], args[1], app.now()); err != nil {
				return ruleError(err)
			}

			fmt.Printf("\n✓ Agendamento cancelado\n\n")
			return nil
		},
	}
}

// MyScheduleCmd creates the mySchedule command
func MyScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mySchedule <cpf>",
		Short: "Show the upcoming services of the volunteer with this CPF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}

			from := app.now()
			if all, _ := cmd.Flags().GetBool("all"); all {
				from = time.Time{}
			}

			schedule, err := services.LookupSchedule(app.Ctx, app.Database, app.Logger, ministryID, args[0], from)
			if err != nil {
				return ruleError(err)
			}

			fmt.Printf("\n%s (%s)\n\n", schedule.Volunteer.Name, cpf.Format(schedule.Volunteer.CPF))
			if len(schedule.Entries) == 0 {
				fmt.Println("Nenhum culto agendado.")
				fmt.Println()
				return nil
			}

			for _, e := range schedule.Entries {
				fmt.Printf("  %s  %-20s %d/%d  (%s)\n",
					displayDate(e.Event.Date),
					e.Event.Title,
					e.Assigned,
					e.Event.RequiredCount,
					e.Assignment.ID)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Include past services")

	return cmd
}

// RosterCmd creates the roster command
func RosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "roster <event_id>",
		Short: "Show the volunteers assigned to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := services.EventRoster(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n%s - %s\n", displayDate(roster.Event.Date), roster.Event.Title)
			if roster.Event.Description != "" {
				fmt.Println(roster.Event.Description)
			}
			fmt.Printf("\n%d/%d volunteers, %d open slots\n\n", len(roster.Entries), roster.Event.RequiredCount, roster.OpenSlots)

			for _, e := range roster.Entries {
				fmt.Printf("  - %s (%s)  %s\n", e.Volunteer.Name, cpf.Mask(e.Volunteer.CPF), e.Assignment.ID)
			}
			fmt.Println()

			return nil
		},
	}
}
