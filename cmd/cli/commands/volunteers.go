package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/services"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
)

// AddVolunteerCmd creates the addVolunteer command
func AddVolunteerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addVolunteer <name> <cpf>",
		Short: "Register a volunteer (brigadista) in the ministry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}
			inactive, _ := cmd.Flags().GetBool("inactive")

			in := services.VolunteerInput{Name: args[0], CPF: args[1], Status: model.StatusActive}
			if inactive {
				in.Status = model.StatusInactive
			}

			volunteer, err := services.CreateVolunteer(app.Ctx, app.Database, app.Logger, ministryID, in)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Volunteer registered!\n\n")
			fmt.Printf("Volunteer ID: %s\n", volunteer.ID)
			fmt.Printf("Name:         %s\n", volunteer.Name)
			fmt.Printf("CPF:          %s\n", cpf.Format(volunteer.CPF))
			fmt.Printf("Status:       %s\n\n", volunteer.Status)

			return nil
		},
	}

	cmd.Flags().Bool("inactive", false, "Register the volunteer as inactive")

	return cmd
}

// EditVolunteerCmd creates the editVolunteer command
func EditVolunteerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editVolunteer <volunteer_id>",
		Short: "Change a volunteer's name, CPF or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := app.Database.GetVolunteer(app.Ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get volunteer: %w", err)
			}

			in := services.VolunteerInput{Name: current.Name, CPF: current.CPF, Status: current.Status}
			if cmd.Flags().Changed("name") {
				in.Name, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("cpf") {
				in.CPF, _ = cmd.Flags().GetString("cpf")
			}
			if cmd.Flags().Changed("status") {
				raw, _ := cmd.Flags().GetString("status")
				status, ok := model.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("status must be active or inactive, got: %s", raw)
				}
				in.Status = status
			}

			app.Logger.Debug("editVolunteer command", zap.String("volunteer_id", args[0]))

			volunteer, err := services.UpdateVolunteer(app.Ctx, app.Database, app.Logger, args[0], in)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Volunteer updated: %s (%s) - %s\n\n", volunteer.Name, cpf.Format(volunteer.CPF), volunteer.Status)
			return nil
		},
	}

	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("cpf", "", "New CPF")
	cmd.Flags().String("status", "", "New status (active or inactive)")

	return cmd
}

// RemoveVolunteerCmd creates the removeVolunteer command
func RemoveVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeVolunteer <volunteer_id>",
		Short: "Delete a volunteer and all of their assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteVolunteer(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}
			fmt.Printf("\n✓ Volunteer %s removed\n\n", args[0])
			return nil
		},
	}
}

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listVolunteers",
		Short: "List the volunteers of the ministry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}
			activeOnly, _ := cmd.Flags().GetBool("active")

			volunteers, err := services.ListVolunteers(app.Ctx, app.Database, app.Logger, ministryID, activeOnly)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d volunteers:\n\n", len(volunteers))
			for _, v := range volunteers {
				status := string(v.Status)
				if !v.IsActive() {
					status = colorDim + status + colorReset
				}
				fmt.Printf("- %s (%s) - %s - %s\n", v.Name, v.ID, cpf.Format(v.CPF), status)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("active", false, "Only list active volunteers")

	return cmd
}

// ImportVolunteersCmd creates the importVolunteers command
func ImportVolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importVolunteers",
		Short: "Register volunteers from the roster sheet (Nome, CPF, Status columns)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}

			sheetID := app.Cfg.VolunteerSheetID
			if cmd.Flags().Changed("sheet") {
				sheetID, _ = cmd.Flags().GetString("sheet")
			}
			if sheetID == "" {
				return fmt.Errorf("no roster sheet: pass --sheet or set volunteerSheetID in the config")
			}
			tab := app.Cfg.VolunteersTab
			if cmd.Flags().Changed("tab") {
				tab, _ = cmd.Flags().GetString("tab")
			}

			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}

			result, err := services.ImportVolunteers(app.Ctx, app.Database, sheets, app.Logger, ministryID, sheetID, tab)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster import completed!\n\n")
			if len(result.Created) > 0 {
				fmt.Printf("Registered %d volunteers:\n", len(result.Created))
				for _, v := range result.Created {
					fmt.Printf("  ✓ %s (%s)\n", v.Name, cpf.Format(v.CPF))
				}
				fmt.Println()
			}
			if len(result.Skipped) > 0 {
				fmt.Printf("⚠️  Skipped %d rows:\n", len(result.Skipped))
				for _, s := range result.Skipped {
					fmt.Printf("  ✗ row %d %s: %s\n", s.Row, s.Name, s.Reason)
				}
				fmt.Println()
			}
			if len(result.Created) == 0 && len(result.Skipped) == 0 {
				fmt.Println("The roster tab has no volunteer rows.")
			}

			return nil
		},
	}

	cmd.Flags().String("sheet", "", "Spreadsheet ID (defaults to volunteerSheetID)")
	cmd.Flags().String("tab", "", "Tab name (defaults to volunteersTab)")

	return cmd
}
