package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/services"
)

// CreateMinistryCmd creates the createMinistry command
func CreateMinistryCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createMinistry <name>",
		Short: "Create a ministry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			description, _ := cmd.Flags().GetString("description")

			app.Logger.Debug("createMinistry command", zap.String("name", args[0]), zap.String("kind", kind))

			ministry, err := services.CreateMinistry(app.Ctx, app.Database, app.Logger, args[0], kind, description)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Ministry created successfully!\n\n")
			fmt.Printf("Ministry ID: %s\n", ministry.ID)
			fmt.Printf("Name:        %s\n", ministry.Name)
			if ministry.Kind != "" {
				fmt.Printf("Kind:        %s\n", ministry.Kind)
			}
			fmt.Println("\nSet ministryID in the config or pass --ministry to work with it.")
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("kind", "", "Ministry kind (e.g. brigada)")
	cmd.Flags().String("description", "", "Free-text description")

	return cmd
}

// ListMinistriesCmd creates the listMinistries command
func ListMinistriesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listMinistries",
		Short: "List all ministries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ministries, err := services.ListMinistries(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d ministries:\n\n", len(ministries))
			for _, m := range ministries {
				kind := ""
				if m.Kind != "" {
					kind = fmt.Sprintf(" [%s]", m.Kind)
				}
				fmt.Printf("- %s (%s)%s\n", m.Name, m.ID, kind)
			}
			fmt.Println()

			return nil
		},
	}
}
