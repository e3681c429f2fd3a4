package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agendaccp/agenda-ccp/pkg/core/services"
)

// AnnounceCmd creates the announce command
func AnnounceCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "announce <title> <content>",
		Short: "Publish an announcement to the ministry's volunteers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}

			announcement, err := services.CreateAnnouncement(app.Ctx, app.Database, app.Logger, ministryID, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Announcement published (%s)\n\n", announcement.ID)
			return nil
		},
	}
}

// ListAnnouncementsCmd creates the listAnnouncements command
func ListAnnouncementsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listAnnouncements",
		Short: "List the ministry's announcements, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}
			activeOnly, _ := cmd.Flags().GetBool("active")

			announcements, err := services.ListAnnouncements(app.Ctx, app.Database, app.Logger, ministryID, activeOnly)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d announcements:\n\n", len(announcements))
			for _, a := range announcements {
				state := colorGreen + "visible" + colorReset
				if !a.Active {
					state = colorDim + "hidden" + colorReset
				}
				fmt.Printf("- [%s] %s %s (%s)\n", a.CreatedAt.In(app.Cfg.Location()).Format("02/01/2006 15:04"), a.Title, state, a.ID)
				fmt.Printf("    %s\n", a.Content)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("active", false, "Only list visible announcements")

	return cmd
}

// ToggleAnnouncementCmd creates the toggleAnnouncement command
func ToggleAnnouncementCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggleAnnouncement <announcement_id>",
		Short: "Hide an announcement, or show it again with --show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			show, _ := cmd.Flags().GetBool("show")

			if err := services.SetAnnouncementActive(app.Ctx, app.Database, app.Logger, args[0], show); err != nil {
				return err
			}

			state := "hidden"
			if show {
				state = "visible"
			}
			fmt.Printf("\n✓ Announcement %s is now %s\n\n", args[0], state)
			return nil
		},
	}

	cmd.Flags().Bool("show", false, "Make the announcement visible instead of hiding it")

	return cmd
}

// RemoveAnnouncementCmd creates the removeAnnouncement command
func RemoveAnnouncementCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeAnnouncement <announcement_id>",
		Short: "Delete an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteAnnouncement(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}
			fmt.Printf("\n✓ Announcement %s removed\n\n", args[0])
			return nil
		},
	}
}
