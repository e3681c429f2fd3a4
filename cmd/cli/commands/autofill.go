package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/services"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// AutoFillCmd creates the autoFill command
func AutoFillCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoFill [month]",
		Short: "Propose active volunteers for the month's open slots (defaults to next month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ministryID, err := app.Ministry()
			if err != nil {
				return err
			}

			now := app.now()
			next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
			year, month := next.Year(), next.Month()
			if len(args) > 0 {
				if year, month, err = parseMonthArg(args[0], now); err != nil {
					return err
				}
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			maxPerVolunteer, _ := cmd.Flags().GetInt("max")

			app.Logger.Debug("autoFill command",
				zap.Int("year", year),
				zap.String("month", month.String()),
				zap.Bool("dry_run", dryRun),
				zap.Int("max", maxPerVolunteer))

			result, err := services.AutoFillMonth(app.Ctx, app.Database, app.Logger, ministryID, year, month, maxPerVolunteer, dryRun)
			if err != nil {
				return err
			}

			from, to := db.MonthRange(year, month)
			events, err := app.Database.GetEvents(app.Ctx, ministryID, from, to)
			if err != nil {
				return fmt.Errorf("failed to get events: %w", err)
			}
			volunteers, err := app.Database.GetVolunteers(app.Ctx, ministryID)
			if err != nil {
				return fmt.Errorf("failed to get volunteers: %w", err)
			}
			printAutoFill(result, events, volunteers, dryRun)
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show the proposals without storing them")
	cmd.Flags().Int("max", 0, "Most events per volunteer in the month (0 for no limit)")

	return cmd
}

func printAutoFill(result *services.AutoFillResult, events []model.Event, volunteers []model.Volunteer, dryRun bool) {
	eventByID := make(map[string]model.Event, len(events))
	for _, e := range events {
		eventByID[e.ID] = e
	}
	nameByID := make(map[string]string, len(volunteers))
	for _, v := range volunteers {
		nameByID[v.ID] = v.Name
	}

	if dryRun {
		fmt.Printf("\n%sDry run: nothing stored%s\n", colorDim, colorReset)
	}
	fmt.Printf("\n%-24s  %-20s  %s\n", "Data", "Culto", "Brigadista")
	fmt.Println(strings.Repeat("-", 70))
	for _, p := range result.Proposals {
		e := eventByID[p.EventID]
		fmt.Printf("%-24s  %-20s  %s\n", displayDate(e.Date), truncate(e.Title, 20), nameByID[p.VolunteerID])
	}
	fmt.Println()

	// Events per volunteer once the proposals are in
	type volunteerLoad struct {
		name   string
		events int
	}
	loads := make([]volunteerLoad, 0, len(result.Load))
	for id, n := range result.Load {
		loads = append(loads, volunteerLoad{name: nameByID[id], events: n})
	}
	sort.Slice(loads, func(i, j int) bool { return loads[i].name < loads[j].name })
	for _, l := range loads {
		fmt.Printf("  %-30s %d\n", l.name, l.events)
	}
	if len(loads) > 0 {
		fmt.Println()
	}

	if !dryRun {
		fmt.Printf("%s✓ Stored %d assignments%s\n", colorGreen, len(result.Written), colorReset)
	}
	for _, r := range result.Rejected {
		e := eventByID[r.Proposal.EventID]
		fmt.Printf("%s✗ %s %s: %s%s\n", colorRed, displayDate(e.Date), nameByID[r.Proposal.VolunteerID], ruleError(r.Err), colorReset)
	}
	for _, slot := range result.Unfilled {
		fmt.Printf("%s⚠️  %s %s needs %d more%s\n", colorYellow, displayDate(slot.Date), slot.Title, slot.RemainingCapacity(), colorReset)
	}
	fmt.Println()
}
