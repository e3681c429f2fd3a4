package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/cmd/cli/commands"
	"github.com/agendaccp/agenda-ccp/internal/config"
	"github.com/agendaccp/agenda-ccp/pkg/postgres"
	"github.com/agendaccp/agenda-ccp/pkg/utils/logging"
)

var (
	env        string
	ministryID string
	app        = &commands.AppContext{}
	database   *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agenda",
		Short: "Agenda CCP CLI - Manage ministry volunteers and service schedules",
		Long: `A CLI tool for managing church ministry volunteers (brigadistas), service events,
assignments and announcements, and for running the volunteer self-service API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&ministryID, "ministry", "m", "", "Ministry ID (defaults to ministryID in the config)")
	_ = rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(
		commands.MigrateCmd(app),
		commands.CreateMinistryCmd(app),
		commands.ListMinistriesCmd(app),
		commands.AddVolunteerCmd(app),
		commands.EditVolunteerCmd(app),
		commands.RemoveVolunteerCmd(app),
		commands.ListVolunteersCmd(app),
		commands.ImportVolunteersCmd(app),
		commands.AddEventCmd(app),
		commands.CreateEventsCmd(app),
		commands.CreateMonthCmd(app),
		commands.RemoveEventCmd(app),
		commands.ListEventsCmd(app),
		commands.AssignCmd(app),
		commands.SelfAssignCmd(app),
		commands.CancelAssignmentCmd(app),
		commands.MyScheduleCmd(app),
		commands.RosterCmd(app),
		commands.AnnounceCmd(app),
		commands.ListAnnouncementsCmd(app),
		commands.ToggleAnnouncementCmd(app),
		commands.RemoveAnnouncementCmd(app),
		commands.PublishScheduleCmd(app),
		commands.AuditCmd(app),
		commands.AutoFillCmd(app),
		commands.CPFCmd(app),
		commands.ServeCmd(app),
		commands.InteractiveCmd(app),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads config, sets up the logger and connects to the database
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.Env = env
	app.MinistryID = ministryID

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger, err = logging.InitLogger(env, app.Cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Configuration loaded",
		zap.String("environment", env),
		zap.String("timezone", app.Cfg.Timezone),
		zap.String("service_days", app.Cfg.ServiceDaysRRule))

	app.Logger.Debug("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Database = database
	app.Migrator = database
	app.Logger.Debug("Database connected")

	return nil
}
