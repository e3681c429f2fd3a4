package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/agendaccp/agenda-ccp/internal/config"
	"github.com/agendaccp/agenda-ccp/pkg/clients/gmailclient"
	"github.com/agendaccp/agenda-ccp/pkg/clients/sheetsclient"
	"github.com/agendaccp/agenda-ccp/pkg/db"
	"github.com/agendaccp/agenda-ccp/pkg/utils"
)

var errNoMinistry = errors.New("no ministry selected: pass --ministry or set ministryID in the config")

// AppContext holds the application dependencies shared across all commands.
// Google clients are created on first use so that commands which never touch
// Sheets or Gmail don't trigger the OAuth flow.
type AppContext struct {
	Cfg        *config.Config
	Env        string
	MinistryID string
	Database   db.Database
	Migrator   Migrator
	Logger     *zap.Logger
	Ctx        context.Context

	// clock replaces time.Now in tests
	clock func() time.Time

	oauthConfig  *oauth2.Config
	token        *oauth2.Token
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

// Ministry returns the ministry commands act on: the --ministry flag,
// falling back to the configured ministryID
func (app *AppContext) Ministry() (string, error) {
	if app.MinistryID != "" {
		return app.MinistryID, nil
	}
	if app.Cfg != nil && app.Cfg.MinistryID != "" {
		return app.Cfg.MinistryID, nil
	}
	return "", errNoMinistry
}

// now returns the current time in the configured timezone
func (app *AppContext) now() time.Time {
	t := time.Now()
	if app.clock != nil {
		t = app.clock()
	}
	return t.In(app.Cfg.Location())
}

// googleAuth loads the OAuth client and runs the token flow once per session
func (app *AppContext) googleAuth() (*oauth2.Config, *oauth2.Token, error) {
	if app.token != nil {
		return app.oauthConfig, app.token, nil
	}

	app.Logger.Debug("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, nil, err
	}

	token, err := utils.GetTokenWithFlow(app.Ctx, oauthConfig, app.Env, app.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to authorize with Google: %w", err)
	}

	app.oauthConfig = oauthConfig
	app.token = token
	return oauthConfig, token, nil
}

// SheetsClient returns the Sheets client, authorizing on first use
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	oauthConfig, token, err := app.googleAuth()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthConfig, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.sheetsClient = client
	return client, nil
}

// GmailClient returns the Gmail client, authorizing on first use
func (app *AppContext) GmailClient() (*gmailclient.Client, error) {
	if app.gmailClient != nil {
		return app.gmailClient, nil
	}
	if app.Cfg.GmailSender == "" {
		return nil, errors.New("gmailSender is not configured")
	}

	oauthConfig, token, err := app.googleAuth()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing gmail client")
	client, err := gmailclient.NewClient(app.Ctx, oauthConfig, token, app.Cfg.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.gmailClient = client
	return client, nil
}
