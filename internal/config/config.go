package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServiceDaysRRule = "FREQ=WEEKLY;BYDAY=WE,SU"
	DefaultTimezone         = "America/Sao_Paulo"
	DefaultListenAddr       = ":8080"
	DefaultLogDir           = "logs"
	DefaultVolunteersTab    = "Brigadistas"
)

// HTTPConfig configures the self-service API server
type HTTPConfig struct {
	ListenAddr string `yaml:"listenAddr,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL          string     `yaml:"databaseURL" validate:"required"`
	MinistryID           string     `yaml:"ministryID,omitempty" validate:"omitempty,uuid"`
	DefaultRequiredCount int        `yaml:"defaultRequiredCount" validate:"required,min=1"`
	ServiceDaysRRule     string     `yaml:"serviceDaysRRule,omitempty"`
	Timezone             string     `yaml:"timezone,omitempty"`
	HTTP                 HTTPConfig `yaml:"http,omitempty"`
	ScheduleSheetID      string     `yaml:"scheduleSheetID,omitempty"`
	VolunteerSheetID     string     `yaml:"volunteerSheetID,omitempty"`
	VolunteersTab        string     `yaml:"volunteersTab,omitempty"`
	GmailSender          string     `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	NotifyRecipients     []string   `yaml:"notifyRecipients,omitempty" validate:"dive,email"`
	LogDir               string     `yaml:"logDir,omitempty"`

	location *time.Location
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="prod" looks for "agenda_config.prod.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile(envFileName("agenda_config", env, "yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration, fills in defaults and resolves the timezone
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.ServiceDaysRRule == "" {
		cfg.ServiceDaysRRule = DefaultServiceDaysRRule
	}
	if _, err := rrule.StrToRRule(cfg.ServiceDaysRRule); err != nil {
		return fmt.Errorf("invalid rrule in serviceDaysRRule: %w", err)
	}

	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	if cfg.HTTP.ListenAddr == "" {
		cfg.HTTP.ListenAddr = DefaultListenAddr
	}
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir
	}
	if cfg.VolunteersTab == "" {
		cfg.VolunteersTab = DefaultVolunteersTab
	}

	return nil
}

// Location returns the configured timezone, UTC before Validate has run
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// envFileName builds "<base>.<env>.<ext>", or "<base>.<ext>" when env is empty
func envFileName(base, env, ext string) string {
	if env == "" {
		return base + "." + ext
	}
	return base + "." + env + "." + ext
}

// findFile searches for fileName in current directory and home directory
func findFile(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
