package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/capacity-planner/pkg/core/suggestions"
	"github.com/jakechorley/capacity-planner/pkg/core/timemodel"
	"github.com/jakechorley/capacity-planner/pkg/holidays"
)

const (
	configFileBase = "capacity_planner_config"

	// DatabaseURLEnv overrides databaseURL so the connection string can live in a .env file
	DatabaseURLEnv = "DATABASE_URL"
)

// Holiday is a named recurring day off
type Holiday struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule" validate:"required"`
}

// SuggestionConfig bounds the search for alternatives; zero values take the defaults
type SuggestionConfig struct {
	MaxCandidateWorkers int `yaml:"maxCandidateWorkers,omitempty" validate:"omitempty,min=1"`
	MaxAlternates       int `yaml:"maxAlternates,omitempty" validate:"omitempty,min=0"`
	HorizonDays         int `yaml:"horizonDays,omitempty" validate:"omitempty,min=1,max=3660"`
}

// Config represents the application configuration
type Config struct {
	Timezone        string           `yaml:"timezone" validate:"required"`
	DefaultSchedule string           `yaml:"defaultSchedule,omitempty"`
	DatabaseURL     string           `yaml:"databaseURL,omitempty" validate:"required_without=FixturesPath"`
	FixturesPath    string           `yaml:"fixturesPath,omitempty" validate:"required_without=DatabaseURL"`
	WorkingDays     []string         `yaml:"workingDays,omitempty" validate:"dive,required"`
	Holidays        []Holiday        `yaml:"holidays,omitempty" validate:"dive"`
	Suggestions     SuggestionConfig `yaml:"suggestions,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from capacity_planner_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment.
// For example, env="test" looks for capacity_planner_config.test.yaml and .env.test
// before falling back to the unsuffixed names.
func LoadWithEnv(env string) (*Config, error) {
	loadDotEnv(env)

	configPath, err := findConfigFile(env)
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

	if url := os.Getenv(DatabaseURLEnv); url != "" {
		cfg.DatabaseURL = url
	}

	// Relative fixture paths are relative to the config file
	if cfg.FixturesPath != "" && !filepath.IsAbs(cfg.FixturesPath) {
		cfg.FixturesPath = filepath.Join(filepath.Dir(path), cfg.FixturesPath)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the zone, the schedule and the rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if cfg.DefaultSchedule != "" {
		if _, ok := timemodel.TryParseSchedule(cfg.DefaultSchedule); !ok {
			return fmt.Errorf("invalid defaultSchedule %q", cfg.DefaultSchedule)
		}
	}

	for i, day := range cfg.WorkingDays {
		if _, err := holidays.ParseWeekday(day); err != nil {
			return fmt.Errorf("invalid workingDays[%d]: %w", i, err)
		}
	}

	for i, h := range cfg.Holidays {
		if _, err := rrule.StrToRRule(h.RRule); err != nil {
			return fmt.Errorf("invalid rrule in holidays[%d] (%s): %w", i, h.Name, err)
		}
	}

	return nil
}

// Zone loads the configured time zone
func (c *Config) Zone() (*timemodel.Zone, error) {
	return timemodel.LoadZone(c.Timezone)
}

// Schedule returns the configured fallback schedule, or the built-in one
func (c *Config) Schedule() timemodel.Schedule {
	if s, ok := timemodel.TryParseSchedule(c.DefaultSchedule); ok {
		return s
	}
	return timemodel.DefaultSchedule()
}

// Calendar builds the holiday calendar in zone
func (c *Config) Calendar(zone *timemodel.Zone) (*holidays.Calendar, error) {
	workingDays := holidays.DefaultWorkingDays
	if len(c.WorkingDays) > 0 {
		workingDays = make([]time.Weekday, 0, len(c.WorkingDays))
		for _, name := range c.WorkingDays {
			day, err := holidays.ParseWeekday(name)
			if err != nil {
				return nil, err
			}
			workingDays = append(workingDays, day)
		}
	}

	rules := make([]holidays.Rule, 0, len(c.Holidays))
	for _, h := range c.Holidays {
		rules = append(rules, holidays.Rule{Name: h.Name, RRule: h.RRule})
	}

	return holidays.NewCalendar(zone, rules, workingDays)
}

// SearchConfig returns the suggestion search bounds with defaults filled in
func (c *Config) SearchConfig() suggestions.Config {
	cfg := suggestions.DefaultConfig()
	if c.Suggestions.MaxCandidateWorkers > 0 {
		cfg.MaxCandidateWorkers = c.Suggestions.MaxCandidateWorkers
	}
	if c.Suggestions.MaxAlternates > 0 {
		cfg.MaxAlternates = c.Suggestions.MaxAlternates
	}
	if c.Suggestions.HorizonDays > 0 {
		cfg.HorizonDays = c.Suggestions.HorizonDays
	}
	return cfg
}

// loadDotEnv reads .env.<env> then .env if present; existing variables win
func loadDotEnv(env string) {
	var files []string
	if env != "" {
		files = append(files, ".env."+env)
	}
	files = append(files, ".env")

	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(env string) (string, error) {
	var names []string
	if env != "" {
		names = append(names, fmt.Sprintf("%s.%s.yaml", configFileBase, env))
	}
	names = append(names, configFileBase+".yaml")

	dirs := []string{"."}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, homeDir)
	}

	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", names[0])
}
