// Package config loads server settings from the environment.
//
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win over the file. Command-line
// flags, applied by the caller, win over both.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/warp/hours-engine/calendar"
)

// Config holds everything cmd/server needs to start.
type Config struct {
	Port             string
	DBPath           string
	HolidayCountry   string
	LogLevel         string
	LogJSON          bool
	RolloverEnabled  bool
	RolloverInterval time.Duration
	CORSOrigins      []string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:             "8080",
		DBPath:           "hours.db",
		HolidayCountry:   calendar.DefaultCountry,
		LogLevel:         "info",
		RolloverEnabled:  true,
		RolloverInterval: 24 * time.Hour,
		CORSOrigins:      []string{"*"},
	}
}

// Load reads the optional .env file and the environment on top of Default.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("could not read .env file")
	}
	return FromEnv(Default())
}

// FromEnv overlays environment variables on base.
func FromEnv(base Config) Config {
	cfg := base
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.HolidayCountry = strings.ToUpper(getEnv("HOLIDAY_COUNTRY", cfg.HolidayCountry))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogJSON = getEnvAsBool("LOG_JSON", cfg.LogJSON)
	cfg.RolloverEnabled = getEnvAsBool("ROLLOVER_ENABLED", cfg.RolloverEnabled)
	cfg.RolloverInterval = getEnvAsDuration("ROLLOVER_INTERVAL", cfg.RolloverInterval)
	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
	return cfg
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %q is not a valid port", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	if c.HolidayCountry != "" && c.HolidayCountry != "NONE" {
		if _, err := calendar.NewNationalCalendar(c.HolidayCountry); err != nil {
			errs = append(errs, fmt.Errorf("HOLIDAY_COUNTRY: %w (supported: %s, NONE)", err, strings.Join(calendar.Countries(), ", ")))
		}
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.RolloverEnabled && c.RolloverInterval <= 0 {
		errs = append(errs, errors.New("ROLLOVER_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

// HolidayProvider builds the configured holiday calendar.
// "NONE" disables holidays.
func (c Config) HolidayProvider() (calendar.HolidayProvider, error) {
	if c.HolidayCountry == "NONE" {
		return calendar.NoHolidays{}, nil
	}
	return calendar.NewNationalCalendar(c.HolidayCountry)
}

// ConfigureLogger applies level and format to the standard logrus logger.
func (c Config) ConfigureLogger() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if c.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
