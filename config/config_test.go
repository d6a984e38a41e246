package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/config"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "NL", cfg.HolidayCountry)
	assert.Equal(t, "8080", cfg.Port)
}

func TestFromEnv_OverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/hours-test.db")
	t.Setenv("HOLIDAY_COUNTRY", "de-bw")
	t.Setenv("ROLLOVER_INTERVAL", "1h")
	t.Setenv("ROLLOVER_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://hours.example")
	t.Setenv("LOG_JSON", "true")

	cfg := config.FromEnv(config.Default())

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/hours-test.db", cfg.DBPath)
	assert.Equal(t, "DE-BW", cfg.HolidayCountry)
	assert.Equal(t, time.Hour, cfg.RolloverInterval)
	assert.False(t, cfg.RolloverEnabled)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, []string{"http://localhost:3000", "https://hours.example"}, cfg.CORSOrigins)
}

func TestFromEnv_UnparsableValuesKeepDefaults(t *testing.T) {
	t.Setenv("ROLLOVER_INTERVAL", "daily")
	t.Setenv("ROLLOVER_ENABLED", "maybe")

	cfg := config.FromEnv(config.Default())

	assert.Equal(t, 24*time.Hour, cfg.RolloverInterval)
	assert.True(t, cfg.RolloverEnabled)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Port = "http"
	cfg.DBPath = ""
	cfg.HolidayCountry = "XX"
	cfg.LogLevel = "loud"

	err := cfg.Validate()

	require.Error(t, err)
	for _, want := range []string{"PORT", "DB_PATH", "HOLIDAY_COUNTRY", "LOG_LEVEL"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestHolidayProvider(t *testing.T) {
	cfg := config.Default()
	provider, err := cfg.HolidayProvider()
	require.NoError(t, err)
	assert.NotEmpty(t, provider.Holidays(2026))

	cfg.HolidayCountry = "NONE"
	provider, err = cfg.HolidayProvider()
	require.NoError(t, err)
	assert.Empty(t, provider.Holidays(2026))
}
