package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("INOREADER_ACCESS_TOKEN", "test-token")
	t.Setenv("SYNC_HUB_DB_PASSWORD", "test-password")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sync-hub", cfg.ServiceName)
	assert.Equal(t, ":9600", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Minute, cfg.Sync.PullInterval)
	assert.Equal(t, 5*time.Minute, cfg.Sync.PushInterval)
	assert.Equal(t, 100, cfg.Sync.MaxArticlesPerPage)
	assert.Equal(t, 100, cfg.RateLimit.Zone1DailyLimit)
	assert.Equal(t, 100, cfg.RateLimit.Zone2DailyLimit)
	assert.Equal(t, 10, cfg.RateLimit.SafetyBufferPercent)
	assert.Equal(t, 1000, cfg.WriteQueue.Capacity)
	assert.Equal(t, 500*time.Millisecond, cfg.WriteQueue.DebounceWindow)
	assert.Equal(t, 500, cfg.Health.BacklogThreshold)
	assert.InDelta(t, 0.5, cfg.Health.ErrorRateThreshold, 0.001)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SYNC_PULL_INTERVAL", "15m")
	t.Setenv("WRITE_QUEUE_CAPACITY", "250")
	t.Setenv("RATE_LIMIT_SAFETY_BUFFER_PERCENT", "20")
	t.Setenv("HTTP_ADDR", ":8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Sync.PullInterval)
	assert.Equal(t, 250, cfg.WriteQueue.Capacity)
	assert.Equal(t, 20, cfg.RateLimit.SafetyBufferPercent)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := map[string]struct {
		setup       func(*testing.T)
		expectedErr string
	}{
		"missing_access_token": {
			setup: func(t *testing.T) {
				t.Setenv("INOREADER_ACCESS_TOKEN", "")
				t.Setenv("SYNC_HUB_DB_PASSWORD", "pw")
			},
			expectedErr: "INOREADER_ACCESS_TOKEN",
		},
		"missing_db_password": {
			setup: func(t *testing.T) {
				t.Setenv("INOREADER_ACCESS_TOKEN", "token")
				t.Setenv("SYNC_HUB_DB_PASSWORD", "")
			},
			expectedErr: "SYNC_HUB_DB_PASSWORD",
		},
		"invalid_safety_buffer": {
			setup: func(t *testing.T) {
				t.Setenv("INOREADER_ACCESS_TOKEN", "token")
				t.Setenv("SYNC_HUB_DB_PASSWORD", "pw")
				t.Setenv("RATE_LIMIT_SAFETY_BUFFER_PERCENT", "100")
			},
			expectedErr: "safety buffer",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tc.setup(t)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestLoadConfig_MalformedValuesFallBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SYNC_PULL_INTERVAL", "not-a-duration")
	t.Setenv("WRITE_QUEUE_CAPACITY", "many")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Sync.PullInterval)
	assert.Equal(t, 1000, cfg.WriteQueue.Capacity)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host:     "db.local",
		Port:     "5432",
		Name:     "alt",
		User:     "sync_hub_user",
		Password: "secret",
		SSLMode:  "require",
	}.DSN()

	assert.Equal(t, "host=db.local port=5432 dbname=alt user=sync_hub_user password=secret sslmode=require", dsn)
}
