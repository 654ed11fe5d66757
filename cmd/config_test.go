package cmd_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"allocator/cmd"
	"allocator/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigFromLookup_Defaults(t *testing.T) {
	config, err := cmd.ConfigFromLookup(lookupFrom(nil))

	require.NoError(t, err)
	assert.Equal(t, "8080", config.HTTPPort)
	assert.Equal(t, 720*time.Hour, config.AllocationRetention)
	assert.Equal(t, "0 0 * * * *", config.AllocationRetentionSchedule)
	assert.False(t, config.AllocationAtomic)
	assert.Equal(t, "allocations", config.KafkaAllocationTopic)
	assert.Nil(t, config.KafkaBrokers())
}

func TestConfigFromLookup_Values(t *testing.T) {
	config, err := cmd.ConfigFromLookup(lookupFrom(map[string]string{
		"HTTP_PORT":                     "9090",
		"DB_HOST":                       "db",
		"DB_PORT":                       "5433",
		"DB_USER":                       "allocator",
		"DB_PASSWORD":                   "secret",
		"DB_NAME":                       "allocations",
		"DB_SSLMODE":                    "require",
		"KAFKA_HOST":                    "k1:9092, k2:9092",
		"KAFKA_ALLOCATION_TOPIC":        "allocation-events",
		"ALLOCATION_RETENTION":          "48h",
		"ALLOCATION_RETENTION_SCHEDULE": "@daily",
		"ALLOCATION_ATOMIC":             "true",
	}))

	require.NoError(t, err)
	assert.Equal(t, "9090", config.HTTPPort)
	assert.Equal(t, "host=db port=5433 user=allocator password=secret dbname=allocations sslmode=require", config.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, config.KafkaBrokers())
	assert.Equal(t, "allocation-events", config.KafkaAllocationTopic)
	assert.Equal(t, 48*time.Hour, config.AllocationRetention)
	assert.Equal(t, "@daily", config.AllocationRetentionSchedule)
	assert.True(t, config.AllocationAtomic)
}

func TestConfigFromLookup_InvalidValuesAreJoined(t *testing.T) {
	_, err := cmd.ConfigFromLookup(lookupFrom(map[string]string{
		"HTTP_PORT":                     "http",
		"ALLOCATION_RETENTION":          "-1h",
		"ALLOCATION_RETENTION_SCHEDULE": "* * *",
		"ALLOCATION_ATOMIC":             "maybe",
	}))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	for _, key := range []string{"HTTP_PORT", "ALLOCATION_RETENTION", "ALLOCATION_RETENTION_SCHEDULE", "ALLOCATION_ATOMIC"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ALLOCATION_RETENTION=2h\nHTTP_PORT=7070\n"), 0o600))
	t.Setenv("HTTP_PORT", "6060")
	t.Cleanup(func() { _ = os.Unsetenv("ALLOCATION_RETENTION") })

	config, err := cmd.LoadConfig(path, filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "6060", config.HTTPPort, "environment wins over the file")
	assert.Equal(t, 2*time.Hour, config.AllocationRetention)
}
