package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"allocator/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	DefaultHTTPPort                    = "8080"
	DefaultKafkaAllocationTopic        = "allocations"
	DefaultAllocationRetention         = 720 * time.Hour
	DefaultAllocationRetentionSchedule = "0 0 * * * *"
)

type Config struct {
	HTTPPort                    string
	DBHost                      string
	DBPort                      string
	DBUser                      string
	DBPassword                  string
	DBName                      string
	DBSslMode                   string
	KafkaHost                   string
	KafkaAllocationTopic        string
	AllocationRetention         time.Duration
	AllocationRetentionSchedule string
	AllocationAtomic            bool
}

// LoadConfig reads the configuration from the environment after loading
// the optional dotenv files. Variables already set in the environment win.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return ConfigFromLookup(os.LookupEnv)
}

// ConfigFromLookup builds a Config from lookup and applies defaults.
// All invalid values are reported together.
func ConfigFromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	config := Config{
		HTTPPort:                    get("HTTP_PORT", DefaultHTTPPort),
		DBHost:                      get("DB_HOST", ""),
		DBPort:                      get("DB_PORT", "5432"),
		DBUser:                      get("DB_USER", ""),
		DBPassword:                  get("DB_PASSWORD", ""),
		DBName:                      get("DB_NAME", ""),
		DBSslMode:                   get("DB_SSLMODE", "disable"),
		KafkaHost:                   get("KAFKA_HOST", ""),
		KafkaAllocationTopic:        get("KAFKA_ALLOCATION_TOPIC", DefaultKafkaAllocationTopic),
		AllocationRetention:         DefaultAllocationRetention,
		AllocationRetentionSchedule: get("ALLOCATION_RETENTION_SCHEDULE", DefaultAllocationRetentionSchedule),
	}

	var configErrs []error

	if port, err := strconv.Atoi(config.HTTPPort); err != nil || port < 1 || port > 65535 {
		configErrs = append(configErrs, errs.NewValueIsInvalidErrorWithCause("HTTP_PORT", fmt.Errorf("%q is not a port", config.HTTPPort)))
	}

	if raw := get("ALLOCATION_RETENTION", ""); raw != "" {
		retention, err := time.ParseDuration(raw)
		switch {
		case err != nil:
			configErrs = append(configErrs, errs.NewValueIsInvalidErrorWithCause("ALLOCATION_RETENTION", err))
		case retention <= 0:
			configErrs = append(configErrs, errs.NewValueIsInvalidErrorWithCause("ALLOCATION_RETENTION", fmt.Errorf("%s is not positive", raw)))
		default:
			config.AllocationRetention = retention
		}
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(config.AllocationRetentionSchedule); err != nil {
		configErrs = append(configErrs, errs.NewValueIsInvalidErrorWithCause("ALLOCATION_RETENTION_SCHEDULE", err))
	}

	if raw := get("ALLOCATION_ATOMIC", ""); raw != "" {
		atomic, err := strconv.ParseBool(raw)
		if err != nil {
			configErrs = append(configErrs, errs.NewValueIsInvalidErrorWithCause("ALLOCATION_ATOMIC", err))
		}
		config.AllocationAtomic = atomic
	}

	if err := errors.Join(configErrs...); err != nil {
		return Config{}, err
	}
	return config, nil
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KAFKA_HOST on commas. Empty means events are disabled.
func (c Config) KafkaBrokers() []string {
	if c.KafkaHost == "" {
		return nil
	}
	brokers := make([]string, 0)
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
