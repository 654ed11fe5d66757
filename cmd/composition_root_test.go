package cmd

import (
	"log/slog"
	"testing"

	"allocator/internal/adapters/out/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventPublisher(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	noop := newEventPublisher(Config{}, logger)
	assert.IsType(t, kafka.NoopPublisher{}, noop)

	publisher := newEventPublisher(Config{KafkaHost: "localhost:9092", KafkaAllocationTopic: "allocations"}, logger)
	assert.IsType(t, &kafka.AllocationPublisher{}, publisher)
	require.NoError(t, publisher.Close())
}
