package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
)

var ErrPublisherUnavailable = errors.New("allocation event publisher is unavailable")

var (
	_ ports.AllocationEventPublisher = (*AllocationPublisher)(nil)
	_ ports.AllocationEventPublisher = NoopPublisher{}
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BreakerSettings tunes the circuit breaker around the writer.
type BreakerSettings struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings trips after five consecutive failures and probes
// again after thirty seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// AllocationPublisher writes allocation.recorded events.
type AllocationPublisher struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewWriter creates a synchronous kafka-go writer for the topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		Async:        false,
	}
}

// NewAllocationPublisher wraps writer with a circuit breaker.
func NewAllocationPublisher(writer MessageWriter, settings BreakerSettings, logger *slog.Logger) *AllocationPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "AllocationPublisher")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-allocation-publisher",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &AllocationPublisher{writer: writer, breaker: breaker, logger: logger}
}

// PublishAllocationRecorded writes the event for a recorded allocation.
// Returns ErrPublisherUnavailable while the breaker is open.
func (p *AllocationPublisher) PublishAllocationRecorded(ctx context.Context, a *allocation.Allocation) error {
	if err := a.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(newAllocationRecordedEvent(a))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(a.ID().String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "ce-type", Value: []byte(AllocationRecordedEventType)},
			{Key: "ce-id", Value: []byte(a.ID().String())},
			{Key: "ce-time", Value: []byte(a.CreatedAt().Format(time.RFC3339))},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: a.CreatedAt(),
	}

	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.writer.WriteMessages(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrPublisherUnavailable, err)
	}
	if err != nil {
		return fmt.Errorf("failed to write allocation event: %w", err)
	}

	p.logger.DebugContext(ctx, "allocation event published", "allocationId", a.ID().String())
	return nil
}

// State reports the circuit breaker state.
func (p *AllocationPublisher) State() gobreaker.State {
	return p.breaker.State()
}

// Close closes the underlying writer.
func (p *AllocationPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishAllocationRecorded(context.Context, *allocation.Allocation) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
