package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics defines the interface for recording security-core operation
// metrics. Implementations track operation counts and durations plus the two
// security-relevant events: decrypt throttle trips and key/IV rotations.
type BusinessMetrics interface {
	// RecordOperation records an operation with its status.
	// Domain examples: "crypto", "auth", "records"
	// Operation examples: "encrypt", "decrypt", "generate_id"
	// Status examples: "success", "error"
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the duration of an operation with its status.
	// Duration is recorded in seconds as a histogram for percentile calculations.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordThrottleTrip counts a decrypt call refused by the attempt ceiling.
	RecordThrottleTrip(ctx context.Context)

	// RecordRotation counts a completed rotation. Kind is "key" or "iv".
	RecordRotation(ctx context.Context, kind string)
}

// businessMetrics implements BusinessMetrics using OpenTelemetry metrics.
type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	throttleCounter  metric.Int64Counter
	rotationCounter  metric.Int64Counter
}

// NewBusinessMetrics creates a new BusinessMetrics implementation using the provided meter provider.
// The namespace parameter is used as a prefix for all metric names (e.g., "sam_security").
// Returns error if meters cannot be initialized.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	// Create counter for total operations
	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of security core operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	// Create histogram for operation durations
	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of security core operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	// Create counter for refused decrypt calls
	throttleCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_decrypt_throttle_trips_total", namespace),
		metric.WithDescription("Decrypt calls refused by the consecutive-failure ceiling"),
		metric.WithUnit("{trip}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create throttle counter: %w", err)
	}

	// Create counter for key and IV rotations
	rotationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_rotations_total", namespace),
		metric.WithDescription("Completed key and IV rotations"),
		metric.WithUnit("{rotation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rotation counter: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		throttleCounter:  throttleCounter,
		rotationCounter:  rotationCounter,
	}, nil
}

// RecordOperation increments the operation counter with domain, operation, and status labels.
func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds with domain, operation, and status labels.
func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordThrottleTrip increments the refused-decrypt counter.
func (b *businessMetrics) RecordThrottleTrip(ctx context.Context) {
	b.throttleCounter.Add(ctx, 1)
}

// RecordRotation increments the rotation counter with a kind label.
func (b *businessMetrics) RecordRotation(ctx context.Context, kind string) {
	b.rotationCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

// NoOpBusinessMetrics is a no-op implementation of BusinessMetrics for when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// RecordOperation does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	// No-op
}

// RecordDuration does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	// No-op
}

// RecordThrottleTrip does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordThrottleTrip(ctx context.Context) {
	// No-op
}

// RecordRotation does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordRotation(ctx context.Context, kind string) {
	// No-op
}
