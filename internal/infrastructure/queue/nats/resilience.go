package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/infrastructure/resilience"
)

var (
	skip      = resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	transient = resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	permanent = resilience.ErrorClassification{Retryable: false, RecordFailure: true}
)

// classifyNATSError retries connection-level failures. An oversized sync
// payload is the caller's problem and never trips the breaker.
func classifyNATSError(err error) resilience.ErrorClassification {
	switch {
	case err == nil:
		return resilience.ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return skip
	case resilience.IsCircuitOpen(err):
		return skip
	case domain.IsKind(err, domain.ErrInvalidInput), errors.Is(err, nats.ErrMaxPayload):
		return skip
	case errors.Is(err, nats.ErrNoServers),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrConnectionClosed),
		errors.Is(err, nats.ErrDisconnected),
		errors.Is(err, nats.ErrReconnectBufExceeded),
		errors.Is(err, nats.ErrSlowConsumer):
		return transient
	default:
		return permanent
	}
}

func wrapTemporaryIfNeeded(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if errors.Is(err, nats.ErrMaxPayload) {
		return domain.WrapError(domain.ErrInvalidInput, "nats publish sync event", err)
	}
	class := classifyNATSError(err)
	if class.Retryable || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, "nats publish sync event", err)
	}
	return err
}
