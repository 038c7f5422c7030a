package config

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Load can run before the meter provider is installed; the counter is resolved
// lazily and load events are dropped silently until then.
var configCounter = sync.OnceValue(func() metric.Int64Counter {
	counter, err := otel.Meter("commerce-backend").Int64Counter("config.validation.events")
	if err != nil {
		return nil
	}
	return counter
})

func recordConfigValidationEvent(ctx context.Context, env, outcome, errorClass string) {
	counter := configCounter()
	if counter == nil {
		return
	}
	if env = strings.TrimSpace(strings.ToLower(env)); env == "" {
		env = "unknown"
	}
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("env", env),
		attribute.String("outcome", outcome),
		attribute.String("error_class", errorClass),
	))
}

func classifyConfigLoadError(err error) string {
	switch {
	case err == nil:
		return "none"
	case strings.Contains(err.Error(), "validate config:"):
		return "validation"
	case strings.Contains(err.Error(), "parse "):
		return "parse"
	default:
		return "load"
	}
}
