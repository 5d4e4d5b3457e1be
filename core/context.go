package core

import (
	"context"

	"github.com/reusabilityapi/reusability/internal/contract"
)

// Context keys for query options
type contextKey string

const metricsClientKey contextKey = "metricsClient"

// WithMetricsClient makes queries on ctx read from client instead of the configured provider.
func WithMetricsClient(ctx context.Context, client contract.MetricsClient) context.Context {
	return context.WithValue(ctx, metricsClientKey, client)
}

// metricsClientFromContext returns the client set by WithMetricsClient, if any.
func metricsClientFromContext(ctx context.Context) (contract.MetricsClient, bool) {
	client, ok := ctx.Value(metricsClientKey).(contract.MetricsClient)
	return client, ok && client != nil
}
