// failover.go - Generic try-remote-else-local control flow

package ai

import (
	"context"

	"github.com/snapspend/expense_ai_service/internal/logger"
)

// WithFallback runs the remote strategy and, on any failure of any kind,
// degrades to the local one. Failures are logged but never propagated -
// downstream features must always produce a best-effort answer.
func WithFallback[T any](ctx context.Context, feature string, remote func(context.Context) (T, error), local func() T) T {
	result, err := remote(ctx)
	if err == nil {
		return result
	}

	pe := CategorizeError(err)
	logger.Get().Warnw("remote AI call failed, using local fallback",
		"feature", feature,
		"category", pe.Category,
		"error", err.Error(),
	)
	return local()
}
