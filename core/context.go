package core

import "context"

// Context keys for run options
type contextKey string

const (
	suppressSummaryKey contextKey = "suppressSummary"
	runIDKey           contextKey = "runID"
)

// withSuppressSummary marks that terminal summaries should not be printed
func withSuppressSummary(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressSummaryKey, true)
}

// shouldSuppressSummary returns whether terminal summaries should be suppressed from context
func shouldSuppressSummary(ctx context.Context) bool {
	val := ctx.Value(suppressSummaryKey)
	if val == nil {
		return false // default: print summaries
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// WithRunID pins the run ID of the next scorecard built with ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the pinned run ID from context, if any
func getRunID(ctx context.Context) (string, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
