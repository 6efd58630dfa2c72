package scheduler

import (
	"context"

	"go.uber.org/zap"
)

// NotificationScanJob returns a job that re-derives notifications so that
// tasks becoming overdue surface without any mutation.
func NotificationScanJob(generator NotificationGenerator, logger *zap.Logger) func(ctx context.Context) {
	logger = logger.Named("notification-scan")
	return func(ctx context.Context) {
		added := generator.GenerateNotifications()
		if added > 0 {
			logger.Info("Raised notifications", zap.Int("count", added))
		}
	}
}

// SuggestionScanJob returns a job that asks the scanner for suggestions and
// surfaces them through sink.
func SuggestionScanJob(scanner SuggestionScanner, sink SuggestionSink, accounts []string, logger *zap.Logger) func(ctx context.Context) {
	logger = logger.Named("suggestion-scan")
	return func(ctx context.Context) {
		suggestions := scanner.ScanForSuggestions(ctx, accounts)
		surfaced := sink.AddSuggestions(suggestions)
		logger.Info("Scanned for suggestions",
			zap.Int("received", len(suggestions)),
			zap.Int("surfaced", len(surfaced)))
	}
}

// StatsJob returns a job that samples household stats and evaluates alert
// rules against the sample.
func StatsJob(source StatsSource, alerts AlertEvaluator, logger *zap.Logger) func(ctx context.Context) {
	logger = logger.Named("stats")
	return func(ctx context.Context) {
		stats := source.Collect()
		if raised := alerts.Evaluate(stats); raised > 0 {
			logger.Info("Raised alerts", zap.Int("count", raised))
		}
	}
}
