package scheduler

import (
	"context"

	"github.com/t77yq/lifeos/internal/model"
)

// NotificationGenerator re-derives time based notifications
type NotificationGenerator interface {
	// GenerateNotifications adds missing notifications and returns how many were added
	GenerateNotifications() int
}

// SuggestionScanner fetches task suggestions for a set of accounts. It must
// not fail; collaborator errors are absorbed into an empty result.
type SuggestionScanner interface {
	ScanForSuggestions(ctx context.Context, accounts []string) []model.Suggestion
}

// SuggestionSink receives scanned suggestions
type SuggestionSink interface {
	// AddSuggestions surfaces new suggestions and returns the ones kept
	AddSuggestions(suggestions []model.Suggestion) []model.Suggestion
}

// StatsSource takes a household stats sample
type StatsSource interface {
	Collect() model.HouseholdStats
}

// AlertEvaluator raises notifications for a stats sample and returns how many
type AlertEvaluator interface {
	Evaluate(stats model.HouseholdStats) int
}
