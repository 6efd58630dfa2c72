package assist

import (
	"context"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/model"
)

// Guard wraps the collaborators so that a failure never reaches the caller:
// errors are logged and replaced by an empty suggestion list or an empty
// receipt. A nil collaborator behaves like one that always fails.
type Guard struct {
	logger      *zap.Logger
	suggestions SuggestionSource
	receipts    ReceiptParser
}

// NewGuard creates a guard around the given collaborators
func NewGuard(suggestions SuggestionSource, receipts ReceiptParser, logger *zap.Logger) *Guard {
	return &Guard{
		logger:      logger.Named("assist"),
		suggestions: suggestions,
		receipts:    receipts,
	}
}

// ScanForSuggestions returns the source's suggestions, or none on failure
func (g *Guard) ScanForSuggestions(ctx context.Context, accounts []string) []model.Suggestion {
	if g.suggestions == nil {
		return nil
	}

	suggestions, err := g.suggestions.ScanForSuggestions(ctx, accounts)
	if err != nil {
		g.logger.Warn("Suggestion scan failed",
			zap.Strings("accounts", accounts),
			zap.Error(err))
		return nil
	}
	return suggestions
}

// ParseReceipt returns the parsed receipt, or a receipt with no items on failure
func (g *Guard) ParseReceipt(ctx context.Context, image []byte) model.Receipt {
	if g.receipts == nil {
		return model.Receipt{}
	}

	receipt, err := g.receipts.ParseReceipt(ctx, image)
	if err != nil {
		g.logger.Warn("Receipt parsing failed",
			zap.Int("image_bytes", len(image)),
			zap.Error(err))
		return model.Receipt{}
	}
	return receipt
}
