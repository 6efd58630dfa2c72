// Package assist is the boundary to the AI collaborators that propose tasks
// and read receipts. Their internals live elsewhere; this package only speaks
// to them and keeps their failures away from the store.
package assist

import (
	"context"
	"errors"

	"github.com/t77yq/lifeos/internal/model"
)

// ErrUnavailable is returned when a collaborator cannot be reached or answers
// with a failure status
var ErrUnavailable = errors.New("assistant unavailable")

// SuggestionSource proposes tasks from the given accounts
type SuggestionSource interface {
	ScanForSuggestions(ctx context.Context, accounts []string) ([]model.Suggestion, error)
}

// ReceiptParser turns a receipt image into line items
type ReceiptParser interface {
	ParseReceipt(ctx context.Context, image []byte) (model.Receipt, error)
}
