package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/model"
)

const (
	suggestionsPath = "/v1/suggestions"
	receiptsPath    = "/v1/receipts"
	maxResponseSize = 4 << 20
)

type suggestionsRequest struct {
	Accounts []string `json:"accounts"`
}

type suggestionsResponse struct {
	Suggestions []model.Suggestion `json:"suggestions"`
}

type receiptRequest struct {
	Image []byte `json:"image"`
}

// Client talks JSON over HTTP to an assistant service. It implements both
// SuggestionSource and ReceiptParser.
type Client struct {
	logger     *zap.Logger
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		logger:  logger.Named("assist-client"),
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ScanForSuggestions implements SuggestionSource
func (c *Client) ScanForSuggestions(ctx context.Context, accounts []string) ([]model.Suggestion, error) {
	var resp suggestionsResponse
	if err := c.post(ctx, suggestionsPath, suggestionsRequest{Accounts: accounts}, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// ParseReceipt implements ReceiptParser
func (c *Client) ParseReceipt(ctx context.Context, image []byte) (model.Receipt, error) {
	var receipt model.Receipt
	if err := c.post(ctx, receiptsPath, receiptRequest{Image: image}, &receipt); err != nil {
		return model.Receipt{}, err
	}
	return receipt, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Calling assistant", zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
