package supporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MwizaSimbeye/StreamKick/internal/pkg/env"
)

const defaultLencoAPIBaseURL = "https://api.lenco.co/access/v2"

// Collection statuses reported by the Lenco API. Only "successful" is
// terminal-positive; "failed" is terminal-negative; everything else is
// treated as not-yet-confirmed.
const (
	CollectionStatusSuccessful = "successful"
	CollectionStatusPending    = "pending"
	CollectionStatusFailed     = "failed"
)

// Gateway is the verify-by-reference contract the donation pipeline depends
// on. The call must be idempotent on the processor side.
type Gateway interface {
	VerifyCollection(ctx context.Context, reference string) (*CollectionStatus, error)
}

// LencoClient is a thin adapter over the Lenco collections API.
type LencoClient struct {
	APIKey     string
	APIBaseURL string

	HTTPClient *http.Client
}

// CollectionStatus is the authoritative transaction state by reference.
type CollectionStatus struct {
	Status         string `json:"status"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Type           string `json:"type"`
	Reference      string `json:"reference"`
	LencoReference string `json:"lencoReference"`
	CompletedAt    string `json:"completedAt"`
	MobileMoneyDetails *struct {
		Country  string `json:"country"`
		Phone    string `json:"phone"`
		Operator string `json:"operator"`
	} `json:"mobileMoneyDetails,omitempty"`

	// Raw is the verbatim data object for ledger bookkeeping.
	Raw json.RawMessage `json:"-"`
}

func NewLencoClientFromEnv() *LencoClient {
	return &LencoClient{
		APIKey:     strings.TrimSpace(env.GetEnv("LENCO_API_KEY", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("LENCO_API_BASE_URL", defaultLencoAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// VerifyCollection fetches the collection state for a reference. Transport
// and HTTP-level failures come back wrapped in ErrGatewayUnavailable so
// callers can tell a retryable outage apart from a definitive gateway answer.
func (c *LencoClient) VerifyCollection(ctx context.Context, reference string) (*CollectionStatus, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return nil, errors.New("collection reference is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("LENCO_API_KEY is not configured")
	}

	endpoint := strings.TrimRight(c.APIBaseURL, "/") + "/collections/status/" + url.PathEscape(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrGatewayUnavailable, resp.StatusCode, string(body))
	}

	var envelope struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrGatewayUnavailable, err)
	}
	if !envelope.Status || len(envelope.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGatewayUnavailable, envelope.Message)
	}

	var out CollectionStatus
	if err := json.Unmarshal(envelope.Data, &out); err != nil {
		return nil, fmt.Errorf("%w: malformed collection data: %v", ErrGatewayUnavailable, err)
	}
	out.Raw = append(json.RawMessage(nil), envelope.Data...)
	return &out, nil
}
