package supporter

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// WebhookEventCollectionSuccessful is the only event type that triggers the
// completion pipeline; every other event is acknowledged and ignored.
const WebhookEventCollectionSuccessful = "collection.successful"

// WebhookEvent is a parsed Lenco webhook delivery.
type WebhookEvent struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	Reference      string `json:"reference"`
	LencoReference string `json:"lencoReference"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	Type           string `json:"type"`
	Customer       *struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"customer,omitempty"`

	// Raw is the verbatim data object, stored on the ledger row.
	Raw json.RawMessage `json:"-"`
}

// ParseWebhookEvent decodes a raw webhook body. Collection events without a
// reference are malformed.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var raw struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Event) == "" {
		return nil, errors.New("webhook payload missing event type")
	}

	out := &WebhookEvent{Event: strings.TrimSpace(raw.Event)}
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, &out.Data); err != nil {
			return nil, err
		}
		out.Data.Raw = append(json.RawMessage(nil), raw.Data...)
	}

	if out.IsCollectionEvent() && strings.TrimSpace(out.Data.Reference) == "" {
		return nil, errors.New("collection webhook payload missing reference")
	}
	return out, nil
}

func (e *WebhookEvent) IsCollectionEvent() bool {
	return strings.HasPrefix(strings.ToLower(e.Event), "collection.")
}

// IsSuccessfulCollection reports whether the event should enter the
// completion pipeline: event type and transaction status must both agree.
func (e *WebhookEvent) IsSuccessfulCollection() bool {
	return strings.EqualFold(e.Event, WebhookEventCollectionSuccessful) &&
		strings.EqualFold(strings.TrimSpace(e.Data.Status), CollectionStatusSuccessful)
}

// VerifyWebhookSignature checks the X-Lenco-Signature header: the lowercase
// hex HMAC-SHA256 of the raw body under the shared webhook secret. An empty
// secret or header never validates.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
