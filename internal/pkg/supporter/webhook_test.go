package supporter

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"event":"collection.successful","data":{"reference":"SK-VIP-1"}}`)
	secret := "top-secret"
	validSig := signPayload(payload, secret)

	if !VerifyWebhookSignature(payload, validSig, secret) {
		t.Fatalf("expected valid signature to verify")
	}
	if !VerifyWebhookSignature(payload, strings.ToUpper(validSig), secret) {
		t.Fatalf("expected uppercase hex signature to verify")
	}

	tampered := []byte(`{"event":"collection.successful","data":{"reference":"SK-VIP-2"}}`)
	if VerifyWebhookSignature(tampered, validSig, secret) {
		t.Fatalf("expected signature over a different body to fail")
	}
	if VerifyWebhookSignature(payload, validSig, "other-secret") {
		t.Fatalf("expected signature under a different secret to fail")
	}
	if VerifyWebhookSignature(payload, "not-hex!", secret) {
		t.Fatalf("expected non-hex signature to fail")
	}
	if VerifyWebhookSignature(payload, "", secret) {
		t.Fatalf("expected empty signature header to fail")
	}
	if VerifyWebhookSignature(payload, validSig, "") {
		t.Fatalf("expected empty secret to never validate")
	}
}

func TestParseWebhookEvent(t *testing.T) {
	raw := []byte(`{
		"event": "collection.successful",
		"data": {
			"reference": "SK-SUPPORTER-abc",
			"lencoReference": "lc_789",
			"amount": "15.00",
			"currency": "ZMW",
			"status": "successful",
			"type": "mobile-money",
			"customer": { "name": "Chanda M", "phone": "+260970000000" }
		}
	}`)

	ev, err := ParseWebhookEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Event != "collection.successful" {
		t.Fatalf("unexpected event type %q", ev.Event)
	}
	if ev.Data.Reference != "SK-SUPPORTER-abc" || ev.Data.LencoReference != "lc_789" {
		t.Fatalf("unexpected references: %q / %q", ev.Data.Reference, ev.Data.LencoReference)
	}
	if ev.Data.Customer == nil || ev.Data.Customer.Name != "Chanda M" {
		t.Fatalf("expected customer to be parsed, got %+v", ev.Data.Customer)
	}
	if len(ev.Data.Raw) == 0 {
		t.Fatalf("expected raw data object to be preserved")
	}
	if !ev.IsCollectionEvent() {
		t.Fatalf("expected collection.* event to be recognized")
	}
	if !ev.IsSuccessfulCollection() {
		t.Fatalf("expected successful collection to be recognized")
	}
}

func TestParseWebhookEvent_Malformed(t *testing.T) {
	if _, err := ParseWebhookEvent([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
	if _, err := ParseWebhookEvent([]byte(`{"data":{"reference":"SK-1"}}`)); err == nil {
		t.Fatalf("expected error for missing event type")
	}
	if _, err := ParseWebhookEvent([]byte(`{"event":"collection.successful","data":{"amount":"15.00"}}`)); err == nil {
		t.Fatalf("expected error for collection event without reference")
	}
}

func TestIsSuccessfulCollection_RequiresEventAndStatus(t *testing.T) {
	ev, err := ParseWebhookEvent([]byte(`{"event":"collection.successful","data":{"reference":"SK-1","status":"pending"}}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.IsSuccessfulCollection() {
		t.Fatalf("expected pending status to not count as successful")
	}

	ev, err = ParseWebhookEvent([]byte(`{"event":"collection.failed","data":{"reference":"SK-1","status":"failed"}}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.IsSuccessfulCollection() {
		t.Fatalf("expected collection.failed to not count as successful")
	}

	ev, err = ParseWebhookEvent([]byte(`{"event":"transfer.successful","data":{"status":"successful"}}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.IsCollectionEvent() || ev.IsSuccessfulCollection() {
		t.Fatalf("expected non-collection event to be ignored")
	}
}
