package supporter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestLencoClient(serverURL string) *LencoClient {
	return &LencoClient{
		APIKey:     "test-key",
		APIBaseURL: serverURL,
		HTTPClient: http.DefaultClient,
	}
}

func TestVerifyCollection_Successful(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}
		if r.URL.Path != "/collections/status/SK-VIP-abc" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Collection retrieved",
			"data": {
				"status": "successful",
				"amount": "50.00",
				"currency": "ZMW",
				"reference": "SK-VIP-abc",
				"lencoReference": "lc_123"
			}
		}`))
	}))
	defer server.Close()

	client := newTestLencoClient(server.URL)
	status, err := client.VerifyCollection(context.Background(), "SK-VIP-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != CollectionStatusSuccessful {
		t.Fatalf("expected successful status, got %q", status.Status)
	}
	if status.LencoReference != "lc_123" || status.Amount != "50.00" {
		t.Fatalf("unexpected collection data: %+v", status)
	}
	if len(status.Raw) == 0 {
		t.Fatalf("expected raw data object to be preserved")
	}
}

func TestVerifyCollection_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestLencoClient(server.URL)
	if _, err := client.VerifyCollection(context.Background(), "SK-VIP-abc"); !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable for HTTP error, got %v", err)
	}
}

func TestVerifyCollection_EnvelopeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": false, "message": "Collection not found"}`))
	}))
	defer server.Close()

	client := newTestLencoClient(server.URL)
	if _, err := client.VerifyCollection(context.Background(), "SK-VIP-abc"); !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable for rejected envelope, got %v", err)
	}
}

func TestVerifyCollection_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer server.Close()

	client := newTestLencoClient(server.URL)
	if _, err := client.VerifyCollection(context.Background(), "SK-VIP-abc"); !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable for malformed body, got %v", err)
	}
}

func TestVerifyCollection_MissingInputs(t *testing.T) {
	client := newTestLencoClient("http://unused")
	if _, err := client.VerifyCollection(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty reference")
	}

	client.APIKey = ""
	if _, err := client.VerifyCollection(context.Background(), "SK-VIP-abc"); err == nil {
		t.Fatalf("expected error for missing API key")
	}
}
