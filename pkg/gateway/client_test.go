package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/icognita1702/festalog/environments"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"local 11-digit mobile gets country code", "19999990000", "5519999990000"},
		{"local 10-digit landline gets country code", "1933334444", "551933334444"},
		{"already prefixed number is untouched", "5519999990000", "5519999990000"},
		{"formatting characters are stripped", "+55 (19) 99999-0000", "5519999990000"},
		{"formatted local number gets country code", "(19) 99999-0000", "5519999990000"},
		{"short number is left alone", "190", "190"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePhone(tc.input); got != tc.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func newTestClient(serverURL string) *Client {
	return NewClient(environments.GatewayConfig{
		BaseURL:  serverURL,
		Instance: "festalog",
		APIKey:   "test-key",
		Timeout:  5 * time.Second,
	})
}

func TestSendText_NormalizesNumberAndSendsAPIKey(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotBody SendTextRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apikey")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"key": {"id": "msg-1"}, "status": "PENDING"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ok, err := client.SendText(context.Background(), "(19) 99999-0000", "Olá!")
	if err != nil {
		t.Fatalf("SendText returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}

	if gotPath != "/message/sendText/festalog" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAPIKey != "test-key" {
		t.Errorf("expected apikey header, got %q", gotAPIKey)
	}
	if gotBody.Number != "5519999990000" {
		t.Errorf("expected normalized number, got %q", gotBody.Number)
	}
	if gotBody.ClientRef == "" {
		t.Errorf("expected a client reference on every send")
	}
}

func TestSendText_UnexpectedStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ok, err := client.SendText(context.Background(), "5519999990000", "Olá!")
	if err == nil {
		t.Fatalf("expected error on 403")
	}
	if ok {
		t.Fatalf("expected ok=false")
	}
}

func TestSendText_FailedSendIsNotRetried(t *testing.T) {
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ok, err := client.SendText(context.Background(), "5519999990000", "Olá!")
	if err == nil {
		t.Fatalf("expected error on 500")
	}
	if ok {
		t.Fatalf("expected ok=false")
	}
	if requests != 1 {
		t.Fatalf("a failed send must be attempted exactly once, got %d requests", requests)
	}
}

func TestGetStatus_OpenStateMeansConnected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instance/connectionState/festalog" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"instance": {"state": "open"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	status, err := client.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus returned error: %v", err)
	}
	if !status.Connected || status.State != "open" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestGetStatus_ClosedStateMeansDisconnected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"instance": {"state": "close"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	status, err := client.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus returned error: %v", err)
	}
	if status.Connected {
		t.Errorf("expected Connected=false for state %q", status.State)
	}
}

func TestCreateInstance_ReturnsQRCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/instance/create" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"instance": {"instanceName": "festalog"}, "qrcode": {"base64": "data:image/png;base64,abc"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	info, err := client.CreateInstance(context.Background())
	if err != nil {
		t.Fatalf("CreateInstance returned error: %v", err)
	}
	if info.Instance != "festalog" || info.QRCode == "" {
		t.Errorf("unexpected instance info: %+v", info)
	}
}
