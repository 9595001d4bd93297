package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	cancellation "github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation"
	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/services"
)

func newTestServer() *Server {
	settings := services.ClientSettings{
		Defaults: map[string]string{
			services.SettingRecipient:     "intern@example.com",
			services.SettingSenderAddress: "noreply@example.com",
			services.SettingSenderName:    "congstar",
			services.SettingEmailBody:     "<p>Vielen Dank.</p>",
		},
	}
	module := cancellation.NewInMemoryModule(settings, "http://localhost:8080", nil)
	return New(module, nil, ":0")
}

func submissionBody() []byte {
	return []byte(`{
		"client": "",
		"last name": "Muster",
		"first name": "Max",
		"street": "Hauptstrasse",
		"street number": "12",
		"zipcode": "90402",
		"city": "Nürnberg",
		"email address": "max@example.com",
		"customer ID": "C-100200",
		"mobile phone number": "+49 170 1234567",
		"ordinary termination": true
	}`)
}

func postSubmission(server *Server, body []byte, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/kuendigung", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestSubmitReturnsDownloadURL(t *testing.T) {
	server := newTestServer()

	rr := postSubmission(server, submissionBody(), "203.0.113.7:51000")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		URL    string `json:"url"`
		Result string `json:"result"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Result != "success" {
		t.Fatalf("unexpected result %q", resp.Result)
	}
	if !strings.HasPrefix(resp.URL, "http://localhost:8080/api/kuendigung-download/") {
		t.Fatalf("unexpected url %q", resp.URL)
	}
	if !strings.HasSuffix(resp.URL, "?_format=json") {
		t.Fatalf("url misses format marker: %q", resp.URL)
	}
}

func TestSubmitMissingFieldRejected(t *testing.T) {
	server := newTestServer()

	body := bytes.Replace(submissionBody(), []byte(`"max@example.com"`), []byte(`""`), 1)
	rr := postSubmission(server, body, "203.0.113.7:51000")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "email address") {
		t.Fatalf("error must name the missing field: %s", rr.Body.String())
	}
}

func TestSubmitInvalidJSONRejected(t *testing.T) {
	server := newTestServer()

	rr := postSubmission(server, []byte("{broken"), "203.0.113.7:51000")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSubmitRateLimitedAfterThreshold(t *testing.T) {
	server := newTestServer()

	for i := 0; i < 5; i++ {
		rr := postSubmission(server, submissionBody(), "203.0.113.7:51000")
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d body=%s", i+1, rr.Code, rr.Body.String())
		}
	}

	rr := postSubmission(server, submissionBody(), "203.0.113.7:51000")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after threshold, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDownloadRoundtripSameAddress(t *testing.T) {
	server := newTestServer()

	rr := postSubmission(server, submissionBody(), "203.0.113.7:51000")
	if rr.Code != http.StatusOK {
		t.Fatalf("submit failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	path := strings.TrimPrefix(resp.URL, "http://localhost:8080")

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.7:62000"
	download := httptest.NewRecorder()
	server.mux.ServeHTTP(download, req)

	if download.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", download.Code, download.Body.String())
	}
	if got := download.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := download.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !bytes.HasPrefix(download.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("download payload is not the document")
	}
}

func TestDownloadDeniedForDifferentAddress(t *testing.T) {
	server := newTestServer()

	rr := postSubmission(server, submissionBody(), "203.0.113.7:51000")
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	path := strings.TrimPrefix(resp.URL, "http://localhost:8080")

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "198.51.100.9:40000"
	download := httptest.NewRecorder()
	server.mux.ServeHTTP(download, req)

	if download.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign address, got %d", download.Code)
	}
}

func TestDownloadUnknownDocument(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/kuendigung-download/00000000-0000-0000-0000-000000000000", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDownloadWithoutIDRejected(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/kuendigung-download", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestIdentityHashPrefersForwardedFor(t *testing.T) {
	direct := httptest.NewRequest(http.MethodGet, "/", nil)
	direct.RemoteAddr = "203.0.113.7:51000"

	forwarded := httptest.NewRequest(http.MethodGet, "/", nil)
	forwarded.RemoteAddr = "10.0.0.1:9999"
	forwarded.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if identityHash(direct) != identityHash(forwarded) {
		t.Fatal("forwarded client address must hash to the direct address")
	}
}
