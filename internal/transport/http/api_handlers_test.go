package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dtereshin/callview/internal/core"
)

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestIssueToken(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := postJSON(t, ts.URL+"/api/calls/call-1/token", TokenRequest{
		SenderID:    "@alice:example.org",
		DisplayName: "Alice",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var tok TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tok.Token == "" || tok.Identity == "" {
		t.Fatalf("incomplete response: %+v", tok)
	}
}

func TestIssueTokenRejectsBadBody(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := postJSON(t, ts.URL+"/api/calls/call-1/token", map[string]string{"display_name": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestGetSessionRequiresAuth(t *testing.T) {
	ts, deps := startTestServer(t)
	deps.sessions.GetOrCreate("call-1")

	resp, err := ts.Client().Get(ts.URL + "/api/calls/call-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestGetSessionReportsViewState(t *testing.T) {
	ts, deps := startTestServer(t)
	deps.sessions.GetOrCreate("call-1")
	token := issueToken(t, deps, "call-1")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/calls/call-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var session SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if session.CallID != "call-1" || session.GridMode != "grid" || session.Expanded {
		t.Fatalf("session = %+v", session)
	}
}

func TestAuthRejectsTokenForOtherCall(t *testing.T) {
	ts, deps := startTestServer(t)
	deps.sessions.GetOrCreate("call-2")
	token := issueToken(t, deps, "call-1")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/calls/call-2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestSetGridModeSwitchesSession(t *testing.T) {
	ts, deps := startTestServer(t)
	vm := deps.sessions.GetOrCreate("call-1")
	token := issueToken(t, deps, "call-1")

	payload, _ := json.Marshal(GridModeRequest{Mode: "spotlight"})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/calls/call-1/grid-mode", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	// The command is applied on the view-model loop, so poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for vm.GridModes().Get() != core.GridModeSpotlight {
		if time.Now().After(deadline) {
			t.Fatalf("grid mode = %v", vm.GridModes().Get())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSetGridModeRejectsUnknownMode(t *testing.T) {
	ts, deps := startTestServer(t)
	deps.sessions.GetOrCreate("call-1")
	token := issueToken(t, deps, "call-1")

	payload, _ := json.Marshal(GridModeRequest{Mode: "mosaic"})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/calls/call-1/grid-mode", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestEndSessionDestroysViewModel(t *testing.T) {
	ts, deps := startTestServer(t)
	deps.sessions.GetOrCreate("call-1")
	token := issueToken(t, deps, "call-1")

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/calls/call-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if deps.sessions.Count() != 0 {
		t.Fatalf("session still alive, count = %d", deps.sessions.Count())
	}
}

func TestMediaJoinInfoUnavailableWithoutEngine(t *testing.T) {
	ts, deps := startTestServer(t)
	token := issueToken(t, deps, "call-1")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/calls/call-1/media", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
