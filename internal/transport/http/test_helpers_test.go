package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/dtereshin/callview/internal/auth"
	"github.com/dtereshin/callview/internal/config"
	"github.com/dtereshin/callview/internal/core"
)

type testDeps struct {
	sessions *core.Sessions
	auth     *auth.Service
	metrics  *Metrics
}

func startTestServer(t *testing.T) (*httptest.Server, *testDeps) {
	t.Helper()

	disabledLogger := zerolog.Nop()
	sessions := core.NewSessions(core.DefaultSettings(), clock.New(), &disabledLogger)
	t.Cleanup(sessions.Close)

	authService := auth.NewService(&auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	})
	metrics := NewMetrics(sessions)

	cfg := config.Default()
	cfg.Addr = ":0"
	server := NewServer(sessions, authService, nil, metrics, cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, &testDeps{sessions: sessions, auth: authService, metrics: metrics}
}

func wsURLFor(ts *httptest.Server, callID, token string) string {
	base := strings.Replace(ts.URL, "http", "ws", 1)
	return base + "/ws/" + callID + "?token=" + token
}

func dialWS(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func issueToken(t *testing.T, deps *testDeps, callID string) string {
	t.Helper()
	token, _, err := deps.auth.IssueCallToken(callID, "@tester:example.org", "Tester")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func readOutbound(t *testing.T, ctx context.Context, conn *websocket.Conn) map[string]any {
	t.Helper()
	var out map[string]any
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return out
}

// readUntil drains outbound messages until one matches the wanted type.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, wantType string) map[string]any {
	t.Helper()
	for i := 0; i < 50; i++ {
		out := readOutbound(t, ctx, conn)
		if out["type"] == wantType {
			return out
		}
	}
	t.Fatalf("never saw outbound type %q", wantType)
	return nil
}
