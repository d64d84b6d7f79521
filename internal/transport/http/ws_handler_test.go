package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/dtereshin/callview/internal/proto"
)

func TestWebSocketRequiresToken(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, _, err := websocket.Dial(ctx, wsURLFor(ts, "call-1", "bogus"), nil); err == nil {
		t.Fatal("expected dial to fail without a valid token")
	}
}

func TestWebSocketWelcome(t *testing.T) {
	ts, deps := startTestServer(t)
	token := issueToken(t, deps, "call-1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, wsURLFor(ts, "call-1", token))

	out := readOutbound(t, ctx, conn)
	if out["type"] != proto.OutboundTypeWelcome {
		t.Fatalf("first message type = %v", out["type"])
	}
	data := out["data"].(map[string]any)
	if data["call_id"] != "call-1" || data["protocol"] != float64(proto.ProtocolVersion) {
		t.Fatalf("welcome data = %v", data)
	}
}

func TestWebSocketProtocolVersionMismatch(t *testing.T) {
	ts, deps := startTestServer(t)
	token := issueToken(t, deps, "call-1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, wsURLFor(ts, "call-1", token))
	readOutbound(t, ctx, conn) // welcome

	payload, _ := json.Marshal(proto.HelloData{Protocol: proto.ProtocolVersion + 1})
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeHello, Data: payload}); err != nil {
		t.Fatalf("send hello: %v", err)
	}

	out := readUntil(t, ctx, conn, proto.OutboundTypeError)
	errData := out["error"].(map[string]any)
	if errData["code"] != "unsupported_version" {
		t.Fatalf("expected unsupported_version, got %v", errData)
	}
}

func TestWebSocketLayoutFlow(t *testing.T) {
	ts, deps := startTestServer(t)
	token := issueToken(t, deps, "call-1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, wsURLFor(ts, "call-1", token))
	readOutbound(t, ctx, conn) // welcome

	send := func(msgType string, data any) {
		payload, _ := json.Marshal(data)
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
			t.Fatalf("send %s: %v", msgType, err)
		}
	}

	send(proto.InboundTypeViewport, proto.ViewportData{Width: 1280, Height: 720})
	send(proto.InboundTypeMemberships, proto.MembershipsData{Members: []proto.MemberData{
		{SenderID: "@a:hs", DeviceID: "d1", DisplayName: "Alice", CreatedAt: 1000},
		{SenderID: "@b:hs", DeviceID: "d2", DisplayName: "Bob", CreatedAt: 2000},
		{SenderID: "@c:hs", DeviceID: "d3", DisplayName: "Carol", CreatedAt: 3000},
	}})

	out := readUntil(t, ctx, conn, proto.OutboundTypeLayout)
	data := out["data"].(map[string]any)
	if data["variant"] != "grid" {
		t.Fatalf("variant = %v", data["variant"])
	}
	tiles := data["tiles"].([]any)
	if len(tiles) != 3 {
		t.Fatalf("got %d tiles", len(tiles))
	}
	first := tiles[0].(map[string]any)
	if first["id"] != "@a:hs:d1" || first["placeholder"] != true {
		t.Fatalf("first tile = %v", first)
	}
	if first["width"].(float64) <= 0 || first["height"].(float64) <= 0 {
		t.Fatalf("tile has no geometry: %v", first)
	}
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	ts, deps := startTestServer(t)
	token := issueToken(t, deps, "call-1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, wsURLFor(ts, "call-1", token))
	readOutbound(t, ctx, conn) // welcome

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: "nonsense"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	out := readUntil(t, ctx, conn, proto.OutboundTypeError)
	errData := out["error"].(map[string]any)
	if errData["code"] != "invalid_message" {
		t.Fatalf("expected invalid_message, got %v", errData)
	}
}
