package http

import (
	"testing"

	"github.com/dtereshin/callview/internal/core"
	"github.com/dtereshin/callview/internal/layout"
	"github.com/dtereshin/callview/internal/proto"
)

func TestLayoutOutboundCarriesItemFields(t *testing.T) {
	member := core.Membership{SenderID: "@a:hs", DeviceID: "d1", DisplayName: "Alice"}
	l := core.OneOnOneLayout{
		Local: &core.MediaItem{
			ID:          core.UserMediaID("me:d0"),
			Local:       true,
			DisplayName: "Me",
			Participant: &core.Participant{Identity: "me:d0", Local: true},
		},
		Remote: &core.MediaItem{
			ID:          core.UserMediaID(member.Key()),
			Membership:  &member,
			DisplayName: "Alice",
		},
	}

	out := layoutOutbound(l, layout.Bounds{Width: 1280, Height: 720})
	data := out.Data.(proto.LayoutData)
	if data.Variant != "one-on-one" {
		t.Fatalf("variant = %q", data.Variant)
	}
	if len(data.Tiles) != 2 {
		t.Fatalf("got %d tiles", len(data.Tiles))
	}

	remote := data.Tiles[0]
	if remote.ID != "@a:hs:d1" || remote.DisplayName != "Alice" || !remote.Placeholder {
		t.Fatalf("remote tile = %+v", remote)
	}
	local := data.Tiles[1]
	if !local.Local || local.Placeholder {
		t.Fatalf("local tile = %+v", local)
	}
}

func TestChangesOutbound(t *testing.T) {
	out := changesOutbound(core.MemberChange{
		Joined: []core.MemberKey{"@a:hs:d1"},
		Left:   []core.MemberKey{"@b:hs:d2", "@c:hs:d3"},
	})
	data := out.Data.(proto.MemberChangesData)
	if len(data.Joined) != 1 || data.Joined[0] != "@a:hs:d1" {
		t.Fatalf("joined = %v", data.Joined)
	}
	if len(data.Left) != 2 {
		t.Fatalf("left = %v", data.Left)
	}
}

func TestParseConnectionState(t *testing.T) {
	cases := map[string]core.ConnectionState{
		"connected":       core.ConnectionConnected,
		"reconnecting":    core.ConnectionReconnecting,
		"focus_switching": core.ConnectionFocusSwitching,
		"disconnected":    core.ConnectionDisconnected,
	}
	for s, want := range cases {
		got, ok := parseConnectionState(s)
		if !ok || got != want {
			t.Fatalf("parse %q = %v, %v", s, got, ok)
		}
	}
	if _, ok := parseConnectionState("offline"); ok {
		t.Fatal("expected unknown state to be rejected")
	}
}
