package core

import (
	"fmt"
	"time"
)

// MemberKey uniquely identifies a call member as "senderID:deviceID".
type MemberKey string

// Membership is a room-scoped identity record for a call member. It exists
// independently of whether the member has connected media yet.
type Membership struct {
	SenderID          string
	DeviceID          string
	MembershipEventID string
	DisplayName       string
	CreatedAt         time.Time
}

// Key returns the unique member key for this membership.
func (m Membership) Key() MemberKey {
	return MemberKey(fmt.Sprintf("%s:%s", m.SenderID, m.DeviceID))
}

// ConnectionState describes the media-transport connection as reported by
// the host.
type ConnectionState int

const (
	// ConnectionConnected is the steady state.
	ConnectionConnected ConnectionState = iota
	// ConnectionReconnecting is a transient network loss.
	ConnectionReconnecting
	// ConnectionFocusSwitching is a media-server handover. The participant
	// list may transiently empty and must not cause visible churn.
	ConnectionFocusSwitching
	// ConnectionDisconnected is terminal for this session.
	ConnectionDisconnected
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionConnected:
		return "connected"
	case ConnectionReconnecting:
		return "reconnecting"
	case ConnectionFocusSwitching:
		return "focus_switching"
	case ConnectionDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("connection_state(%d)", int(s))
	}
}

// GridMode is the user's persistent layout preference. It survives temporary
// overrides such as picture-in-picture.
type GridMode int

const (
	// GridModeGrid shows all tiles in an equal-sized grid.
	GridModeGrid GridMode = iota
	// GridModeSpotlight emphasizes one tile (or the active screen-shares).
	GridModeSpotlight
)

func (m GridMode) String() string {
	if m == GridModeSpotlight {
		return "spotlight"
	}
	return "grid"
}

// ParseGridMode maps the wire representation back to a GridMode.
// Unknown values fall back to grid.
func ParseGridMode(s string) GridMode {
	if s == "spotlight" {
		return GridModeSpotlight
	}
	return GridModeGrid
}

// MemberChange summarizes which members joined and left in one settled
// update. Batch updates (e.g. the snapshot on initial connect) are reported
// once, not once per member.
type MemberChange struct {
	Joined []MemberKey
	Left   []MemberKey
}
