package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeHello        = "hello"
	InboundTypeMemberships  = "memberships"
	InboundTypeParticipants = "participants"
	InboundTypeConnection   = "connection"
	InboundTypeRaisedHands  = "raised_hands"
	InboundTypeReactions    = "reactions"
	InboundTypeViewport     = "viewport"
	InboundTypeVisibleCount = "visible_count"
	InboundTypeGridMode     = "grid_mode"
	InboundTypeExpandToggle = "expand_toggle"
	InboundTypeTap          = "tap"
	InboundTypeHover        = "hover"
	InboundTypeUnhover      = "unhover"
	InboundTypePip          = "pip"
	InboundTypePromote      = "promote"

	OutboundTypeWelcome       = "welcome"
	OutboundTypeLayout        = "layout"
	OutboundTypeMemberChanges = "member_changes"
	OutboundTypeIndicators    = "indicators"
	OutboundTypeGridMode      = "grid_mode"
	OutboundTypeExpanded      = "expanded"
	OutboundTypeChrome        = "chrome"
	OutboundTypeError         = "error"
)

// HelloData is sent by the client to introduce itself.
type HelloData struct {
	Protocol int `json:"protocol,omitempty"`
}

// MemberData is one call member on the wire.
type MemberData struct {
	SenderID    string `json:"sender_id"`
	DeviceID    string `json:"device_id"`
	EventID     string `json:"event_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	CreatedAt   int64  `json:"created_at"` // unix millis
}

// MembershipsData replaces the full membership list.
type MembershipsData struct {
	Members []MemberData `json:"members"`
}

// ParticipantData is one connected media participant on the wire.
type ParticipantData struct {
	Identity          string `json:"identity"` // "senderID:deviceID"
	Local             bool   `json:"local,omitempty"`
	AudioEnabled      bool   `json:"audio_enabled,omitempty"`
	VideoEnabled      bool   `json:"video_enabled,omitempty"`
	Speaking          bool   `json:"speaking,omitempty"`
	ScreenShare       bool   `json:"screen_share,omitempty"`
	EncryptionWarning bool   `json:"encryption_warning,omitempty"`
}

// ParticipantsData replaces the full connected-participant list.
type ParticipantsData struct {
	Participants []ParticipantData `json:"participants"`
}

// ConnectionData reports a media-transport connection transition.
type ConnectionData struct {
	State string `json:"state"` // connected | reconnecting | focus_switching | disconnected
}

// RaisedHandsData replaces the raised-hand set.
type RaisedHandsData struct {
	Hands []string `json:"hands"` // member keys
}

// ReactionsData replaces the per-member reaction map.
type ReactionsData struct {
	Reactions map[string]string `json:"reactions"`
}

// ViewportData reports the rendered viewport size in logical pixels.
type ViewportData struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// VisibleCountData reports how many tiles fit on screen. Zero means all.
type VisibleCountData struct {
	Count int `json:"count"`
}

// GridModeData switches (inbound) or reports (outbound) the persistent
// grid/spotlight preference.
type GridModeData struct {
	Mode string `json:"mode"` // grid | spotlight
}

// PipData toggles the picture-in-picture override.
type PipData struct {
	Enabled bool `json:"enabled"`
}

// PromoteData designates a tile for the spotlight. An empty id clears it.
type PromoteData struct {
	Tile string `json:"tile"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// WelcomeData is the first message on a fresh connection.
type WelcomeData struct {
	Protocol int    `json:"protocol"`
	CallID   string `json:"call_id"`
}

// TileData is one positioned tile inside a layout payload.
type TileData struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"` // user | screen-share
	DisplayName string  `json:"display_name,omitempty"`
	Local       bool    `json:"local,omitempty"`
	Placeholder bool    `json:"placeholder,omitempty"`
	CropVideo   bool    `json:"crop_video,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// LayoutData is one settled layout emission with computed geometry.
type LayoutData struct {
	Variant string     `json:"variant"` // grid | spotlight-landscape | spotlight-portrait | spotlight-expanded | one-on-one | pip
	Tiles   []TileData `json:"tiles"`
}

// MemberChangesData summarizes who joined and left in one settled update.
type MemberChangesData struct {
	Joined []string `json:"joined,omitempty"`
	Left   []string `json:"left,omitempty"`
}

// IndicatorData is the per-tile indicator state.
type IndicatorData struct {
	Speaking   bool   `json:"speaking,omitempty"`
	HandRaised bool   `json:"hand_raised,omitempty"`
	Reaction   string `json:"reaction,omitempty"`
}

// IndicatorsData maps media ids to their indicator state.
type IndicatorsData struct {
	Tiles map[string]IndicatorData `json:"tiles"`
}

// ExpandedData reports the expanded-spotlight flag.
type ExpandedData struct {
	Expanded bool `json:"expanded"`
}

// ChromeData reports header/footer visibility.
type ChromeData struct {
	Visible bool `json:"visible"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
