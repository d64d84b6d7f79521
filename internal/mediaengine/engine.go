package mediaengine

import "context"

// JoinInfo contains the credentials a client needs to join call media.
type JoinInfo struct {
	URL      string `json:"url"`       // WebSocket URL (e.g., ws://localhost:7880)
	Token    string `json:"token"`     // JWT token for the media server
	RoomName string `json:"room_name"` // media room name
	Identity string `json:"identity"`  // participant identity in the room
}

// Engine abstracts the media backend behind a call.
type Engine interface {
	// JoinInfo creates join credentials for one identity in one call.
	JoinInfo(ctx context.Context, callID, identity, displayName string) (*JoinInfo, error)
}
