package livekit

import (
	"context"
	"errors"
	"fmt"
	"time"

	lkauth "github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"

	"github.com/dtereshin/callview/internal/core"
	"github.com/dtereshin/callview/internal/mediaengine"
)

// ErrNotConfigured is returned when the SFU credentials are missing.
var ErrNotConfigured = errors.New("livekit is not configured")

// Engine implements mediaengine.Engine using LiveKit as the media backend.
type Engine struct {
	apiKey    string
	apiSecret string
	wsURL     string
}

// New creates a new LiveKit engine.
func New(apiKey, apiSecret, wsURL string) *Engine {
	return &Engine{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		wsURL:     wsURL,
	}
}

// JoinInfo creates join credentials for the identity. LiveKit creates rooms
// on demand when the first participant joins, so the room name is derived
// from the call id and nothing is provisioned here.
func (e *Engine) JoinInfo(_ context.Context, callID, identity, displayName string) (*mediaengine.JoinInfo, error) {
	if e.apiKey == "" || e.apiSecret == "" {
		return nil, ErrNotConfigured
	}

	roomName := fmt.Sprintf("callview-%s", callID)

	at := lkauth.NewAccessToken(e.apiKey, e.apiSecret)
	grant := &lkauth.VideoGrant{
		RoomJoin: true,
		Room:     roomName,
	}
	at.SetVideoGrant(grant).
		SetIdentity(identity).
		SetName(displayName).
		SetValidFor(time.Hour)

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &mediaengine.JoinInfo{
		URL:      e.wsURL,
		Token:    token,
		RoomName: roomName,
		Identity: identity,
	}, nil
}

// MapParticipants converts SFU participant snapshots into view-model
// participants. speakers carries the currently active speaker set;
// localIdentity marks which participant is this client.
func MapParticipants(infos []*livekit.ParticipantInfo, speakers []*livekit.SpeakerInfo, localIdentity string) []core.Participant {
	active := make(map[string]bool, len(speakers))
	for _, s := range speakers {
		if s.Active {
			active[s.Identity] = true
		}
	}

	out := make([]core.Participant, 0, len(infos))
	for _, pi := range infos {
		p := core.Participant{
			Identity: core.MemberKey(pi.Identity),
			Local:    pi.Identity == localIdentity,
			Speaking: active[pi.Identity],
		}
		for _, tr := range pi.Tracks {
			if tr.Muted {
				continue
			}
			switch {
			case tr.Source == livekit.TrackSource_SCREEN_SHARE:
				p.ScreenShare = true
			case tr.Type == livekit.TrackType_AUDIO:
				p.AudioEnabled = true
			case tr.Type == livekit.TrackType_VIDEO:
				p.VideoEnabled = true
			}
		}
		out = append(out, p)
	}
	return out
}

// Ensure Engine implements mediaengine.Engine
var _ mediaengine.Engine = (*Engine)(nil)
