package http

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtereshin/callview/internal/core"
	"github.com/dtereshin/callview/internal/layout"
	"github.com/dtereshin/callview/internal/proto"
)

// applyInbound decodes one inbound envelope and applies it to the
// view-model. A non-nil proto.Error is sent back to the client; a non-nil
// error tears the connection down.
func applyInbound(vm *core.CallViewModel, inbound proto.Inbound) (*proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeHello:
		var hello proto.HelloData
		if err := json.Unmarshal(inbound.Data, &hello); err != nil {
			return nil, err
		}
		if hello.Protocol != 0 && hello.Protocol != proto.ProtocolVersion {
			return &proto.Error{
				Code: "unsupported_version",
				Msg:  fmt.Sprintf("protocol %d is not supported", hello.Protocol),
			}, nil
		}
		return nil, nil

	case proto.InboundTypeMemberships:
		var data proto.MembershipsData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		members := make([]core.Membership, 0, len(data.Members))
		for _, m := range data.Members {
			if m.SenderID == "" || m.DeviceID == "" {
				return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "sender_id and device_id are required"}, nil
			}
			members = append(members, core.Membership{
				SenderID:          m.SenderID,
				DeviceID:          m.DeviceID,
				MembershipEventID: m.EventID,
				DisplayName:       m.DisplayName,
				CreatedAt:         time.UnixMilli(m.CreatedAt),
			})
		}
		vm.UpdateMemberships(members)
		return nil, nil

	case proto.InboundTypeParticipants:
		var data proto.ParticipantsData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		participants := make([]core.Participant, 0, len(data.Participants))
		for _, p := range data.Participants {
			if p.Identity == "" {
				return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "identity is required"}, nil
			}
			participants = append(participants, core.Participant{
				Identity:          core.MemberKey(p.Identity),
				Local:             p.Local,
				AudioEnabled:      p.AudioEnabled,
				VideoEnabled:      p.VideoEnabled,
				Speaking:          p.Speaking,
				ScreenShare:       p.ScreenShare,
				EncryptionWarning: p.EncryptionWarning,
			})
		}
		vm.UpdateParticipants(participants)
		return nil, nil

	case proto.InboundTypeConnection:
		var data proto.ConnectionData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		state, ok := parseConnectionState(data.State)
		if !ok {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: fmt.Sprintf("unknown connection state %q", data.State)}, nil
		}
		vm.UpdateConnectionState(state)
		return nil, nil

	case proto.InboundTypeRaisedHands:
		var data proto.RaisedHandsData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		hands := make(map[core.MemberKey]bool, len(data.Hands))
		for _, key := range data.Hands {
			hands[core.MemberKey(key)] = true
		}
		vm.UpdateRaisedHands(hands)
		return nil, nil

	case proto.InboundTypeReactions:
		var data proto.ReactionsData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		reactions := make(map[core.MemberKey]string, len(data.Reactions))
		for key, emoji := range data.Reactions {
			reactions[core.MemberKey(key)] = emoji
		}
		vm.UpdateReactions(reactions)
		return nil, nil

	case proto.InboundTypeViewport:
		var data proto.ViewportData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if data.Width <= 0 || data.Height <= 0 {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "viewport must be positive"}, nil
		}
		vm.SetViewport(data.Width, data.Height)
		return nil, nil

	case proto.InboundTypeVisibleCount:
		var data proto.VisibleCountData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if data.Count < 0 {
			return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "count must not be negative"}, nil
		}
		vm.SetVisibleTileCount(data.Count)
		return nil, nil

	case proto.InboundTypeGridMode:
		var data proto.GridModeData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		vm.SetGridMode(core.ParseGridMode(data.Mode))
		return nil, nil

	case proto.InboundTypeExpandToggle:
		vm.ToggleSpotlightExpanded()
		return nil, nil

	case proto.InboundTypeTap:
		vm.TapScreen()
		return nil, nil

	case proto.InboundTypeHover:
		vm.HoverScreen()
		return nil, nil

	case proto.InboundTypeUnhover:
		vm.UnhoverScreen()
		return nil, nil

	case proto.InboundTypePip:
		var data proto.PipData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		if data.Enabled {
			vm.EnablePip()
		} else {
			vm.DisablePip()
		}
		return nil, nil

	case proto.InboundTypePromote:
		var data proto.PromoteData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		vm.PromoteTile(core.MediaID(data.Tile))
		return nil, nil

	default:
		return &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func parseConnectionState(s string) (core.ConnectionState, bool) {
	switch s {
	case "connected":
		return core.ConnectionConnected, true
	case "reconnecting":
		return core.ConnectionReconnecting, true
	case "focus_switching":
		return core.ConnectionFocusSwitching, true
	case "disconnected":
		return core.ConnectionDisconnected, true
	default:
		return 0, false
	}
}

// layoutOutbound renders a layout emission into positioned wire tiles for
// the given viewport.
func layoutOutbound(l core.Layout, bounds layout.Bounds) proto.Outbound {
	items := collectItems(l)
	placed := layout.Arrange(l, bounds, layout.DefaultAlignment())

	tiles := make([]proto.TileData, 0, len(placed))
	for _, tile := range placed {
		td := proto.TileData{
			ID:     string(tile.ID),
			X:      tile.Rect.X,
			Y:      tile.Rect.Y,
			Width:  tile.Rect.Width,
			Height: tile.Rect.Height,
		}
		if item := items[tile.ID]; item != nil {
			td.Kind = item.Kind.String()
			td.DisplayName = item.DisplayName
			td.Local = item.Local
			td.Placeholder = item.Placeholder()
			td.CropVideo = item.CropVideo
		}
		tiles = append(tiles, td)
	}

	return proto.Outbound{
		Type: proto.OutboundTypeLayout,
		Data: proto.LayoutData{
			Variant: l.Kind().String(),
			Tiles:   tiles,
		},
	}
}

func collectItems(l core.Layout) map[core.MediaID]*core.MediaItem {
	items := make(map[core.MediaID]*core.MediaItem)
	add := func(list ...*core.MediaItem) {
		for _, it := range list {
			if it != nil {
				items[it.ID] = it
			}
		}
	}
	switch l := l.(type) {
	case core.GridLayout:
		add(l.Spotlight...)
		add(l.Grid...)
	case core.SpotlightLandscapeLayout:
		add(l.Spotlight...)
		add(l.Grid...)
	case core.SpotlightPortraitLayout:
		add(l.Spotlight...)
		add(l.Grid...)
	case core.SpotlightExpandedLayout:
		add(l.Spotlight...)
		add(l.Pip)
	case core.OneOnOneLayout:
		add(l.Local, l.Remote)
	case core.PipLayout:
		add(l.Spotlight)
	}
	return items
}

func changesOutbound(ch core.MemberChange) proto.Outbound {
	data := proto.MemberChangesData{
		Joined: make([]string, 0, len(ch.Joined)),
		Left:   make([]string, 0, len(ch.Left)),
	}
	for _, k := range ch.Joined {
		data.Joined = append(data.Joined, string(k))
	}
	for _, k := range ch.Left {
		data.Left = append(data.Left, string(k))
	}
	return proto.Outbound{Type: proto.OutboundTypeMemberChanges, Data: data}
}

func indicatorsOutbound(ind map[core.MediaID]core.TileIndicators) proto.Outbound {
	tiles := make(map[string]proto.IndicatorData, len(ind))
	for id, ti := range ind {
		tiles[string(id)] = proto.IndicatorData{
			Speaking:   ti.Speaking,
			HandRaised: ti.HandRaised,
			Reaction:   ti.Reaction,
		}
	}
	return proto.Outbound{Type: proto.OutboundTypeIndicators, Data: proto.IndicatorsData{Tiles: tiles}}
}

func welcomeOutbound(callID string) proto.Outbound {
	return proto.Outbound{
		Type: proto.OutboundTypeWelcome,
		Data: proto.WelcomeData{Protocol: proto.ProtocolVersion, CallID: callID},
	}
}
