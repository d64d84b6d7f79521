// Scripted call feeder: connects to a callview server, replays a small
// call scenario (members joining, a speaker, a screen-share), and prints
// every layout transition the server emits.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/dtereshin/callview/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_feed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	call := flag.String("call", "feed-demo", "call id")
	sender := flag.String("sender", "@feeder:localhost", "sender id for the token")
	width := flag.Float64("width", 1280, "viewport width")
	height := flag.Float64("height", 720, "viewport height")
	timeout := flag.Duration("timeout", 15*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	token, err := fetchToken(ctx, *addr, *call, *sender)
	if err != nil {
		return err
	}

	wsURL := strings.Replace(*addr, "http", "ws", 1) + "/ws/" + *call + "?token=" + token
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, data any) error {
		payload, marshalErr := json.Marshal(data)
		if marshalErr != nil {
			return fmt.Errorf("marshal %s: %w", msgType, marshalErr)
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); writeErr != nil {
			return fmt.Errorf("send %s: %w", msgType, writeErr)
		}
		return nil
	}

	go func() {
		if err := feed(ctx, send, *sender, *width, *height); err != nil {
			log.Printf("feed: %v", err)
		}
	}()

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		printOutbound(outbound)
	}
}

// feed replays the scripted scenario with small pauses so the server's
// speaker hysteresis and layout selection are visible in the output.
func feed(ctx context.Context, send func(string, any) error, sender string, width, height float64) error {
	pause := func(d time.Duration) error {
		select {
		case <-time.After(d):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	me := sender + ":feed-device"
	members := []proto.MemberData{
		{SenderID: sender, DeviceID: "feed-device", DisplayName: "Feeder", CreatedAt: 1000},
		{SenderID: "@alice:localhost", DeviceID: "a1", DisplayName: "Alice", CreatedAt: 2000},
		{SenderID: "@bob:localhost", DeviceID: "b1", DisplayName: "Bob", CreatedAt: 3000},
	}

	if err := send(proto.InboundTypeViewport, proto.ViewportData{Width: width, Height: height}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeMemberships, proto.MembershipsData{Members: members}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeParticipants, proto.ParticipantsData{Participants: []proto.ParticipantData{
		{Identity: me, Local: true, AudioEnabled: true, VideoEnabled: true},
		{Identity: "@alice:localhost:a1", AudioEnabled: true, VideoEnabled: true},
		{Identity: "@bob:localhost:b1", AudioEnabled: true},
	}}); err != nil {
		return err
	}

	// Alice starts talking; after the activation delay she becomes the
	// debounced active speaker.
	if err := pause(500 * time.Millisecond); err != nil {
		return err
	}
	if err := send(proto.InboundTypeParticipants, proto.ParticipantsData{Participants: []proto.ParticipantData{
		{Identity: me, Local: true, AudioEnabled: true, VideoEnabled: true},
		{Identity: "@alice:localhost:a1", AudioEnabled: true, VideoEnabled: true, Speaking: true},
		{Identity: "@bob:localhost:b1", AudioEnabled: true},
	}}); err != nil {
		return err
	}

	// Bob presents; the layout should switch to a spotlight variant.
	if err := pause(2 * time.Second); err != nil {
		return err
	}
	return send(proto.InboundTypeParticipants, proto.ParticipantsData{Participants: []proto.ParticipantData{
		{Identity: me, Local: true, AudioEnabled: true, VideoEnabled: true},
		{Identity: "@alice:localhost:a1", AudioEnabled: true, VideoEnabled: true, Speaking: true},
		{Identity: "@bob:localhost:b1", AudioEnabled: true, ScreenShare: true},
	}})
}

func fetchToken(ctx context.Context, addr, call, sender string) (string, error) {
	body, err := json.Marshal(map[string]string{"sender_id": sender, "display_name": "Feeder"})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+"/api/calls/"+call+"/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("token request: status %d", resp.StatusCode)
	}

	var tok struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	return tok.Token, nil
}

func printOutbound(outbound proto.Outbound) {
	raw, err := json.Marshal(outbound.Data)
	if err != nil {
		fmt.Printf("%s: <unprintable>\n", outbound.Type)
		return
	}

	switch outbound.Type {
	case proto.OutboundTypeLayout:
		var l proto.LayoutData
		if json.Unmarshal(raw, &l) == nil {
			ids := make([]string, 0, len(l.Tiles))
			for _, tile := range l.Tiles {
				ids = append(ids, tile.ID)
			}
			fmt.Printf("layout: %s [%s]\n", l.Variant, strings.Join(ids, ", "))
			return
		}
	case proto.OutboundTypeMemberChanges:
		var ch proto.MemberChangesData
		if json.Unmarshal(raw, &ch) == nil {
			fmt.Printf("members: +%v -%v\n", ch.Joined, ch.Left)
			return
		}
	case proto.OutboundTypeError:
		if outbound.Error != nil {
			fmt.Printf("error: %s (%s)\n", outbound.Error.Msg, outbound.Error.Code)
			return
		}
	}
	fmt.Printf("%s: %s\n", outbound.Type, string(raw))
}
