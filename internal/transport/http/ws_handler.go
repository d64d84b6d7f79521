package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dtereshin/callview/internal/auth"
	"github.com/dtereshin/callview/internal/core"
	"github.com/dtereshin/callview/internal/layout"
	"github.com/dtereshin/callview/internal/obs"
	"github.com/dtereshin/callview/internal/proto"
)

// defaultBounds is used until the client reports its viewport.
var defaultBounds = layout.Bounds{Width: 1280, Height: 720}

// WSHandler upgrades HTTP connections and bridges them to a call session.
type WSHandler struct {
	sessions *core.Sessions
	auth     *auth.Service
	metrics  *Metrics
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(sessions *core.Sessions, authService *auth.Service, metrics *Metrics, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{sessions: sessions, auth: authService, metrics: metrics, log: logger}
}

// wsClient holds per-connection state shared between the loops.
type wsClient struct {
	mu     sync.Mutex
	bounds layout.Bounds
}

func (c *wsClient) setBounds(b layout.Bounds) {
	c.mu.Lock()
	c.bounds = b
	c.mu.Unlock()
}

func (c *wsClient) getBounds() layout.Bounds {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}

// Handle serves GET /ws/:id.
func (h *WSHandler) Handle(c *gin.Context) {
	callID := c.Param("id")

	token := c.Query("token")
	claims, err := h.auth.ValidateCallToken(token, callID)
	if err != nil {
		h.log.Debug().Err(err).Str("call_id", callID).Msg("ws token rejected")
		c.JSON(stdhttp.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	h.metrics.WSClients.Inc()
	defer h.metrics.WSClients.Dec()

	vm := h.sessions.GetOrCreate(callID)
	vm.MemberChanges().OnDrop(h.metrics.DroppedMessages.Inc)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	if err := wsjson.Write(ctx, conn, welcomeOutbound(callID)); err != nil {
		h.log.Warn().Err(err).Msg("write welcome")
		return
	}

	client := &wsClient{bounds: defaultBounds}

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, vm, client, claims)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, vm, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, vm *core.CallViewModel, client *wsClient, claims *auth.Claims) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if inbound.Type == proto.InboundTypeViewport {
			var vp proto.ViewportData
			if err := json.Unmarshal(inbound.Data, &vp); err == nil && vp.Width > 0 && vp.Height > 0 {
				client.setBounds(layout.Bounds{Width: vp.Width, Height: vp.Height})
			}
		}

		protoErr, err := applyInbound(vm, inbound)
		if err != nil {
			h.log.Warn().Err(err).Str("identity", claims.Identity).Msg("failed to map inbound")
			return err
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, vm *core.CallViewModel, client *wsClient) error {
	scope := obs.NewScope()
	defer scope.Close()

	layouts := vm.Layouts().Subscribe(scope, 8)
	changes := vm.MemberChanges().Subscribe(scope, 8)
	indicators := vm.Indicators().Subscribe(scope, 8)
	gridModes := vm.GridModes().Subscribe(scope, 4)
	expanded := vm.SpotlightExpanded().Subscribe(scope, 4)
	chrome := vm.ChromeVisible().Subscribe(scope, 4)

	write := func(out proto.Outbound) error {
		if err := wsjson.Write(ctx, conn, out); err != nil {
			h.log.Error().Err(err).Str("type", out.Type).Msg("write ws outbound")
			return err
		}
		return nil
	}

	for {
		select {
		case l, ok := <-layouts:
			if !ok {
				return nil
			}
			h.metrics.LayoutEmissions.WithLabelValues(l.Kind().String()).Inc()
			if err := write(layoutOutbound(l, client.getBounds())); err != nil {
				return err
			}
		case ch, ok := <-changes:
			if !ok {
				return nil
			}
			if err := write(changesOutbound(ch)); err != nil {
				return err
			}
		case ind, ok := <-indicators:
			if !ok {
				return nil
			}
			if err := write(indicatorsOutbound(ind)); err != nil {
				return err
			}
		case mode, ok := <-gridModes:
			if !ok {
				return nil
			}
			out := proto.Outbound{Type: proto.OutboundTypeGridMode, Data: proto.GridModeData{Mode: mode.String()}}
			if err := write(out); err != nil {
				return err
			}
		case exp, ok := <-expanded:
			if !ok {
				return nil
			}
			out := proto.Outbound{Type: proto.OutboundTypeExpanded, Data: proto.ExpandedData{Expanded: exp}}
			if err := write(out); err != nil {
				return err
			}
		case vis, ok := <-chrome:
			if !ok {
				return nil
			}
			out := proto.Outbound{Type: proto.OutboundTypeChrome, Data: proto.ChromeData{Visible: vis}}
			if err := write(out); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
