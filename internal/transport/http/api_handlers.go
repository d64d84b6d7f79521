package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dtereshin/callview/internal/auth"
	"github.com/dtereshin/callview/internal/core"
	"github.com/dtereshin/callview/internal/mediaengine"
)

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	authService *auth.Service
	sessions    *core.Sessions
	engine      mediaengine.Engine
	metrics     *Metrics
	tokenLimit  *rateLimiter
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance. engine may be nil when
// no media backend is configured.
func NewAPIHandlers(authService *auth.Service, sessions *core.Sessions, engine mediaengine.Engine, metrics *Metrics, tokenLimit *rateLimiter, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		authService: authService,
		sessions:    sessions,
		engine:      engine,
		metrics:     metrics,
		tokenLimit:  tokenLimit,
		log:         logger,
	}
}

// TokenRequest represents the token issuance request body.
type TokenRequest struct {
	SenderID    string `json:"sender_id" binding:"required"`
	DisplayName string `json:"display_name"`
}

// TokenResponse represents the token issuance response body.
type TokenResponse struct {
	Token    string `json:"token"`
	Identity string `json:"identity"`
}

// SessionResponse represents a call session in API responses.
type SessionResponse struct {
	CallID   string `json:"call_id"`
	GridMode string `json:"grid_mode"`
	Expanded bool   `json:"expanded"`
}

// JoinInfoResponse represents media join information in API responses.
type JoinInfoResponse struct {
	URL      string `json:"url"`
	Token    string `json:"token"`
	RoomName string `json:"room_name"`
	Identity string `json:"identity"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IssueToken mints a session token for one sender joining one call.
// POST /api/calls/:id/token
func (h *APIHandlers) IssueToken(c *gin.Context) {
	if !h.tokenLimit.allow() {
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many token requests"})
		return
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid token request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, identity, err := h.authService.IssueCallToken(c.Param("id"), req.SenderID, req.DisplayName)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCallID) || errors.Is(err, auth.ErrInvalidSender) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h.log.Error().Err(err).Str("sender", req.SenderID).Msg("failed to issue token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.metrics.TokensIssued.Inc()
	h.log.Info().Str("call_id", c.Param("id")).Str("identity", identity).Msg("token issued")
	c.JSON(http.StatusCreated, TokenResponse{Token: token, Identity: identity})
}

// GetSession reports the live view state of a call session.
// GET /api/calls/:id
func (h *APIHandlers) GetSession(c *gin.Context) {
	vm, coreErr := h.sessions.Get(c.Param("id"))
	if coreErr != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: coreErr.Message})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		CallID:   vm.CallID(),
		GridMode: vm.GridModes().Get().String(),
		Expanded: vm.SpotlightExpanded().Get(),
	})
}

// GridModeRequest represents the grid-mode change request body.
type GridModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetGridMode switches the persistent layout preference of a session.
// POST /api/calls/:id/grid-mode
func (h *APIHandlers) SetGridMode(c *gin.Context) {
	vm, coreErr := h.sessions.Get(c.Param("id"))
	if coreErr != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: coreErr.Message})
		return
	}

	var req GridModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Mode != "grid" && req.Mode != "spotlight" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "mode must be grid or spotlight"})
		return
	}

	vm.SetGridMode(core.ParseGridMode(req.Mode))
	c.JSON(http.StatusOK, gin.H{"mode": req.Mode})
}

// EndSession tears down a call session.
// DELETE /api/calls/:id
func (h *APIHandlers) EndSession(c *gin.Context) {
	callID := c.Param("id")
	if _, coreErr := h.sessions.Get(callID); coreErr != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: coreErr.Message})
		return
	}

	h.sessions.Destroy(callID)
	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}

// MediaJoinInfo returns SFU join credentials for the authenticated identity.
// GET /api/calls/:id/media
func (h *APIHandlers) MediaJoinInfo(c *gin.Context) {
	if h.engine == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "media backend is not available"})
		return
	}

	identity := c.GetString(ContextKeyIdentity)
	displayName := c.GetString(ContextKeyDisplayName)

	info, err := h.engine.JoinInfo(c.Request.Context(), c.Param("id"), identity, displayName)
	if err != nil {
		h.log.Error().Err(err).Str("call_id", c.Param("id")).Str("identity", identity).Msg("failed to build join info")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "media backend is not available"})
		return
	}

	c.JSON(http.StatusOK, JoinInfoResponse{
		URL:      info.URL,
		Token:    info.Token,
		RoomName: info.RoomName,
		Identity: info.Identity,
	})
}
