package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCallID is returned when the call id doesn't meet constraints.
	ErrInvalidCallID = errors.New("invalid call id")
	// ErrInvalidSender is returned when the sender id doesn't meet constraints.
	ErrInvalidSender = errors.New("invalid sender id")
	// ErrCallMismatch is returned when a token was issued for a different call.
	ErrCallMismatch = errors.New("token issued for a different call")
)

// Service issues and validates call-scoped session tokens.
type Service struct {
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(jwtConfig *JWTConfig) *Service {
	return &Service{jwtConfig: jwtConfig}
}

// IssueCallToken mints a token for one sender joining one call. Each token
// carries a fresh device id, so the same sender can hold several sessions.
func (s *Service) IssueCallToken(callID, senderID, displayName string) (token, identity string, err error) {
	callID = strings.TrimSpace(callID)
	if callID == "" || len(callID) > 128 {
		return "", "", ErrInvalidCallID
	}
	senderID = strings.TrimSpace(senderID)
	if senderID == "" || len(senderID) > 255 {
		return "", "", ErrInvalidSender
	}

	identity = fmt.Sprintf("%s:%s", senderID, uuid.NewString())
	token, err = GenerateToken(s.jwtConfig, callID, identity, displayName)
	if err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	return token, identity, nil
}

// ValidateCallToken validates a token and checks it was issued for callID.
func (s *Service) ValidateCallToken(tokenString, callID string) (*Claims, error) {
	claims, err := ValidateToken(s.jwtConfig, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.CallID != callID {
		return nil, ErrCallMismatch
	}
	return claims, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}
