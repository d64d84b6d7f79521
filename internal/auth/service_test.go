package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()
	return NewService(&JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	})
}

func TestIssueCallToken_RejectsInvalidInput(t *testing.T) {
	svc := newTestAuthService(t)

	if _, _, err := svc.IssueCallToken("", "@alice:example.org", "Alice"); !errors.Is(err, ErrInvalidCallID) {
		t.Fatalf("expected ErrInvalidCallID, got %v", err)
	}
	if _, _, err := svc.IssueCallToken("  ", "@alice:example.org", "Alice"); !errors.Is(err, ErrInvalidCallID) {
		t.Fatalf("expected ErrInvalidCallID, got %v", err)
	}
	if _, _, err := svc.IssueCallToken("call-1", "   ", "Alice"); !errors.Is(err, ErrInvalidSender) {
		t.Fatalf("expected ErrInvalidSender, got %v", err)
	}
}

func TestIssueCallToken_RoundTrip(t *testing.T) {
	svc := newTestAuthService(t)

	token, identity, err := svc.IssueCallToken("call-1", "@alice:example.org", "Alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !strings.HasPrefix(identity, "@alice:example.org:") {
		t.Fatalf("identity = %q", identity)
	}

	claims, err := svc.ValidateCallToken(token, "call-1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.CallID != "call-1" || claims.Identity != identity || claims.DisplayName != "Alice" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestIssueCallToken_FreshDevicePerToken(t *testing.T) {
	svc := newTestAuthService(t)

	_, a, err := svc.IssueCallToken("call-1", "@alice:example.org", "Alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, b, err := svc.IssueCallToken("call-1", "@alice:example.org", "Alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct identities, both %q", a)
	}
}

func TestValidateCallToken_RejectsOtherCall(t *testing.T) {
	svc := newTestAuthService(t)

	token, _, err := svc.IssueCallToken("call-1", "@alice:example.org", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ValidateCallToken(token, "call-2"); !errors.Is(err, ErrCallMismatch) {
		t.Fatalf("expected ErrCallMismatch, got %v", err)
	}
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	svc := newTestAuthService(t)
	other := NewService(&JWTConfig{
		Secret:   []byte("another-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	})

	token, _, err := other.IssueCallToken("call-1", "@alice:example.org", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	cfg := &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      -time.Minute,
	}
	svc := NewService(cfg)

	token, _, err := svc.IssueCallToken("call-1", "@alice:example.org", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}
