package core

import (
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// Sessions owns one CallViewModel per active call. The transport layer
// looks sessions up by call id; destroying a session tears down its
// view-model and everything registered against its scope.
type Sessions struct {
	mu       sync.Mutex
	log      *zerolog.Logger
	clk      clock.Clock
	settings Settings
	vms      map[string]*CallViewModel
}

// NewSessions constructs an empty registry. The injected settings apply to
// every view-model it creates.
func NewSessions(settings Settings, clk clock.Clock, logger *zerolog.Logger) *Sessions {
	return &Sessions{
		log:      logger,
		clk:      clk,
		settings: settings,
		vms:      make(map[string]*CallViewModel),
	}
}

// GetOrCreate returns the view-model for callID, creating it on first use.
func (s *Sessions) GetOrCreate(callID string) *CallViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vm, ok := s.vms[callID]; ok {
		return vm
	}
	vm := NewCallViewModel(callID, s.settings, s.clk, s.log)
	s.vms[callID] = vm
	s.log.Info().Str("call", callID).Msg("session created")
	return vm
}

// Get returns the view-model for callID or a call_not_found error.
func (s *Sessions) Get(callID string) (*CallViewModel, *CoreError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vm, ok := s.vms[callID]
	if !ok {
		return nil, coreError(ErrCodeCallNotFound, fmt.Sprintf("no session for call %q", callID))
	}
	return vm, nil
}

// Destroy tears down the view-model for callID. Unknown ids are a no-op.
func (s *Sessions) Destroy(callID string) {
	s.mu.Lock()
	vm, ok := s.vms[callID]
	if ok {
		delete(s.vms, callID)
	}
	s.mu.Unlock()
	if ok {
		vm.Destroy()
		s.log.Info().Str("call", callID).Msg("session destroyed")
	}
}

// Count returns the number of active sessions.
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.vms)
}

// Close destroys every active session.
func (s *Sessions) Close() {
	s.mu.Lock()
	vms := s.vms
	s.vms = make(map[string]*CallViewModel)
	s.mu.Unlock()
	for _, vm := range vms {
		vm.Destroy()
	}
}
