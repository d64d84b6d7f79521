package core

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Hysteresis thresholds for the speaking indicator. A participant must hold
// voice energy for a full second before the tile lights up, and must stay
// silent for a minute before it dims again.
const (
	SpeakingActivateDelay   = 1000 * time.Millisecond
	SpeakingDeactivateDelay = 60000 * time.Millisecond
)

// SpeakerObserver converts a raw, noisy speaking flag into a debounced one.
// The output transitions to true only after the input has held true for
// SpeakingActivateDelay, and back to false only after SpeakingDeactivateDelay
// of continuous false. A flip back to the previous value cancels the pending
// transition. The output starts false and never repeats a value.
type SpeakerObserver struct {
	mu      sync.Mutex
	clk     clock.Clock
	emit    func(bool)
	raw     bool
	current bool
	pending *clock.Timer
	gen     uint64
	stopped bool
}

// ObserveSpeaker builds a speaker observer that calls emit on every distinct
// debounced transition. emit may be called from a timer goroutine.
func ObserveSpeaker(clk clock.Clock, emit func(bool)) *SpeakerObserver {
	return &SpeakerObserver{clk: clk, emit: emit}
}

// Set feeds the raw speaking value. Repeated identical values are ignored.
func (o *SpeakerObserver) Set(raw bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped || raw == o.raw {
		return
	}
	o.raw = raw
	o.gen++
	if o.pending != nil {
		o.pending.Stop()
		o.pending = nil
	}
	if raw == o.current {
		// Flipped back before the pending transition fired.
		return
	}
	delay := SpeakingDeactivateDelay
	if raw {
		delay = SpeakingActivateDelay
	}
	gen := o.gen
	o.pending = o.clk.AfterFunc(delay, func() { o.fire(gen) })
}

func (o *SpeakerObserver) fire(gen uint64) {
	o.mu.Lock()
	if o.stopped || gen != o.gen || o.raw == o.current {
		o.mu.Unlock()
		return
	}
	o.pending = nil
	o.current = o.raw
	v := o.current
	emit := o.emit
	o.mu.Unlock()

	if emit != nil {
		emit(v)
	}
}

// Current returns the debounced value.
func (o *SpeakerObserver) Current() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Stop cancels any pending transition and silences the observer.
func (o *SpeakerObserver) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopped = true
	if o.pending != nil {
		o.pending.Stop()
		o.pending = nil
	}
}
