package core

import (
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/dtereshin/callview/internal/obs"
)

// CallViewModel is the reactive state machine behind one call UI. It
// consumes membership, participant, connection, and reaction updates plus
// host commands, and emits a single settled Layout per logical tick.
//
// All state is owned by the internal loop goroutine; public methods only
// post events. A burst of synchronous updates is coalesced into one
// emission so consumers never observe transient intermediate states.
type CallViewModel struct {
	callID   string
	settings Settings
	clk      clock.Clock
	log      zerolog.Logger

	events chan event
	quit   chan struct{}
	done   chan struct{}
	stop   sync.Once

	scope *obs.Scope

	layouts           *obs.Behavior[Layout]
	gridModes         *obs.Behavior[GridMode]
	spotlightExpanded *obs.Behavior[bool]
	chromeVisible     *obs.Behavior[bool]
	indicators        *obs.Behavior[map[MediaID]TileIndicators]
	memberChanges     *obs.Stream[MemberChange]

	st vmState
}

type vmState struct {
	memberships  []Membership
	memberSet    map[MemberKey]int // index into memberships
	participants map[MemberKey]Participant
	observers    map[MemberKey]*SpeakerObserver
	speaking     map[MemberKey]bool
	hands        map[MemberKey]bool
	reactions    map[MemberKey]string

	conn   ConnectionState
	frozen bool

	gridMode GridMode
	expanded bool
	pip      bool

	hovering    bool
	chrome      bool
	chromeGen   uint64
	chromeTimer *clock.Timer

	visibleCount         int
	viewportW, viewportH float64

	lastSpeaker MemberKey
	promoted    MediaID

	shareSeq   uint64
	shareOrder map[MediaID]uint64

	tiles TileStore

	prevMembers    []MemberKey
	lastLayout     Layout
	lastIndicators map[MediaID]TileIndicators
}

// NewCallViewModel constructs a view-model for one call and starts its loop.
// Settings are injected explicitly; the clock is mockable for tests.
func NewCallViewModel(callID string, settings Settings, clk clock.Clock, logger *zerolog.Logger) *CallViewModel {
	if settings.ChromeHideDelay <= 0 {
		settings.ChromeHideDelay = DefaultChromeHideDelay
	}
	vm := &CallViewModel{
		callID:   callID,
		settings: settings,
		clk:      clk,
		log:      logger.With().Str("call", callID).Logger(),

		events: make(chan event, 64),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),

		scope: obs.NewScope(),

		layouts:           obs.NewBehavior[Layout](),
		gridModes:         obs.NewBehaviorOf(GridModeGrid),
		spotlightExpanded: obs.NewBehaviorOf(false),
		chromeVisible:     obs.NewBehaviorOf(true),
		indicators:        obs.NewBehavior[map[MediaID]TileIndicators](),
		memberChanges:     obs.NewStream[MemberChange](),

		st: vmState{
			memberSet:    make(map[MemberKey]int),
			participants: make(map[MemberKey]Participant),
			observers:    make(map[MemberKey]*SpeakerObserver),
			speaking:     make(map[MemberKey]bool),
			hands:        make(map[MemberKey]bool),
			reactions:    make(map[MemberKey]string),
			shareOrder:   make(map[MediaID]uint64),
			conn:         ConnectionConnected,
		},
	}
	go vm.run()
	return vm
}

// CallID returns the id this view-model was created for.
func (vm *CallViewModel) CallID() string { return vm.callID }

// Layouts is the current-layout observable. New subscribers receive the
// latest layout immediately.
func (vm *CallViewModel) Layouts() *obs.Behavior[Layout] { return vm.layouts }

// GridModes is the persistent user grid-mode preference observable.
func (vm *CallViewModel) GridModes() *obs.Behavior[GridMode] { return vm.gridModes }

// SpotlightExpanded is the expanded-spotlight flag observable.
func (vm *CallViewModel) SpotlightExpanded() *obs.Behavior[bool] { return vm.spotlightExpanded }

// ChromeVisible is the header/footer visibility observable.
func (vm *CallViewModel) ChromeVisible() *obs.Behavior[bool] { return vm.chromeVisible }

// Indicators is the per-tile speaking/raised-hand/reaction observable.
func (vm *CallViewModel) Indicators() *obs.Behavior[map[MediaID]TileIndicators] {
	return vm.indicators
}

// MemberChanges is the joined/left summary observable, coalesced per settled
// tick.
func (vm *CallViewModel) MemberChanges() *obs.Stream[MemberChange] { return vm.memberChanges }

// UpdateMemberships replaces the full membership list.
func (vm *CallViewModel) UpdateMemberships(members []Membership) {
	vm.post(membershipsEvent{members: members})
}

// UpdateParticipants replaces the full connected-participant list.
func (vm *CallViewModel) UpdateParticipants(participants []Participant) {
	vm.post(participantsEvent{participants: participants})
}

// UpdateConnectionState reports a connection-state transition.
func (vm *CallViewModel) UpdateConnectionState(state ConnectionState) {
	vm.post(connStateEvent{state: state})
}

// UpdateRaisedHands replaces the raised-hand map.
func (vm *CallViewModel) UpdateRaisedHands(hands map[MemberKey]bool) {
	vm.post(raisedHandsEvent{hands: hands})
}

// UpdateReactions replaces the per-member reaction map.
func (vm *CallViewModel) UpdateReactions(reactions map[MemberKey]string) {
	vm.post(reactionsEvent{reactions: reactions})
}

// SetViewport reports the rendered viewport size in logical pixels.
func (vm *CallViewModel) SetViewport(width, height float64) {
	vm.post(viewportEvent{width: width, height: height})
}

// Do executes a host UI command.
func (vm *CallViewModel) Do(cmd Command) {
	vm.post(commandEvent{cmd: cmd})
}

// SetGridMode switches the persistent grid/spotlight preference.
func (vm *CallViewModel) SetGridMode(mode GridMode) {
	vm.Do(Command{Kind: CommandSetGridMode, GridMode: mode})
}

// ToggleSpotlightExpanded flips the expanded-spotlight state.
func (vm *CallViewModel) ToggleSpotlightExpanded() {
	vm.Do(Command{Kind: CommandToggleSpotlightExpanded})
}

// TapScreen toggles the auto-hiding chrome.
func (vm *CallViewModel) TapScreen() { vm.Do(Command{Kind: CommandTapScreen}) }

// HoverScreen pins the chrome visible.
func (vm *CallViewModel) HoverScreen() { vm.Do(Command{Kind: CommandHoverScreen}) }

// UnhoverScreen releases the hover pin.
func (vm *CallViewModel) UnhoverScreen() { vm.Do(Command{Kind: CommandUnhoverScreen}) }

// SetVisibleTileCount reports how many tiles currently fit on screen.
func (vm *CallViewModel) SetVisibleTileCount(n int) {
	vm.Do(Command{Kind: CommandSetVisibleTileCount, Count: n})
}

// EnablePip activates the picture-in-picture override. The underlying
// grid-mode memory is preserved.
func (vm *CallViewModel) EnablePip() { vm.Do(Command{Kind: CommandEnablePip}) }

// DisablePip deactivates the picture-in-picture override.
func (vm *CallViewModel) DisablePip() { vm.Do(Command{Kind: CommandDisablePip}) }

// PromoteTile designates a tile for the spotlight. An empty id clears the
// promotion.
func (vm *CallViewModel) PromoteTile(id MediaID) {
	vm.Do(Command{Kind: CommandPromoteTile, Tile: id})
}

// Destroy tears down the loop, all timers, and all subscriptions. Safe to
// call more than once.
func (vm *CallViewModel) Destroy() {
	vm.stop.Do(func() { close(vm.quit) })
	<-vm.done
}

func (vm *CallViewModel) post(e event) {
	select {
	case vm.events <- e:
	case <-vm.quit:
	}
}

func (vm *CallViewModel) run() {
	defer close(vm.done)
	for {
		var first event
		select {
		case first = <-vm.events:
		case <-vm.quit:
			vm.teardown()
			return
		}

		batch := []event{first}
	drain:
		for {
			select {
			case e := <-vm.events:
				batch = append(batch, e)
			default:
				break drain
			}
		}

		for _, e := range batch {
			vm.apply(e)
		}
		vm.emit()
	}
}

func (vm *CallViewModel) teardown() {
	for _, o := range vm.st.observers {
		o.Stop()
	}
	if vm.st.chromeTimer != nil {
		vm.st.chromeTimer.Stop()
	}
	vm.layouts.Close()
	vm.gridModes.Close()
	vm.spotlightExpanded.Close()
	vm.chromeVisible.Close()
	vm.indicators.Close()
	vm.memberChanges.Close()
	vm.scope.Close()
	vm.log.Debug().Msg("view-model destroyed")
}

func (vm *CallViewModel) apply(e event) {
	st := &vm.st
	switch e := e.(type) {
	case membershipsEvent:
		members := append([]Membership(nil), e.members...)
		sort.SliceStable(members, func(i, j int) bool {
			if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
				return members[i].CreatedAt.Before(members[j].CreatedAt)
			}
			return members[i].Key() < members[j].Key()
		})
		st.memberships = members
		st.memberSet = make(map[MemberKey]int, len(members))
		for i, m := range members {
			st.memberSet[m.Key()] = i
		}
		vm.pruneDeparted()

	case participantsEvent:
		st.participants = make(map[MemberKey]Participant, len(e.participants))
		for _, p := range e.participants {
			st.participants[p.Identity] = p
		}
		vm.feedSpeakers(e.participants)
		vm.trackShares(e.participants)
		vm.pruneDeparted()

	case connStateEvent:
		prev := st.conn
		st.conn = e.state
		switch e.state {
		case ConnectionFocusSwitching, ConnectionDisconnected:
			st.frozen = true
		default:
			st.frozen = false
		}
		if prev != e.state {
			vm.log.Debug().Stringer("from", prev).Stringer("to", e.state).Msg("connection state")
		}

	case raisedHandsEvent:
		st.hands = make(map[MemberKey]bool, len(e.hands))
		for k, v := range e.hands {
			if v {
				st.hands[k] = true
			}
		}

	case reactionsEvent:
		st.reactions = make(map[MemberKey]string, len(e.reactions))
		for k, v := range e.reactions {
			if v != "" {
				st.reactions[k] = v
			}
		}

	case viewportEvent:
		if e.width > 0 && e.height > 0 {
			st.viewportW, st.viewportH = e.width, e.height
		}

	case speakerEvent:
		st.speaking[e.key] = e.speaking
		if e.speaking {
			if p, ok := st.participants[e.key]; ok && !p.Local {
				st.lastSpeaker = e.key
			}
		}

	case chromeHideEvent:
		if e.gen == st.chromeGen && !st.hovering && st.chrome {
			st.chrome = false
			vm.chromeVisible.Publish(false)
		}

	case commandEvent:
		vm.applyCommand(e.cmd)
	}
}

func (vm *CallViewModel) applyCommand(cmd Command) {
	st := &vm.st
	switch cmd.Kind {
	case CommandSetGridMode:
		if st.gridMode != cmd.GridMode {
			st.gridMode = cmd.GridMode
			vm.gridModes.Publish(st.gridMode)
		}

	case CommandToggleSpotlightExpanded:
		st.expanded = !st.expanded
		vm.spotlightExpanded.Publish(st.expanded)

	case CommandTapScreen:
		if st.chrome {
			st.chrome = false
			st.chromeGen++
			vm.chromeVisible.Publish(false)
		} else {
			vm.showChrome(true)
		}

	case CommandHoverScreen:
		st.hovering = true
		vm.showChrome(false)

	case CommandUnhoverScreen:
		st.hovering = false
		vm.armChromeHide()

	case CommandSetVisibleTileCount:
		if cmd.Count >= 0 {
			st.visibleCount = cmd.Count
		}

	case CommandEnablePip:
		st.pip = true

	case CommandDisablePip:
		st.pip = false

	case CommandPromoteTile:
		st.promoted = cmd.Tile
	}
}

// showChrome makes the chrome visible; when arm is set, a fresh auto-hide
// timer is started.
func (vm *CallViewModel) showChrome(arm bool) {
	st := &vm.st
	if !st.chrome {
		st.chrome = true
		vm.chromeVisible.Publish(true)
	}
	st.chromeGen++
	if arm {
		vm.armChromeHide()
	}
}

func (vm *CallViewModel) armChromeHide() {
	st := &vm.st
	st.chromeGen++
	gen := st.chromeGen
	if st.chromeTimer != nil {
		st.chromeTimer.Stop()
	}
	st.chromeTimer = vm.clk.AfterFunc(vm.settings.ChromeHideDelay, func() {
		vm.post(chromeHideEvent{gen: gen})
	})
}

// feedSpeakers routes each participant's raw speaking flag into its
// hysteresis observer, creating observers on first sight.
func (vm *CallViewModel) feedSpeakers(participants []Participant) {
	st := &vm.st
	current := make(map[MemberKey]bool, len(participants))
	for _, p := range participants {
		current[p.Identity] = true
		o, ok := st.observers[p.Identity]
		if !ok {
			key := p.Identity
			o = ObserveSpeaker(vm.clk, func(speaking bool) {
				vm.post(speakerEvent{key: key, speaking: speaking})
			})
			st.observers[p.Identity] = o
		}
		o.Set(p.Speaking)
	}
	// A departed participant counts as silent from now on.
	for key, o := range st.observers {
		if !current[key] {
			o.Set(false)
		}
	}
}

// trackShares assigns a stable sequence number to every screen-share at the
// moment it starts, so simultaneous shares spotlight in start order.
func (vm *CallViewModel) trackShares(participants []Participant) {
	st := &vm.st
	current := make(map[MediaID]bool)
	for _, p := range participants {
		if !p.ScreenShare {
			continue
		}
		id := ScreenShareMediaID(p.Identity)
		current[id] = true
		if _, ok := st.shareOrder[id]; !ok {
			st.shareSeq++
			st.shareOrder[id] = st.shareSeq
		}
	}
	for id := range st.shareOrder {
		if !current[id] {
			delete(st.shareOrder, id)
		}
	}
}

// pruneDeparted drops per-member state once both the membership and the
// participant are gone.
func (vm *CallViewModel) pruneDeparted() {
	st := &vm.st
	for key, o := range st.observers {
		if _, member := st.memberSet[key]; member {
			continue
		}
		if _, live := st.participants[key]; live {
			continue
		}
		o.Stop()
		delete(st.observers, key)
		delete(st.speaking, key)
		if st.lastSpeaker == key {
			st.lastSpeaker = ""
		}
	}
}
