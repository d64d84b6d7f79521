package core

// event is the sealed set of inputs the view-model loop consumes. External
// goroutines only ever post events; all state lives in the loop.
type event interface{ input() }

// membershipsEvent replaces the full membership list.
type membershipsEvent struct {
	members []Membership
}

// participantsEvent replaces the full connected-participant list.
type participantsEvent struct {
	participants []Participant
}

// connStateEvent reports a connection-state transition.
type connStateEvent struct {
	state ConnectionState
}

// raisedHandsEvent replaces the raised-hand map.
type raisedHandsEvent struct {
	hands map[MemberKey]bool
}

// reactionsEvent replaces the per-member reaction map.
type reactionsEvent struct {
	reactions map[MemberKey]string
}

// viewportEvent reports the rendered viewport size.
type viewportEvent struct {
	width, height float64
}

// speakerEvent is posted by a speaker observer when a debounced speaking
// transition fires.
type speakerEvent struct {
	key      MemberKey
	speaking bool
}

// chromeHideEvent is posted by the chrome auto-hide timer.
type chromeHideEvent struct {
	gen uint64
}

// commandEvent wraps a host UI command.
type commandEvent struct {
	cmd Command
}

func (membershipsEvent) input()  {}
func (participantsEvent) input() {}
func (connStateEvent) input()    {}
func (raisedHandsEvent) input()  {}
func (reactionsEvent) input()    {}
func (viewportEvent) input()     {}
func (speakerEvent) input()      {}
func (chromeHideEvent) input()   {}
func (commandEvent) input()      {}
