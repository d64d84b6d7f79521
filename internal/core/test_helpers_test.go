package core

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/dtereshin/callview/internal/obs"
)

func newTestVM(t *testing.T, settings Settings) (*CallViewModel, *clock.Mock, <-chan Layout) {
	t.Helper()
	clk := clock.NewMock()
	logger := zerolog.Nop()
	vm := NewCallViewModel("call-test", settings, clk, &logger)
	t.Cleanup(vm.Destroy)

	scope := obs.NewScope()
	t.Cleanup(scope.Close)
	layouts := vm.Layouts().Subscribe(scope, 32)
	return vm, clk, layouts
}

// mustLayout drains the layout channel until a value satisfies pred,
// skipping earlier emissions from partially-applied input batches.
func mustLayout(t *testing.T, ch <-chan Layout, desc string, pred func(Layout) bool) Layout {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case l, ok := <-ch:
			if !ok {
				t.Fatalf("layout stream closed waiting for %s", desc)
			}
			if pred(l) {
				return l
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", desc)
		}
	}
}

// expectNoLayout asserts that no emission arrives within the window.
func expectNoLayout(t *testing.T, ch <-chan Layout, window time.Duration) {
	t.Helper()
	select {
	case l := <-ch:
		t.Fatalf("unexpected layout emission %v", l.Kind())
	case <-time.After(window):
	}
}

func kindIs(kind LayoutKind) func(Layout) bool {
	return func(l Layout) bool { return l.Kind() == kind }
}

func connected(m Membership) Participant {
	return Participant{
		Identity:     m.Key(),
		AudioEnabled: true,
		VideoEnabled: true,
	}
}

func connectedLocal(m Membership) Participant {
	p := connected(m)
	p.Local = true
	return p
}

func gridOf(t *testing.T, l Layout) GridLayout {
	t.Helper()
	g, ok := l.(GridLayout)
	if !ok {
		t.Fatalf("layout is %v, not grid", l.Kind())
	}
	return g
}

func idsOf(items []*MediaItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, string(it.ID))
	}
	return out
}

func subscribeChanges(t *testing.T, vm *CallViewModel) (*obs.Scope, <-chan MemberChange) {
	t.Helper()
	scope := obs.NewScope()
	return scope, vm.MemberChanges().Subscribe(scope, 16)
}

func mustChange(t *testing.T, ch <-chan MemberChange) MemberChange {
	t.Helper()
	select {
	case c, ok := <-ch:
		if !ok {
			t.Fatal("member-change stream closed")
		}
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for member change")
	}
	return MemberChange{}
}

// waitUntil polls a loop-owned condition that is observable through a
// behavior getter.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func sameIDs(items []*MediaItem, want ...MediaID) bool {
	if len(items) != len(want) {
		return false
	}
	for i := range want {
		if items[i].ID != want[i] {
			return false
		}
	}
	return true
}
