package core

import (
	"fmt"
	"testing"
)

func tile(id string) *MediaItem {
	return &MediaItem{ID: MediaID(id), Kind: MediaUser}
}

func inputs(ids ...string) []TileInput {
	out := make([]TileInput, 0, len(ids))
	for _, id := range ids {
		out = append(out, TileInput{Item: tile(id)})
	}
	return out
}

func gridIDs(snap TileSnapshot) []string {
	out := make([]string, 0, len(snap.Grid))
	for _, it := range snap.Grid {
		out = append(out, string(it.ID))
	}
	return out
}

func wantOrder(t *testing.T, snap TileSnapshot, want ...string) {
	t.Helper()
	got := gridIDs(snap)
	if len(got) != len(want) {
		t.Fatalf("grid = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("grid = %v, want %v", got, want)
		}
	}
}

func TestTileStoreKeepsOrderAcrossBuilds(t *testing.T) {
	var s TileStore
	s, snap := s.Build(inputs("a", "b", "c"), 0)
	wantOrder(t, snap, "a", "b", "c")

	// Same candidates in a different input order keep remembered order.
	_, snap = s.Build(inputs("c", "a", "b"), 0)
	wantOrder(t, snap, "a", "b", "c")
}

func TestTileStoreSpeakingOnScreenDoesNotReorder(t *testing.T) {
	var s TileStore
	s, _ = s.Build(inputs("a", "b", "c"), 3)

	in := inputs("a", "b", "c")
	in[1].Priority = PrioritySpeaking // b speaks while already visible
	_, snap := s.Build(in, 3)
	wantOrder(t, snap, "a", "b", "c")
}

func TestTileStoreOffScreenSpeakerSwapsOnce(t *testing.T) {
	var s TileStore
	s, snap := s.Build(inputs("a", "b", "c", "d"), 2)
	wantOrder(t, snap, "a", "b")

	in := inputs("a", "b", "c", "d")
	in[3].Priority = PrioritySpeaking // d speaks while off-screen
	s, snap = s.Build(in, 2)
	// Exactly one displacement: d swaps with the later of the two
	// equal-priority visible tiles.
	wantOrder(t, snap, "a", "d")

	// The swap sticks on the next build.
	_, snap = s.Build(in, 2)
	wantOrder(t, snap, "a", "d")
}

func TestTileStoreNewEntriesAppend(t *testing.T) {
	var s TileStore
	s, _ = s.Build(inputs("a", "b"), 0)
	_, snap := s.Build(inputs("b", "c", "a"), 0)
	wantOrder(t, snap, "a", "b", "c")
}

func TestTileStoreDepartureKeepsRelativeOrder(t *testing.T) {
	var s TileStore
	s, _ = s.Build(inputs("a", "b", "c"), 0)
	_, snap := s.Build(inputs("a", "c"), 0)
	wantOrder(t, snap, "a", "c")
}

func TestTileStoreTruncationTiesByPriorOrder(t *testing.T) {
	var s TileStore
	s, _ = s.Build(inputs("a", "b", "c"), 0)

	in := inputs("a", "b", "c")
	in[0].Priority = PrioritySpeaking
	in[1].Priority = PrioritySpeaking
	in[2].Priority = PrioritySpeaking
	_, snap := s.Build(in, 2)
	// More speakers than slots: the earlier-ordered ones win.
	wantOrder(t, snap, "a", "b")
}

func TestTileStoreSpotlightSubset(t *testing.T) {
	var s TileStore
	in := inputs("a", "b", "c")
	in[1].Priority = PrioritySpotlight
	in[1].Spotlight = true
	_, snap := s.Build(in, 0)

	wantOrder(t, snap, "a", "c")
	if len(snap.Spotlight) != 1 || snap.Spotlight[0].ID != "b" {
		t.Fatalf("spotlight = %v", snap.Spotlight)
	}
}

func TestTileStoreDemotedSpotlightRejoinsGrid(t *testing.T) {
	var s TileStore
	in := inputs("a", "b", "c")
	in[1].Spotlight = true
	s, snap := s.Build(in, 0)
	wantOrder(t, snap, "a", "c")

	_, snap = s.Build(inputs("a", "b", "c"), 0)
	wantOrder(t, snap, "a", "b", "c")
}

func TestTileStoreDuplicateIDsCollapse(t *testing.T) {
	var s TileStore
	_, snap := s.Build(inputs("a", "a", "b"), 0)
	wantOrder(t, snap, "a", "b")
}

func BenchmarkTileStoreBuild(b *testing.B) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = fmt.Sprintf("tile-%d", i)
	}
	in := inputs(ids...)
	for i := range in {
		in[i].Priority = TilePriority(i % 4)
	}
	var s TileStore
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, _ = s.Build(in, 12)
	}
}
