package core

import (
	"reflect"
	"sort"
)

// emit recomputes the media registry, tile order, and active layout variant
// from the fully-settled state, publishing only what actually changed.
// While the connection is frozen (focus switch or terminal disconnect) the
// last-known layout is retained and nothing is emitted.
func (vm *CallViewModel) emit() {
	st := &vm.st
	if st.frozen {
		return
	}

	items, ordered := vm.buildMedia()
	candidates := vm.spotlightCandidates(items)

	nShares := 0
	for _, it := range ordered {
		if it.Kind == MediaScreenShare {
			nShares++
		}
	}
	spotlightFamily := st.gridMode == GridModeSpotlight || nShares > 0

	spotlightSet := make(map[MediaID]bool)
	for _, it := range ordered {
		if it.Kind == MediaScreenShare {
			spotlightSet[it.ID] = true
		}
	}
	if spotlightFamily && nShares == 0 && len(candidates) > 0 {
		spotlightSet[candidates[0].ID] = true
	}

	nUsers := 0
	for _, it := range ordered {
		if it.Kind == MediaUser {
			nUsers++
		}
	}

	inputs := make([]TileInput, 0, len(ordered))
	for _, it := range ordered {
		if !vm.settings.ShowSelf && it.Local && it.Kind == MediaUser && nUsers > 1 {
			continue
		}
		inputs = append(inputs, TileInput{
			Item:      it,
			Priority:  vm.priorityOf(it, spotlightSet),
			Spotlight: spotlightSet[it.ID],
		})
	}

	var snap TileSnapshot
	st.tiles, snap = st.tiles.Build(inputs, st.visibleCount)

	layout := vm.selectLayout(ordered, snap, candidates, nShares)
	if !reflect.DeepEqual(st.lastLayout, layout) {
		st.lastLayout = layout
		vm.log.Debug().Stringer("layout", layout.Kind()).Msg("layout changed")
		vm.layouts.Publish(layout)
	}

	inds := make(map[MediaID]TileIndicators, len(items))
	for id, it := range items {
		inds[id] = TileIndicators{
			Speaking:   it.Speaking,
			HandRaised: it.HandRaised,
			Reaction:   it.Reaction,
		}
	}
	if !reflect.DeepEqual(st.lastIndicators, inds) {
		st.lastIndicators = inds
		vm.indicators.Publish(inds)
	}

	vm.emitMemberChanges()
}

// buildMedia materializes the media registry for the current tick: one user
// tile per membership (plus non-member participants when enabled), one tile
// per active screen-share. The returned slice is ordered: user tiles in
// join order, then screen-shares in start order.
func (vm *CallViewModel) buildMedia() (map[MediaID]*MediaItem, []*MediaItem) {
	st := &vm.st
	names := DisambiguateNames(st.memberships)

	items := make(map[MediaID]*MediaItem)
	var ordered []*MediaItem

	add := func(it *MediaItem) {
		if _, dup := items[it.ID]; dup {
			return
		}
		items[it.ID] = it
		ordered = append(ordered, it)
	}

	for i := range st.memberships {
		m := &st.memberships[i]
		key := m.Key()
		var part *Participant
		if p, ok := st.participants[key]; ok {
			// Snapshots carry the debounced flag, not the raw one, so
			// a raw flip alone never produces a new emission.
			p.Speaking = st.speaking[key]
			part = &p
		}
		add(&MediaItem{
			ID:                UserMediaID(key),
			Kind:              MediaUser,
			Local:             part != nil && part.Local,
			Membership:        m,
			Participant:       part,
			DisplayName:       names[key],
			Speaking:          st.speaking[key],
			HandRaised:        st.hands[key],
			Reaction:          st.reactions[key],
			EncryptionWarning: part != nil && part.EncryptionWarning,
		})
	}

	if vm.settings.ShowNonMemberTiles {
		var extra []MemberKey
		for key := range st.participants {
			if _, member := st.memberSet[key]; !member {
				extra = append(extra, key)
			}
		}
		sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
		for _, key := range extra {
			p := st.participants[key]
			p.Speaking = st.speaking[key]
			add(&MediaItem{
				ID:                UserMediaID(key),
				Kind:              MediaUser,
				Local:             p.Local,
				Participant:       &p,
				DisplayName:       string(key),
				Speaking:          st.speaking[key],
				EncryptionWarning: p.EncryptionWarning,
			})
		}
	}

	for _, id := range vm.orderedShareIDs() {
		key := MemberKey(string(id)[:len(id)-len(screenShareSuffix)])
		part, live := st.participants[key]
		if !live {
			continue
		}
		part.Speaking = st.speaking[key]
		_, member := st.memberSet[key]
		if !member && !vm.settings.ShowNonMemberTiles {
			continue
		}
		name := names[key]
		if name == "" {
			name = string(key)
		}
		var membership *Membership
		if idx, ok := st.memberSet[key]; ok {
			membership = &st.memberships[idx]
		}
		add(&MediaItem{
			ID:                id,
			Kind:              MediaScreenShare,
			Local:             part.Local,
			Membership:        membership,
			Participant:       &part,
			DisplayName:       name,
			EncryptionWarning: part.EncryptionWarning,
		})
	}

	return items, ordered
}

// orderedShareIDs returns the active screen-share media ids in the order
// each share began, oldest first.
func (vm *CallViewModel) orderedShareIDs() []MediaID {
	st := &vm.st
	ids := make([]MediaID, 0, len(st.shareOrder))
	for id := range st.shareOrder {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return st.shareOrder[ids[i]] < st.shareOrder[ids[j]] })
	return ids
}

// spotlightCandidates picks the media items for the spotlight region: all
// active screen-shares in start order; otherwise the most recent debounced
// remote speaker when in spotlight mode; otherwise the last explicitly
// promoted tile; otherwise the local tile as a last resort.
func (vm *CallViewModel) spotlightCandidates(items map[MediaID]*MediaItem) []*MediaItem {
	st := &vm.st

	var shares []*MediaItem
	for _, id := range vm.orderedShareIDs() {
		if it, ok := items[id]; ok {
			shares = append(shares, it)
		}
	}
	if len(shares) > 0 {
		return shares
	}

	if st.gridMode == GridModeSpotlight && st.lastSpeaker != "" {
		if it, ok := items[UserMediaID(st.lastSpeaker)]; ok && !it.Local {
			return []*MediaItem{it}
		}
	}
	if st.promoted != "" {
		if it, ok := items[st.promoted]; ok {
			return []*MediaItem{it}
		}
	}
	if local := localTile(items); local != nil {
		return []*MediaItem{local}
	}
	return nil
}

func localTile(items map[MediaID]*MediaItem) *MediaItem {
	for _, it := range items {
		if it.Local && it.Kind == MediaUser {
			return it
		}
	}
	return nil
}

func (vm *CallViewModel) priorityOf(it *MediaItem, spotlightSet map[MediaID]bool) TilePriority {
	key := it.MemberKeyOf()
	switch {
	case spotlightSet[it.ID] || it.Kind == MediaScreenShare:
		return PrioritySpotlight
	case vm.st.speaking[key]:
		return PrioritySpeaking
	case vm.st.hands[key]:
		return PriorityHandRaised
	default:
		return PriorityDefault
	}
}

// selectLayout applies the variant selection rule: pip overrides everything;
// a two-person call with no screen-share and no manual spotlight is
// one-on-one; spotlight mode (manual or auto via screen-share) picks its
// orientation from the viewport aspect ratio; everything else is grid.
func (vm *CallViewModel) selectLayout(ordered []*MediaItem, snap TileSnapshot, candidates []*MediaItem, nShares int) Layout {
	st := &vm.st

	if st.pip {
		var sp *MediaItem
		if len(candidates) > 0 {
			sp = candidates[0]
		}
		return PipLayout{Spotlight: sp}
	}

	var local *MediaItem
	var users []*MediaItem
	for _, it := range ordered {
		if it.Kind != MediaUser {
			continue
		}
		users = append(users, it)
		if it.Local {
			local = it
		}
	}

	if st.gridMode == GridModeGrid && nShares == 0 && local != nil && len(users) == 2 {
		remote := users[0]
		if remote == local {
			remote = users[1]
		}
		return OneOnOneLayout{Local: local, Remote: remote}
	}

	if st.gridMode == GridModeSpotlight || nShares > 0 {
		if st.expanded {
			return SpotlightExpandedLayout{Spotlight: snap.Spotlight, Pip: local}
		}
		if st.viewportW > 0 && st.viewportH > st.viewportW {
			return SpotlightPortraitLayout{Spotlight: snap.Spotlight, Grid: snap.Grid}
		}
		return SpotlightLandscapeLayout{Spotlight: snap.Spotlight, Grid: snap.Grid}
	}

	return GridLayout{Spotlight: snap.Spotlight, Grid: snap.Grid}
}

func (vm *CallViewModel) emitMemberChanges() {
	st := &vm.st
	keys := make([]MemberKey, 0, len(st.memberships))
	for _, m := range st.memberships {
		keys = append(keys, m.Key())
	}

	prev := make(map[MemberKey]bool, len(st.prevMembers))
	for _, k := range st.prevMembers {
		prev[k] = true
	}
	now := make(map[MemberKey]bool, len(keys))
	for _, k := range keys {
		now[k] = true
	}

	var change MemberChange
	for _, k := range keys {
		if !prev[k] {
			change.Joined = append(change.Joined, k)
		}
	}
	for _, k := range st.prevMembers {
		if !now[k] {
			change.Left = append(change.Left, k)
		}
	}
	st.prevMembers = keys

	if len(change.Joined) > 0 || len(change.Left) > 0 {
		vm.memberChanges.Publish(change)
	}
}
