package core

// MediaID identifies one media tile: the member key for user media, or
// "<memberKey>:screen-share" for a presentation.
type MediaID string

const screenShareSuffix = ":screen-share"

// UserMediaID returns the media id of a member's camera+mic tile.
func UserMediaID(key MemberKey) MediaID {
	return MediaID(key)
}

// ScreenShareMediaID returns the media id of a member's screen-share tile.
func ScreenShareMediaID(key MemberKey) MediaID {
	return MediaID(string(key) + screenShareSuffix)
}

// MediaKind distinguishes the two media streams a member can produce.
type MediaKind int

const (
	// MediaUser is a camera+microphone feed.
	MediaUser MediaKind = iota
	// MediaScreenShare is a presented screen.
	MediaScreenShare
)

func (k MediaKind) String() string {
	if k == MediaScreenShare {
		return "screen-share"
	}
	return "user"
}

// MediaItem is the view-model unit behind one tile. Items are rebuilt on
// every settled update; consumers treat each as an immutable snapshot.
// The registry inside the view-model is the only owner; layouts receive
// read references.
type MediaItem struct {
	ID    MediaID
	Kind  MediaKind
	Local bool

	// Membership is nil for non-member participants.
	Membership *Membership
	// Participant is nil while the member has not connected media yet;
	// such items render as placeholders, never as errors.
	Participant *Participant

	// DisplayName is the disambiguated name shown on the tile.
	DisplayName string

	// Speaking is the hysteresis-filtered speaking flag.
	Speaking bool

	HandRaised bool
	Reaction   string

	EncryptionWarning bool

	// CropVideo requests cover-style cropping instead of letterboxing.
	CropVideo bool
}

// MemberKeyOf returns the owning member key encoded in the media id.
func (m *MediaItem) MemberKeyOf() MemberKey {
	id := string(m.ID)
	if m.Kind == MediaScreenShare {
		return MemberKey(id[:len(id)-len(screenShareSuffix)])
	}
	return MemberKey(id)
}

// Placeholder reports whether the item has no live media behind it.
func (m *MediaItem) Placeholder() bool {
	return m.Participant == nil
}

// TileIndicators is the per-tile indicator state surfaced to the UI
// alongside each layout emission.
type TileIndicators struct {
	Speaking   bool
	HandRaised bool
	Reaction   string
}
