package core

import "time"

// Participant is a snapshot of a live media-transport connection, as
// delivered by the media SDK adapter. Identity matches the member key of the
// corresponding membership; a participant may exist without one (e.g. a
// non-member viewer) and vice versa.
type Participant struct {
	Identity MemberKey
	Local    bool

	AudioEnabled bool
	VideoEnabled bool

	// Speaking is the raw voice-activity flag before hysteresis.
	Speaking bool

	// ScreenShare reports whether this participant is presenting.
	ScreenShare bool

	// EncryptionWarning flags media that arrived without a usable key.
	EncryptionWarning bool
}

// Settings is the explicit configuration injected into a view-model.
// Nothing here is read from ambient global state.
type Settings struct {
	// ShowNonMemberTiles renders tiles for participants that have no
	// membership record (still joining, or ghosts after leaving).
	ShowNonMemberTiles bool

	// ShowSelf keeps the local tile visible even when it would otherwise
	// be dropped from a crowded grid.
	ShowSelf bool

	// ChromeHideDelay is how long the header/footer chrome stays visible
	// after the last tap or hover. Zero uses DefaultChromeHideDelay.
	ChromeHideDelay time.Duration
}

// DefaultChromeHideDelay is the chrome auto-hide delay applied when the
// injected settings leave it unset.
const DefaultChromeHideDelay = 4 * time.Second

// DefaultSettings returns the settings a view-model uses when the host has
// no stored preferences.
func DefaultSettings() Settings {
	return Settings{
		ShowNonMemberTiles: false,
		ShowSelf:           true,
		ChromeHideDelay:    DefaultChromeHideDelay,
	}
}
