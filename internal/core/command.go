package core

// CommandKind describes what the host UI wants the view-model to do.
type CommandKind int

const (
	// CommandSetGridMode switches the persistent grid/spotlight preference.
	CommandSetGridMode CommandKind = iota
	// CommandToggleSpotlightExpanded flips the expanded-spotlight state.
	CommandToggleSpotlightExpanded
	// CommandTapScreen toggles the auto-hiding chrome.
	CommandTapScreen
	// CommandHoverScreen pins the chrome visible while the pointer is over
	// the call.
	CommandHoverScreen
	// CommandUnhoverScreen releases the hover pin and re-arms auto-hide.
	CommandUnhoverScreen
	// CommandSetVisibleTileCount reports how many tiles currently fit on
	// screen, as measured by the rendering layer.
	CommandSetVisibleTileCount
	// CommandEnablePip activates the picture-in-picture override.
	CommandEnablePip
	// CommandDisablePip deactivates the picture-in-picture override.
	CommandDisablePip
	// CommandPromoteTile designates a tile for the spotlight.
	CommandPromoteTile
)

// Command represents an action requested by the host UI.
type Command struct {
	Kind     CommandKind
	GridMode GridMode
	Count    int
	Tile     MediaID
}
