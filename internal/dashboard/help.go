package dashboard

import "github.com/charmbracelet/bubbles/help"

// HelpBindings returns the help.KeyMap for the current context,
// providing context-aware help bar content.
func HelpBindings(mode Mode, typing, confirming bool) help.KeyMap {
	switch {
	case confirming:
		return ConfirmKeyMap()
	case typing || mode == ModeLogin:
		return InputKeyMap()
	case mode == ModeAdmin:
		return AdminKeyMap()
	default:
		return BrowseKeyMap()
	}
}
