package page

// MenuState is what the host page shows for the slide-out menu.
type MenuState struct {
	Open           bool `json:"open"`            // side menu has class "open"
	OverlayVisible bool `json:"overlay_visible"` // overlay has class "visible"
	ScrollLocked   bool `json:"scroll_locked"`   // body overflow hidden
}

// Menu toggles the side menu and its overlay. The overlay always exists;
// the button and the side menu are optional.
type Menu struct {
	button bool
	side   bool
	state  MenuState
}

func NewMenu(hasButton, hasSideMenu bool) Menu {
	return Menu{button: hasButton, side: hasSideMenu}
}

func (m *Menu) State() MenuState { return m.state }

// Toggle handles a menu button click. It reports whether the state changed.
func (m *Menu) Toggle() bool {
	if !m.button || !m.side {
		return false
	}
	if m.state.Open {
		return m.Close()
	}
	return m.open()
}

func (m *Menu) open() bool {
	prev := m.state
	m.state = MenuState{Open: m.side, OverlayVisible: true, ScrollLocked: true}
	return prev != m.state
}

// Close handles an overlay click or Escape. It reports whether the state changed.
func (m *Menu) Close() bool {
	prev := m.state
	m.state = MenuState{}
	return prev != m.state
}
