// Package tray provides the system tray menu of slidehand.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/slidehand/internal/app"
	"github.com/ayusman/slidehand/internal/control"
)

// Tray is the menu bar entry showing the controller state.
type Tray struct {
	onToggle func(enabled bool)
	onRemote func()
	onQuit   func()
	enabled  bool
	status   app.Status
	mu       sync.RWMutex

	menuToggle *systray.MenuItem
	menuMode   *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New creates a Tray. Gesture control starts enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
		status:  app.Status{Enabled: true, Snapshot: control.Snapshot{Mode: control.ModeNavigation}},
	}
}

// OnToggle sets the callback for the enable/disable item.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRemote sets the callback for the "Open Remote" item.
func (t *Tray) OnRemote(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRemote = fn
}

// OnQuit sets the callback for the quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit is called and must run on the
// main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	t.mu.Lock()
	st := t.status
	systray.SetTitle(barTitle(st))
	systray.SetTooltip("Slidehand gesture control")

	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture control")
	systray.AddSeparator()

	t.menuMode = systray.AddMenuItem(modeTitle(st), "Current mode")
	t.menuMode.Disable()
	t.menuLast = systray.AddMenuItem(lastTitle(st), "Last executed action")
	t.menuLast.Disable()
	systray.AddSeparator()

	menuRemote := systray.AddMenuItem("Open Remote...", "Open the web remote in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Slidehand")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuRemote.ClickedCh:
				t.handleRemote()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Outside the lock: the callback publishes a status back to Update.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleRemote() {
	t.mu.RLock()
	callback := t.onRemote
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// Update shows st in the menu. It is safe to call before Run.
func (t *Tray) Update(st app.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = st
	t.enabled = st.Enabled

	if t.menuToggle == nil {
		return
	}
	systray.SetTitle(barTitle(st))
	t.menuToggle.SetTitle(toggleTitle(st.Enabled))
	t.menuMode.SetTitle(modeTitle(st))
	t.menuLast.SetTitle(lastTitle(st))
}

// IsEnabled returns the enabled state last shown.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func barTitle(st app.Status) string {
	if !st.Enabled {
		return "SH ○"
	}
	if st.Mode == control.ModePointer {
		return "SH ✎"
	}
	return "SH ▶"
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func modeTitle(st app.Status) string {
	title := "Mode: " + string(st.Mode)
	if st.Mode == control.ModePointer && st.Pointer != nil {
		title += " (" + st.Pointer.Color.Name + ", " + string(st.Pointer.Size)
		if st.Pointer.Drawing {
			title += ", drawing"
		}
		title += ")"
	}
	return title
}

func lastTitle(st app.Status) string {
	if st.LastAction == "" {
		return "Last: none"
	}
	return "Last: " + string(st.LastAction)
}
