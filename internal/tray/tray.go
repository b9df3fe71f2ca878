// Package tray shows a system tray icon with shortcuts to the viewer.
package tray

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"

	"github.com/soar/padstate/internal/logger"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu
type Tray struct {
	url          string
	log          logger.Logger
	shutdownFunc ShutdownFunc
	once         sync.Once
	shuttingDown atomic.Bool
	menuOpen     *systray.MenuItem
	menuExit     *systray.MenuItem

	// menuPads is created on the tray thread; count holds the last value
	// set before it existed.
	mu       sync.Mutex
	menuPads *systray.MenuItem
	count    int
}

// New creates a tray that opens url in the browser.
func New(url string, log logger.Logger, shutdownFn ShutdownFunc) *Tray {
	if log == nil {
		log = logger.Discard{}
	}
	return &Tray{
		url:          url,
		log:          log,
		shutdownFunc: shutdownFn,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.onExit()
	})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	t.shuttingDown.Store(true)
	systray.Quit()
}

func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("padstate")
	systray.SetTooltip("padstate - " + t.url)

	t.menuOpen = systray.AddMenuItem("Open Browser", "Open web interface")
	t.mu.Lock()
	t.menuPads = systray.AddMenuItem(padsLabel(t.count), "Pads bound to a controller")
	t.menuPads.Disable()
	t.mu.Unlock()
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	t.log.Info("system tray initialized")
}

// SetConnected updates the connected pad count shown in the menu.
func (t *Tray) SetConnected(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count = n
	if t.menuPads != nil {
		t.menuPads.SetTitle(padsLabel(n))
	}
}

func padsLabel(n int) string {
	if n == 1 {
		return "1 pad connected"
	}
	return fmt.Sprintf("%d pads connected", n)
}

// handleMenuClicks processes menu item clicks without blocking
func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	t.log.Info("system tray exiting")
}

func (t *Tray) openBrowser() {
	name, args := browserCommand(runtime.GOOS, t.url)
	if err := exec.Command(name, args...).Start(); err != nil {
		t.log.Warn("failed to open browser: %v", err)
	}
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}
