package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"tchat/internal/tui/ui"
)

// StatusBar displays persistent session state plus composer toolbar info
// (selection position and character count while composing).
type StatusBar struct {
	*tview.TextView
	session   string
	status    string
	composing bool
	chars     int
	cursor    int
	flash     string
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &StatusBar{TextView: tv}
}

// SetSession updates the session name display.
func (sb *StatusBar) SetSession(name string) {
	sb.session = name
	sb.render()
}

// SetStatus updates the status display.
func (sb *StatusBar) SetStatus(status string) {
	sb.status = status
	sb.render()
}

// SetComposing toggles the composer indicator.
func (sb *StatusBar) SetComposing(on bool) {
	sb.composing = on
	sb.render()
}

// SetComposerState updates the character count and cursor position shown
// while the composer has focus.
func (sb *StatusBar) SetComposerState(chars, cursor int) {
	sb.chars = chars
	sb.cursor = cursor
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s", sb.session, sb.status, clock)
	if sb.composing {
		line += fmt.Sprintf(" | [green]compose[-] %d:%d", sb.chars, sb.cursor)
	}
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}
