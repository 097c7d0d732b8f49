package views

import (
	"fmt"

	"github.com/rivo/tview"

	"tchat/internal/clipboard"
	"tchat/internal/tui/ui"
)

// AttachmentBar shows the attachment staged for the next send, if any.
// Pasting an attachment stages it here; the send drains it.
type AttachmentBar struct {
	*tview.TextView
	staged *clipboard.Attachment
}

// NewAttachmentBar creates an empty attachment bar.
func NewAttachmentBar(theme *ui.Theme) *AttachmentBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &AttachmentBar{TextView: tv}
}

// Stage replaces the staged attachment. A nil attachment clears the bar.
func (ab *AttachmentBar) Stage(att *clipboard.Attachment) {
	ab.staged = att
	ab.render()
}

// Staged returns the currently staged attachment, or nil.
func (ab *AttachmentBar) Staged() *clipboard.Attachment {
	return ab.staged
}

// Take returns the staged attachment and clears the bar.
func (ab *AttachmentBar) Take() *clipboard.Attachment {
	att := ab.staged
	ab.staged = nil
	ab.render()
	return att
}

func (ab *AttachmentBar) render() {
	ab.Clear()
	if ab.staged == nil {
		return
	}
	line := fmt.Sprintf(" [green]@[-] %s [::d](%s, %d bytes)[-:-:-]",
		ab.staged.FileName, ab.staged.MimeType, len(ab.staged.Content))
	_, _ = fmt.Fprint(ab, line)
}
