package views

import (
	"fmt"
	"path/filepath"

	"github.com/rivo/tview"

	"tchat/internal/store"
	"tchat/internal/tui/ui"
)

// MessageView displays messages for a single chat.
type MessageView struct {
	*tview.TextView
	chatName string
}

// NewMessageView creates a new message view.
func NewMessageView(theme *ui.Theme) *MessageView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTitleColor(theme.TitleColor)

	return &MessageView{TextView: tv}
}

// SetChatName updates the title with the chat name.
func (mv *MessageView) SetChatName(name string) {
	mv.chatName = name
	mv.SetTitle(fmt.Sprintf(" %s ", name))
}

// Update refreshes the message view with new messages.
func (mv *MessageView) Update(msgs []store.Message) {
	mv.Clear()

	// Messages come in reverse chronological order; display oldest first.
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		sender := m.Sender
		if m.FromMe {
			sender = "You"
		}

		body := sanitizeForTerminal(m.Body)
		if m.Kind == store.KindAttachment {
			name := filepath.Base(m.AttachmentPath)
			if body != "" {
				body = fmt.Sprintf("[::d][%s][-:-:-] %s", name, body)
			} else {
				body = fmt.Sprintf("[::d][%s][-:-:-]", name)
			}
		}

		ts := formatTimestamp(m.Timestamp)
		line := fmt.Sprintf("[::b]%s[-:-:-] [::d]%s%s[-:-:-]\n%s\n\n", sender, ts, statusMark(m), body)
		_, _ = fmt.Fprint(mv, line)
	}

	mv.ScrollToEnd()
}

// Name implements ui.Component.
func (mv *MessageView) Name() string { return "messages" }

// Hints implements ui.Component.
func (mv *MessageView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "compose"},
		{Key: "esc", Description: "back"},
	}
}

func statusMark(m store.Message) string {
	if !m.FromMe {
		return ""
	}
	switch m.Status {
	case "queued", "sending":
		return " ~"
	case "failed":
		return " [red]!"
	default:
		return ""
	}
}
