package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/tview"

	"tchat/internal/store"
	"tchat/internal/tui/ui"
)

// ChatList is the main chat list view (K9s-inspired table).
type ChatList struct {
	*tview.Table
	theme      *ui.Theme
	chats      []store.Chat
	visible    []store.Chat
	filter     string
	onSelect   func(chatID string)
	selectedFn func() (int, int)
}

// NewChatList creates a new chat list table.
func NewChatList(theme *ui.Theme) *ChatList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Chats ")
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitleColor(theme.TitleColor)

	cl := &ChatList{Table: table, theme: theme}
	cl.selectedFn = table.GetSelection
	return cl
}

// SetOnSelect sets the callback when a chat is selected.
func (cl *ChatList) SetOnSelect(fn func(chatID string)) {
	cl.onSelect = fn
}

// SetFilter narrows the list to chats whose name contains the query
// (case-insensitive). An empty query shows all chats.
func (cl *ChatList) SetFilter(query string) {
	cl.filter = strings.ToLower(strings.TrimSpace(query))
	cl.render()
}

// Update refreshes the chat list with new data.
func (cl *ChatList) Update(chats []store.Chat) {
	cl.chats = chats
	cl.render()
}

func (cl *ChatList) render() {
	cl.Clear()

	cl.visible = cl.visible[:0]
	for _, chat := range cl.chats {
		if cl.filter != "" && !strings.Contains(strings.ToLower(chat.Name), cl.filter) {
			continue
		}
		cl.visible = append(cl.visible, chat)
	}

	title := " Chats "
	if cl.filter != "" {
		title = fmt.Sprintf(" Chats </%s> ", cl.filter)
	}
	cl.SetTitle(title)

	// Header row.
	cl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(cl.theme.TableHeaderFg))
	cl.SetCell(0, 1, tview.NewTableCell(" Last Message").SetSelectable(false).SetTextColor(cl.theme.TableHeaderFg))
	cl.SetCell(0, 2, tview.NewTableCell(" Time").SetSelectable(false).SetTextColor(cl.theme.TableHeaderFg))

	for i, chat := range cl.visible {
		row := i + 1
		name := chat.Name
		if name == "" {
			name = chat.ID
		}
		if chat.UnreadCount > 0 {
			name = fmt.Sprintf("* %s (%d)", name, chat.UnreadCount)
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(name)).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(row, 1, tview.NewTableCell(" "+sanitizeForTerminal(chat.LastMessagePreview)).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(row, 2, tview.NewTableCell(" "+formatTimestamp(chat.LastMessageAt)).SetMaxWidth(12))
	}
}

// SelectedChat returns the ID of the currently selected chat.
func (cl *ChatList) SelectedChat() string {
	row, _ := cl.selectedFn()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(cl.visible) {
		return cl.visible[idx].ID
	}
	return ""
}

// Name implements ui.Component.
func (cl *ChatList) Name() string { return "chats" }

// Hints implements ui.Component.
func (cl *ChatList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "enter", Description: "open"},
		{Key: "/", Description: "filter"},
		{Key: "?", Description: "help"},
		{Key: "q", Description: "quit"},
	}
}

func formatTimestamp(ms int64) string {
	if ms == 0 {
		return ""
	}
	t := time.UnixMilli(ms)
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
