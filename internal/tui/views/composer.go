package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"tchat/internal/clipboard"
	"tchat/internal/mentions"
	"tchat/internal/tui/ui"
)

// DefaultPlaceholder is shown in the empty composer when the config does not
// override it.
const DefaultPlaceholder = "New message"

const (
	// buttonGutter is the extra leading inset reserved for the inline
	// attach button while the placeholder is visible.
	buttonGutter = 4
	// hInset is the fixed symmetric horizontal inset.
	hInset = 1
	// topInset is the vertical inset above the first line.
	topInset = 0
)

// ContentDelegate receives composer content events. It is owned by the
// hosting screen; the composer holds it without ownership and drops
// notifications while it is nil.
type ContentDelegate interface {
	// AttachmentPasted delivers a clipboard attachment. att may be nil when
	// extraction produced nothing; the delegate owns that outcome.
	AttachmentPasted(att *clipboard.Attachment)
	// SendRequested fires on unmodified Return. The composer text is not
	// touched; the delegate decides what to do with it.
	SendRequested()
	TextChanged(c *Composer)
}

// ToolbarDelegate receives change/selection/focus events for toolbar state.
// Nil delegates drop notifications.
type ToolbarDelegate interface {
	TextChanged(c *Composer)
	SelectionChanged(c *Composer)
	FocusAcquired(c *Composer)
}

// HintClearer dismisses the mentions education hint. Failures are logged,
// never surfaced.
type HintClearer interface {
	ClearMentions() error
}

// Insets are the composer's content insets in cells.
type Insets struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// PlaceholderFrame is the computed placement of the placeholder within the
// composer. It is rebuilt wholesale whenever the insets change; rebuilding
// with unchanged inputs yields an identical frame.
type PlaceholderFrame struct {
	X     int
	Y     int
	Width int
}

// Composer is the message input surface. It owns a text area primitive and
// layers placeholder management, inset layout, clipboard attachment
// interception, and Return-key handling on top of it.
type Composer struct {
	*tview.TextArea
	theme  *ui.Theme
	clip   clipboard.Clipboard
	hints  HintClearer
	logger *zap.Logger

	placeholder      string
	placeholderShown bool
	insets           Insets
	frame            PlaceholderFrame

	content ContentDelegate
	toolbar ToolbarDelegate

	// lastText dedupes change notifications: mutations can reach
	// textChanged both through the text area's changed handler and through
	// the composer's own entry points.
	lastText string
}

// NewComposer creates the message composer. placeholder may be empty to use
// the built-in default.
func NewComposer(theme *ui.Theme, clip clipboard.Clipboard, hints HintClearer, logger *zap.Logger, placeholder string) *Composer {
	ta := tview.NewTextArea()
	ta.SetWordWrap(true)

	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	c := &Composer{
		TextArea:         ta,
		theme:            theme,
		clip:             clip,
		hints:            hints,
		logger:           logger,
		placeholder:      placeholder,
		placeholderShown: true,
	}

	// Placeholder setup must precede the style assignment: SetStyle
	// propagates the text style to the placeholder.
	ta.SetPlaceholder(placeholder)
	c.SetStyle(tcell.StyleDefault.Background(theme.BgColor).Foreground(theme.FgColor))
	ta.SetBackgroundColor(theme.BgColor)

	c.updateInsets()

	ta.SetChangedFunc(c.textChanged)
	ta.SetMovedFunc(c.selectionMoved)
	ta.SetFocusFunc(c.focusGained)
	ta.SetClipboard(c.copyToSystem, c.pasteFromSystem)
	ta.SetInputCapture(c.handleKey)

	return c
}

// SetContentDelegate sets the delegate receiving paste/send/change events.
func (c *Composer) SetContentDelegate(d ContentDelegate) {
	c.content = d
}

// SetToolbarDelegate sets the delegate receiving change/selection/focus events.
func (c *Composer) SetToolbarDelegate(d ToolbarDelegate) {
	c.toolbar = d
}

// SetStyle sets the text style and synchronously propagates it to the
// placeholder, which keeps the placeholder's attributes but uses the theme's
// placeholder color.
func (c *Composer) SetStyle(style tcell.Style) {
	c.TextArea.SetTextStyle(style)
	c.TextArea.SetPlaceholderStyle(style.Foreground(c.theme.PlaceholderColor))
}

// SetText replaces the composer content and runs the change cascade.
func (c *Composer) SetText(text string) {
	c.TextArea.SetText(text, true)
	c.textChanged()
}

// Text returns the current composer content.
func (c *Composer) Text() string {
	return c.GetText()
}

// Reset clears the composer after a send.
func (c *Composer) Reset() {
	c.SetText("")
}

// PlaceholderVisible reports whether the placeholder is currently shown.
// It is the logical negation of "text is non-empty" after any mutation.
func (c *Composer) PlaceholderVisible() bool {
	return c.placeholderShown
}

// Placeholder returns the configured placeholder label.
func (c *Composer) Placeholder() string {
	return c.placeholder
}

// Insets returns the current content insets.
func (c *Composer) Insets() Insets {
	return c.insets
}

// Frame returns the computed placeholder frame.
func (c *Composer) Frame() PlaceholderFrame {
	return c.frame
}

// CanPasteAttachment reports whether a paste should be redirected to the
// attachment pipeline: the clipboard plausibly holds an attachment and no
// plain text. The predicate is evaluated fresh on every call; the paste
// action re-runs it rather than caching this result.
func (c *Composer) CanPasteAttachment() bool {
	return c.clip != nil && c.clip.HasAttachment() && !c.clip.HasText()
}

// textChanged runs the change cascade: placeholder visibility, inset
// recompute, delegate notifications, and the mentions hint signal.
func (c *Composer) textChanged() {
	text := c.GetText()
	if text == c.lastText {
		return
	}
	c.lastText = text

	c.placeholderShown = text == ""
	c.updateInsets()

	if c.content != nil {
		c.content.TextChanged(c)
	}
	if c.toolbar != nil {
		c.toolbar.TextChanged(c)
	}

	// Fire-and-forget: signalled on every mention-containing change, the
	// tracker absorbs repeats.
	if c.hints != nil && mentions.ContainsMention(text) {
		if err := c.hints.ClearMentions(); err != nil {
			c.logger.Warn("failed to clear mentions hint", zap.Error(err))
		}
	}
}

// updateInsets recomputes the content insets from the placeholder visibility
// and the prevailing text direction, then rebuilds the placeholder frame.
// Idempotent: unchanged inputs produce unchanged insets and frame.
func (c *Composer) updateInsets() {
	in := Insets{Top: topInset, Left: hInset, Bottom: 0, Right: hInset}
	if c.placeholderShown {
		// Reserve room for the inline attach button on the leading edge.
		if c.theme.Direction == ui.RightToLeft {
			in.Right = hInset + buttonGutter
		} else {
			in.Left = hInset + buttonGutter
		}
	}
	c.insets = in
	c.SetBorderPadding(in.Top, in.Bottom, in.Left, in.Right)
	c.ensurePlaceholderFrame()
}

// ensurePlaceholderFrame rebuilds the placeholder frame wholesale from the
// current insets and width. Safe to call repeatedly.
func (c *Composer) ensurePlaceholderFrame() {
	_, _, width, _ := c.GetRect()
	w := width - c.insets.Left - c.insets.Right
	if w < 0 {
		w = 0
	}
	c.frame = PlaceholderFrame{
		X:     c.insets.Left,
		Y:     c.insets.Top,
		Width: w,
	}
}

// handleKey intercepts the Return key. Unmodified Return requests a send and
// never inserts a newline; Shift+Return and Alt+Return insert a newline at
// the current selection. All other keys pass through to the text area.
func (c *Composer) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() != tcell.KeyEnter {
		return ev
	}
	if ev.Modifiers()&(tcell.ModShift|tcell.ModAlt) != 0 {
		c.insertNewline()
		return nil
	}
	if c.content != nil {
		c.content.SendRequested()
	}
	return nil
}

// insertNewline replaces the current selection (possibly empty) with "\n"
// and runs the change cascade.
func (c *Composer) insertNewline() {
	_, start, end := c.GetSelection()
	c.Replace(start, end, "\n")
	c.textChanged()
}

// pasteFromSystem implements the paste action. The attachment predicate is
// re-evaluated here rather than reusing a capability-check result, so a
// clipboard change between the two calls cannot misroute the paste.
func (c *Composer) pasteFromSystem() string {
	if c.CanPasteAttachment() {
		att, err := c.clip.ExtractAttachment()
		if err != nil {
			c.logger.Warn("attachment extraction failed", zap.Error(err))
		}
		if c.content != nil {
			c.content.AttachmentPasted(att)
		}
		return ""
	}
	if c.clip == nil {
		return ""
	}
	text, err := c.clip.Text()
	if err != nil {
		c.logger.Warn("failed to read clipboard", zap.Error(err))
		return ""
	}
	return text
}

// copyToSystem writes composer selections to the system clipboard.
func (c *Composer) copyToSystem(text string) {
	if c.clip == nil {
		return
	}
	if err := c.clip.SetText(text); err != nil {
		c.logger.Warn("failed to write clipboard", zap.Error(err))
	}
}

func (c *Composer) focusGained() {
	if c.toolbar != nil {
		c.toolbar.FocusAcquired(c)
	}
}

func (c *Composer) selectionMoved() {
	if c.toolbar != nil {
		c.toolbar.SelectionChanged(c)
	}
}

// Name implements ui.Component.
func (c *Composer) Name() string { return "composer" }

// Hints implements ui.Component.
func (c *Composer) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "enter", Description: "send"},
		{Key: "shift+enter", Description: "newline"},
		{Key: "ctrl+v", Description: "paste"},
	}
}
