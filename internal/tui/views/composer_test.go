package views

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"tchat/internal/clipboard"
	"tchat/internal/tui/ui"
)

// fakeClipboard is a scriptable clipboard state.
type fakeClipboard struct {
	attachment *clipboard.Attachment
	text       string
	extractErr error
	written    []string
}

func (f *fakeClipboard) HasAttachment() bool { return f.attachment != nil }
func (f *fakeClipboard) HasText() bool       { return f.text != "" }
func (f *fakeClipboard) Text() (string, error) {
	return f.text, nil
}
func (f *fakeClipboard) SetText(text string) error {
	f.written = append(f.written, text)
	return nil
}
func (f *fakeClipboard) ExtractAttachment() (*clipboard.Attachment, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.attachment, nil
}

// recordingContent records content-delegate notifications.
type recordingContent struct {
	pasted      []*clipboard.Attachment
	sends       int
	textChanges int
}

func (r *recordingContent) AttachmentPasted(att *clipboard.Attachment) { r.pasted = append(r.pasted, att) }
func (r *recordingContent) SendRequested()                             { r.sends++ }
func (r *recordingContent) TextChanged(*Composer)                      { r.textChanges++ }

// recordingToolbar records toolbar-delegate notifications.
type recordingToolbar struct {
	textChanges      int
	selectionChanges int
	focusGains       int
}

func (r *recordingToolbar) TextChanged(*Composer)      { r.textChanges++ }
func (r *recordingToolbar) SelectionChanged(*Composer) { r.selectionChanges++ }
func (r *recordingToolbar) FocusAcquired(*Composer)    { r.focusGains++ }

// countingHints counts mention-hint clear signals.
type countingHints struct {
	clears int
	err    error
}

func (h *countingHints) ClearMentions() error {
	h.clears++
	return h.err
}

func newTestComposer(t *testing.T, clip clipboard.Clipboard, hints HintClearer) (*Composer, *recordingContent, *recordingToolbar) {
	t.Helper()
	c := NewComposer(ui.DefaultTheme(), clip, hints, zap.NewNop(), "")
	content := &recordingContent{}
	toolbar := &recordingToolbar{}
	c.SetContentDelegate(content)
	c.SetToolbarDelegate(toolbar)
	return c, content, toolbar
}

func TestPlaceholderVisibilityFollowsText(t *testing.T) {
	c, _, _ := newTestComposer(t, &fakeClipboard{}, nil)

	if !c.PlaceholderVisible() {
		t.Error("placeholder hidden on empty composer")
	}

	c.SetText("hi")
	if c.PlaceholderVisible() {
		t.Error("placeholder visible with non-empty text")
	}

	c.SetText("")
	if !c.PlaceholderVisible() {
		t.Error("placeholder hidden after clearing text")
	}
}

func TestInsetsReserveGutterWhilePlaceholderVisible(t *testing.T) {
	c, _, _ := newTestComposer(t, &fakeClipboard{}, nil)

	in := c.Insets()
	if in.Left != hInset+buttonGutter {
		t.Errorf("Left = %d, want %d (gutter reserved in LTR)", in.Left, hInset+buttonGutter)
	}
	if in.Right != hInset {
		t.Errorf("Right = %d, want %d", in.Right, hInset)
	}

	c.SetText("hi")
	in = c.Insets()
	if in.Left != hInset || in.Right != hInset {
		t.Errorf("insets with hidden placeholder = %+v, want symmetric %d", in, hInset)
	}
}

func TestInsetsRespectDirectionAtCallTime(t *testing.T) {
	theme := ui.DefaultTheme()
	c := NewComposer(theme, &fakeClipboard{}, nil, zap.NewNop(), "")

	// Direction flips after construction; the next recompute must honor it.
	theme.Direction = ui.RightToLeft
	c.SetText("x")
	c.SetText("")

	in := c.Insets()
	if in.Right != hInset+buttonGutter {
		t.Errorf("Right = %d, want %d (gutter on trailing edge in RTL)", in.Right, hInset+buttonGutter)
	}
	if in.Left != hInset {
		t.Errorf("Left = %d, want %d", in.Left, hInset)
	}
}

func TestInsetRecomputeIdempotent(t *testing.T) {
	c, _, _ := newTestComposer(t, &fakeClipboard{}, nil)
	c.SetRect(0, 0, 40, 3)

	c.updateInsets()
	in1, f1 := c.Insets(), c.Frame()
	c.updateInsets()
	in2, f2 := c.Insets(), c.Frame()

	if in1 != in2 {
		t.Errorf("insets changed across idempotent recompute: %+v vs %+v", in1, in2)
	}
	if f1 != f2 {
		t.Errorf("frame changed across idempotent recompute: %+v vs %+v", f1, f2)
	}
}

func TestPlaceholderFrameFromInsets(t *testing.T) {
	c, _, _ := newTestComposer(t, &fakeClipboard{}, nil)
	c.SetRect(0, 0, 40, 3)
	c.updateInsets()

	f := c.Frame()
	in := c.Insets()
	if f.X != in.Left || f.Y != in.Top {
		t.Errorf("frame origin = (%d,%d), want (%d,%d)", f.X, f.Y, in.Left, in.Top)
	}
	if want := 40 - in.Left - in.Right; f.Width != want {
		t.Errorf("frame width = %d, want %d", f.Width, want)
	}
}

func TestTextChangeNotifiesBothDelegates(t *testing.T) {
	c, content, toolbar := newTestComposer(t, &fakeClipboard{}, nil)

	c.SetText("hi")
	if content.textChanges != 1 {
		t.Errorf("content TextChanged = %d, want 1", content.textChanges)
	}
	if toolbar.textChanges != 1 {
		t.Errorf("toolbar TextChanged = %d, want 1", toolbar.textChanges)
	}

	// Setting identical text is not a change.
	c.SetText("hi")
	if content.textChanges != 1 || toolbar.textChanges != 1 {
		t.Errorf("identical SetText re-notified: content=%d toolbar=%d", content.textChanges, toolbar.textChanges)
	}
}

func TestPlainReturnRequestsSend(t *testing.T) {
	c, content, _ := newTestComposer(t, &fakeClipboard{}, nil)
	c.SetText("hi")

	ev := c.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if ev != nil {
		t.Error("plain Return not swallowed")
	}
	if content.sends != 1 {
		t.Errorf("SendRequested = %d, want 1", content.sends)
	}
	if got := c.Text(); got != "hi" {
		t.Errorf("text after plain Return = %q, want unchanged %q", got, "hi")
	}
}

func TestShiftReturnInsertsNewline(t *testing.T) {
	c, content, toolbar := newTestComposer(t, &fakeClipboard{}, nil)
	c.SetText("hi")
	contentBefore := content.textChanges
	toolbarBefore := toolbar.textChanges

	ev := c.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModShift))
	if ev != nil {
		t.Error("Shift+Return not swallowed")
	}
	if got := c.Text(); got != "hi\n" {
		t.Errorf("text = %q, want %q", got, "hi\n")
	}
	if content.sends != 0 {
		t.Errorf("SendRequested = %d, want 0", content.sends)
	}
	if content.textChanges != contentBefore+1 || toolbar.textChanges != toolbarBefore+1 {
		t.Errorf("change not notified on both delegates: content=%d toolbar=%d", content.textChanges, toolbar.textChanges)
	}
}

func TestAltReturnInsertsNewline(t *testing.T) {
	c, content, _ := newTestComposer(t, &fakeClipboard{}, nil)

	ev := c.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModAlt))
	if ev != nil {
		t.Error("Alt+Return not swallowed")
	}
	if got := c.Text(); got != "\n" {
		t.Errorf("text = %q, want %q (insert at empty selection)", got, "\n")
	}
	if content.sends != 0 {
		t.Errorf("SendRequested = %d, want 0", content.sends)
	}
}

func TestOtherKeysPassThrough(t *testing.T) {
	c, _, _ := newTestComposer(t, &fakeClipboard{}, nil)

	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	if got := c.handleKey(ev); got != ev {
		t.Error("non-Return key not passed through")
	}
}

func TestCanPasteAttachment(t *testing.T) {
	tests := []struct {
		name string
		clip fakeClipboard
		want bool
	}{
		{"attachment only", fakeClipboard{attachment: &clipboard.Attachment{FileName: "a.png"}}, true},
		{"attachment and text", fakeClipboard{attachment: &clipboard.Attachment{FileName: "a.png"}, text: "hello"}, false},
		{"text only", fakeClipboard{text: "hello"}, false},
		{"empty", fakeClipboard{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestComposer(t, &tt.clip, nil)
			if got := c.CanPasteAttachment(); got != tt.want {
				t.Errorf("CanPasteAttachment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasteAgreesWithCapabilityCheck(t *testing.T) {
	// Attachment-only clipboard: both redirect to the attachment pipeline.
	clip := &fakeClipboard{attachment: &clipboard.Attachment{FileName: "a.png"}}
	c, content, _ := newTestComposer(t, clip, nil)

	if !c.CanPasteAttachment() {
		t.Fatal("capability check = false for attachment-only clipboard")
	}
	if got := c.pasteFromSystem(); got != "" {
		t.Errorf("paste returned text %q, want redirect with no insertion", got)
	}
	if len(content.pasted) != 1 || content.pasted[0].FileName != "a.png" {
		t.Errorf("pasted = %+v, want one attachment a.png", content.pasted)
	}
	if got := c.Text(); got != "" {
		t.Errorf("text mutated by attachment paste: %q", got)
	}

	// Plain text present: both use the default text paste.
	clip.text = "hello"
	if c.CanPasteAttachment() {
		t.Error("capability check = true with plain text present")
	}
	if got := c.pasteFromSystem(); got != "hello" {
		t.Errorf("paste = %q, want default text %q", got, "hello")
	}
	if len(content.pasted) != 1 {
		t.Errorf("attachment delivered despite plain text: %d", len(content.pasted))
	}
}

func TestPasteDeliversNilOnExtractionFailure(t *testing.T) {
	clip := &fakeClipboard{
		attachment: &clipboard.Attachment{FileName: "a.png"},
		extractErr: errors.New("gone"),
	}
	c, content, _ := newTestComposer(t, clip, nil)

	if got := c.pasteFromSystem(); got != "" {
		t.Errorf("paste returned text %q on extraction failure", got)
	}
	if len(content.pasted) != 1 || content.pasted[0] != nil {
		t.Errorf("pasted = %+v, want one nil delivery", content.pasted)
	}
}

func TestFocusNotifiesToolbar(t *testing.T) {
	c, _, toolbar := newTestComposer(t, &fakeClipboard{}, nil)

	c.Focus(func(tview.Primitive) {})
	if toolbar.focusGains != 1 {
		t.Errorf("FocusAcquired = %d, want 1", toolbar.focusGains)
	}
}

func TestMentionSignalsHintClear(t *testing.T) {
	hints := &countingHints{}
	c, _, _ := newTestComposer(t, &fakeClipboard{}, hints)

	c.SetText("hey @alice")
	if hints.clears != 1 {
		t.Errorf("clears = %d, want 1", hints.clears)
	}

	// Every qualifying change signals again; the tracker dedupes, not the
	// composer.
	c.SetText("hey @alice!")
	if hints.clears != 2 {
		t.Errorf("clears = %d, want 2 (signal on every qualifying change)", hints.clears)
	}

	c.SetText("no marker")
	if hints.clears != 2 {
		t.Errorf("clears = %d, want 2 (no signal without marker)", hints.clears)
	}
}

func TestMentionHintErrorNotSurfaced(t *testing.T) {
	hints := &countingHints{err: errors.New("db closed")}
	c, content, _ := newTestComposer(t, &fakeClipboard{}, hints)

	// Must not panic or block the change cascade.
	c.SetText("@bob hi")
	if content.textChanges != 1 {
		t.Errorf("textChanges = %d, want 1 despite hint failure", content.textChanges)
	}
}

func TestNilDelegatesDropNotifications(t *testing.T) {
	c := NewComposer(ui.DefaultTheme(), &fakeClipboard{}, nil, zap.NewNop(), "")

	// None of these may panic with absent delegates.
	c.SetText("hi")
	c.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	c.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModShift))
	c.Focus(func(tview.Primitive) {})
	c.pasteFromSystem()
}

func TestCustomPlaceholder(t *testing.T) {
	c := NewComposer(ui.DefaultTheme(), &fakeClipboard{}, nil, zap.NewNop(), "Say something")
	if c.Placeholder() != "Say something" {
		t.Errorf("placeholder = %q, want custom", c.Placeholder())
	}

	d := NewComposer(ui.DefaultTheme(), &fakeClipboard{}, nil, zap.NewNop(), "")
	if d.Placeholder() != DefaultPlaceholder {
		t.Errorf("placeholder = %q, want default %q", d.Placeholder(), DefaultPlaceholder)
	}
}

func TestCopyWritesSystemClipboard(t *testing.T) {
	clip := &fakeClipboard{}
	c, _, _ := newTestComposer(t, clip, nil)

	c.copyToSystem("copied")
	if len(clip.written) != 1 || clip.written[0] != "copied" {
		t.Errorf("written = %v, want [copied]", clip.written)
	}
}
