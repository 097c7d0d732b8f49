package views

import (
	"fmt"

	"github.com/rivo/tview"

	"tchat/internal/tui/ui"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements ui.Component.
func (hv *HelpView) Name() string { return "help" }

// Hints implements ui.Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "esc", Description: "back"},
	}
}

func (hv *HelpView) render() {
	kc := fmt.Sprintf("#%06x", hv.theme.MenuKeyColor.Hex())

	help := fmt.Sprintf(`
  [::b]Global Keys[-:-:-]

  [%s]/[-:-:-]    Filter chats        [%s]?[-:-:-]     Help
  [%s]q[-:-:-]    Quit / Back         [%s]Ctrl-C[-:-:-] Quit immediately
  [%s]Esc[-:-:-]  Cancel / Go back

  [::b]Chat List[-:-:-]

  [%s]Enter[-:-:-]  Open chat
  [%s]j/Down[-:-:-] Move down          [%s]k/Up[-:-:-]  Move up

  [::b]Chat[-:-:-]

  [%s]i[-:-:-]    Focus composer      [%s]Esc[-:-:-]   Leave composer

  [::b]Composer[-:-:-]

  [%s]Enter[-:-:-]        Send message
  [%s]Shift-Enter[-:-:-]  Insert newline
  [%s]Alt-Enter[-:-:-]    Insert newline
  [%s]Ctrl-V[-:-:-]       Paste (file paths become attachments)
`,
		kc, kc, kc, kc, kc,
		kc, kc, kc,
		kc, kc,
		kc, kc, kc, kc,
	)

	_, _ = fmt.Fprint(hv, help)
}
