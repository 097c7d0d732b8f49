package tui

import (
	"context"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"tchat/internal/bus"
	"tchat/internal/clipboard"
	"tchat/internal/tui/keys"
	"tchat/internal/tui/model"
	"tchat/internal/tui/ui"
	"tchat/internal/tui/views"
)

// App is the main TUI application shell. It owns the page layout and acts as
// both the composer's content delegate (sends, attachment pastes) and its
// toolbar delegate (status bar updates).
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	vm        *model.ViewModel
	bus       *bus.Bus
	theme     *ui.Theme
	registry  *keys.Registry
	logger    *zap.Logger
	menu      *ui.Menu
	prompt    *ui.Prompt
	statusBar *views.StatusBar
	chatList  *views.ChatList
	msgView   *views.MessageView
	composer  *views.Composer
	attachBar *views.AttachmentBar
	helpView  *views.HelpView
	chatsFlex *tview.Flex
	ctx       context.Context
	cancel    context.CancelFunc
}

// Options carries the collaborators the shell wires into the composer.
type Options struct {
	Session     string
	Placeholder string
	Clipboard   clipboard.Clipboard
	Hints       views.HintClearer
}

// NewApp creates the TUI application.
func NewApp(vm *model.ViewModel, b *bus.Bus, theme *ui.Theme, logger *zap.Logger, opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		vm:        vm,
		bus:       b,
		theme:     theme,
		registry:  keys.NewRegistry(),
		logger:    logger,
		menu:      ui.NewMenu(theme),
		prompt:    ui.NewPrompt(theme),
		statusBar: views.NewStatusBar(theme),
		chatList:  views.NewChatList(theme),
		msgView:   views.NewMessageView(theme),
		composer:  views.NewComposer(theme, opts.Clipboard, opts.Hints, logger, opts.Placeholder),
		attachBar: views.NewAttachmentBar(theme),
		helpView:  views.NewHelpView(theme),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.composer.SetContentDelegate(a)
	a.composer.SetToolbarDelegate(a)

	a.statusBar.SetSession(opts.Session)
	a.statusBar.SetStatus("ready")
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

// AttachmentPasted implements views.ContentDelegate. A paste redirected to
// the attachment pipeline lands here; the attachment is staged for the next
// send. A nil attachment means the clipboard changed between the capability
// check and extraction.
func (a *App) AttachmentPasted(att *clipboard.Attachment) {
	if att == nil {
		a.vm.Flash.Set("Clipboard attachment no longer available", 5*time.Second)
		a.statusBar.SetFlash(a.vm.Flash.Get())
		return
	}
	a.attachBar.Stage(att)
	a.vm.Flash.Set("Attachment staged: "+att.FileName, 3*time.Second)
	a.statusBar.SetFlash(a.vm.Flash.Get())
}

// SendRequested implements views.ContentDelegate. Plain Return in the
// composer requests a send of the current text plus any staged attachment.
func (a *App) SendRequested() {
	chatID := a.vm.GetActiveChatID()
	if chatID == "" {
		return
	}

	text := a.composer.Text()
	staged := a.attachBar.Take()
	if strings.TrimSpace(text) == "" && staged == nil {
		return
	}

	var err error
	if staged != nil {
		_, err = a.vm.QueueAttachment(chatID, text, staged.FilePath, staged.MimeType)
	} else {
		_, err = a.vm.QueueText(chatID, text)
	}
	if err != nil {
		a.vm.Flash.Set("Send failed: "+err.Error(), 5*time.Second)
		a.statusBar.SetFlash(a.vm.Flash.Get())
		return
	}

	a.composer.Reset()
	if err := a.vm.SaveDraft(chatID, ""); err != nil {
		a.logger.Warn("failed to clear draft", zap.Error(err))
	}
	a.refreshChat()
}

// TextChanged implements both views.ContentDelegate and
// views.ToolbarDelegate: the draft is persisted and the status bar counter
// updated on every change.
func (a *App) TextChanged(c *views.Composer) {
	if chatID := a.vm.GetActiveChatID(); chatID != "" {
		if err := a.vm.SaveDraft(chatID, c.Text()); err != nil {
			a.logger.Warn("failed to save draft", zap.Error(err))
		}
	}
	a.updateComposerStatus(c)
}

// SelectionChanged implements views.ToolbarDelegate.
func (a *App) SelectionChanged(c *views.Composer) {
	a.updateComposerStatus(c)
}

// FocusAcquired implements views.ToolbarDelegate.
func (a *App) FocusAcquired(c *views.Composer) {
	a.statusBar.SetComposing(true)
	a.updateComposerStatus(c)
}

func (a *App) updateComposerStatus(c *views.Composer) {
	_, start, _ := c.GetSelection()
	a.statusBar.SetComposerState(len(c.Text()), start)
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})
	a.registry.AddGlobal("help", &keys.Action{
		Rune: '?', Key: tcell.KeyRune,
		Description: "?:help", Visible: true,
		Handler: func() { a.showPage("help", a.helpView) },
	})
	a.registry.AddView("chats", "filter", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Description: "/:filter", Visible: true,
		Handler: func() { a.showFilterPrompt() },
	})
}

func (a *App) setupCallbacks() {
	a.chatList.SetSelectedFunc(func(row, col int) {
		if id := a.chatList.SelectedChat(); id != "" {
			a.openChat(id)
		}
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptFilter {
			a.chatList.SetFilter(text)
		}
		a.hideFilterPrompt()
	})
	a.prompt.SetOnCancel(func() {
		a.chatList.SetFilter("")
		a.hideFilterPrompt()
	})
}

func (a *App) setupLayout() {
	a.chatsFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.chatList, 0, 1, true)

	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.msgView, 0, 1, false).
		AddItem(a.attachBar, 1, 0, false).
		AddItem(a.composer, 3, 0, false)

	a.pages.AddPage("chats", a.chatsFlex, true, true)
	a.pages.AddPage("chat", chatFlex, true, false)
	a.pages.AddPage("help", a.helpView, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.menu, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)
	a.menu.Update(a.chatList.Hints())

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()
		focused := a.app.GetFocus()

		if event.Key() == tcell.KeyEscape {
			switch {
			case focused == a.prompt.InputField:
				// Prompt handles its own Escape.
				return event
			case focused == a.composer:
				a.statusBar.SetComposing(false)
				a.app.SetFocus(a.msgView)
				return nil
			case currentPage == "chat" || currentPage == "help":
				a.showChats()
				return nil
			}
		}

		// Let text input widgets handle all keys normally.
		switch focused.(type) {
		case *tview.InputField, *tview.TextArea, *views.Composer:
			return event
		}

		// 'i' focuses the composer.
		if currentPage == "chat" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.composer)
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}

		return event
	})
}

func (a *App) showPage(name string, c ui.Component) {
	a.pages.SwitchToPage(name)
	a.menu.Update(c.Hints())
}

func (a *App) showChats() {
	a.showPage("chats", a.chatList)
	a.app.SetFocus(a.chatList)
}

func (a *App) showFilterPrompt() {
	a.chatsFlex.ResizeItem(a.prompt, 3, 0)
	a.prompt.Activate(ui.PromptFilter)
	a.app.SetFocus(a.prompt.InputField)
}

func (a *App) hideFilterPrompt() {
	a.chatsFlex.ResizeItem(a.prompt, 0, 0)
	a.app.SetFocus(a.chatList)
}

func (a *App) openChat(chatID string) {
	if err := a.vm.LoadMessages(chatID); err != nil {
		a.vm.Flash.Set("Load failed: "+err.Error(), 5*time.Second)
		a.statusBar.SetFlash(a.vm.Flash.Get())
		return
	}

	chatName := chatID
	for _, c := range a.vm.GetChats() {
		if c.ID == chatID {
			if c.Name != "" {
				chatName = c.Name
			}
			break
		}
	}

	a.msgView.SetChatName(chatName)
	a.msgView.Update(a.vm.GetMessages())
	a.composer.SetText(a.vm.LoadDraft(chatID))
	a.showPage("chat", a.msgView)
	a.app.SetFocus(a.msgView)
}

func (a *App) refreshChat() {
	chatID := a.vm.GetActiveChatID()
	if chatID == "" {
		return
	}
	if err := a.vm.LoadMessages(chatID); err != nil {
		return
	}
	a.msgView.Update(a.vm.GetMessages())
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	if err := a.vm.LoadChats(); err != nil {
		a.logger.Warn("initial chat load failed", zap.Error(err))
	}
	a.chatList.Update(a.vm.GetChats())

	go a.eventLoop()

	defer a.cancel()
	return a.app.Run()
}

// Stop terminates the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// eventLoop redraws on outbox delivery events and refresh signals.
func (a *App) eventLoop() {
	events, unsub := a.bus.Subscribe("message.", 16)
	defer unsub()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-events:
			a.reload()
		case <-a.vm.RefreshCh():
			a.redraw()
		case <-ticker.C:
			a.redraw()
		}
	}
}

func (a *App) reload() {
	if err := a.vm.LoadChats(); err != nil {
		a.logger.Warn("chat reload failed", zap.Error(err))
	}
	if chatID := a.vm.GetActiveChatID(); chatID != "" {
		if err := a.vm.LoadMessages(chatID); err != nil {
			a.logger.Warn("message reload failed", zap.Error(err))
		}
	}
	a.redraw()
}

func (a *App) redraw() {
	a.app.QueueUpdateDraw(func() {
		currentPage, _ := a.pages.GetFrontPage()
		switch currentPage {
		case "chats":
			a.chatList.Update(a.vm.GetChats())
		case "chat":
			a.msgView.Update(a.vm.GetMessages())
		}
		a.statusBar.SetFlash(a.vm.Flash.Get())
	})
}
