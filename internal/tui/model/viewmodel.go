package model

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tchat/internal/store"
)

// ViewModel caches store state and signals UI refreshes.
type ViewModel struct {
	mu sync.RWMutex

	db           *store.DB
	Chats        []store.Chat
	Messages     []store.Message
	ActiveChatID string
	Flash        Flash

	refreshCh chan struct{}
}

// NewViewModel creates a view model over the session store.
func NewViewModel(db *store.DB) *ViewModel {
	return &ViewModel{
		db:        db,
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// LoadChats fetches the chat list.
func (vm *ViewModel) LoadChats() error {
	chats, err := vm.db.ListChats(100, 0)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Chats = chats
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadMessages fetches messages for the active chat.
func (vm *ViewModel) LoadMessages(chatID string) error {
	msgs, err := vm.db.ListMessages(chatID, 0, 100)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.ActiveChatID = chatID
	vm.Messages = msgs
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// QueueText queues a text message for delivery by the outbox sender.
// Returns the client message ID.
func (vm *ViewModel) QueueText(chatID, text string) (string, error) {
	clientMsgID := uuid.New().String()
	if err := vm.db.QueueOutbox(clientMsgID, chatID, text, "", ""); err != nil {
		return "", err
	}
	vm.Flash.Set("Message queued", 3*time.Second)
	vm.signalRefresh()
	return clientMsgID, nil
}

// QueueAttachment queues a message carrying a file attachment.
func (vm *ViewModel) QueueAttachment(chatID, caption, path, mime string) (string, error) {
	clientMsgID := uuid.New().String()
	if err := vm.db.QueueOutbox(clientMsgID, chatID, caption, path, mime); err != nil {
		return "", err
	}
	vm.Flash.Set("Attachment queued", 3*time.Second)
	vm.signalRefresh()
	return clientMsgID, nil
}

// SaveDraft persists unsent composer text for a chat.
func (vm *ViewModel) SaveDraft(chatID, body string) error {
	return vm.db.SaveDraft(chatID, body)
}

// LoadDraft returns the saved draft body for a chat, or "".
func (vm *ViewModel) LoadDraft(chatID string) string {
	d, err := vm.db.GetDraft(chatID)
	if err != nil || d == nil {
		return ""
	}
	return d.Body
}

// GetChats returns a snapshot of the current chat list.
func (vm *ViewModel) GetChats() []store.Chat {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Chats
}

// GetMessages returns a snapshot of the current messages.
func (vm *ViewModel) GetMessages() []store.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Messages
}

// GetActiveChatID returns the chat the user is viewing.
func (vm *ViewModel) GetActiveChatID() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.ActiveChatID
}
