package store

// Message kinds.
const (
	KindText       = "text"
	KindAttachment = "attachment"
)

// Chat represents a conversation.
type Chat struct {
	ID                 string
	Name               string
	IsGroup            bool
	UnreadCount        int
	LastMessageAt      int64
	LastMessagePreview string
}

// Message represents a message in a chat.
type Message struct {
	ID             int64
	ChatID         string
	MsgID          string
	Sender         string
	Body           string
	Kind           string // text, attachment
	FromMe         bool
	Status         string // received, sending, sent, failed
	AttachmentPath string
	AttachmentMime string
	Timestamp      int64
}

// Draft holds unsent composer text for a chat.
type Draft struct {
	ChatID    string
	Body      string
	UpdatedAt int64
}

// OutboxEntry represents a pending outgoing message.
type OutboxEntry struct {
	ID             int64
	ClientMsgID    string
	ChatID         string
	Body           string
	AttachmentPath string
	AttachmentMime string
	Status         string // queued, sending, sent, failed
	ErrorMessage   string
	ServerMsgID    string
}
