package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tchat/internal/bus"
	"tchat/internal/status"
	"tchat/internal/store"
)

// TextSender delivers an outgoing message and returns its server-assigned ID.
type TextSender interface {
	SendText(ctx context.Context, chatID, text string) (serverMsgID string, err error)
}

// Sender drains the outbox and delivers pending messages.
type Sender struct {
	db     *store.DB
	sender TextSender
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewSender creates a new outbox sender.
func NewSender(db *store.DB, sender TextSender, b *bus.Bus, logger *zap.Logger) *Sender {
	return &Sender{
		db:     db,
		sender: sender,
		bus:    b,
		logger: logger,
	}
}

// Start begins polling the outbox for pending messages.
func (s *Sender) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
}

// Stop stops the sender loop.
func (s *Sender) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Sender) loop(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.processPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sender) processPending(ctx context.Context) {
	pending, err := s.db.PendingOutbox()
	if err != nil {
		s.logger.Error("failed to read outbox", zap.Error(err))
		return
	}

	for _, entry := range pending {
		if !status.CanTransition(status.Status(entry.Status), status.Sending) {
			s.logger.Warn("skipping outbox entry in unexpected state",
				zap.String("client_msg_id", entry.ClientMsgID),
				zap.String("status", entry.Status))
			continue
		}
		if err := s.db.MarkOutboxSending(entry.ClientMsgID); err != nil {
			s.logger.Error("failed to mark sending", zap.Error(err), zap.String("client_msg_id", entry.ClientMsgID))
			continue
		}

		// Optimistic insert: show the message in the UI immediately.
		now := time.Now().UnixMilli()
		kind := store.KindText
		if entry.AttachmentPath != "" {
			kind = store.KindAttachment
		}
		_ = s.db.UpsertMessage(&store.Message{
			ChatID:         entry.ChatID,
			MsgID:          entry.ClientMsgID,
			Body:           entry.Body,
			Kind:           kind,
			FromMe:         true,
			Status:         string(status.Sending),
			AttachmentPath: entry.AttachmentPath,
			AttachmentMime: entry.AttachmentMime,
			Timestamp:      now,
		})
		s.bus.Publish(bus.New("message.upserted", map[string]string{
			"chat_id": entry.ChatID,
			"msg_id":  entry.ClientMsgID,
		}))

		serverMsgID, err := s.sender.SendText(ctx, entry.ChatID, entry.Body)
		if err != nil {
			s.logger.Error("failed to send message", zap.Error(err), zap.String("client_msg_id", entry.ClientMsgID))
			_ = s.db.MarkOutboxFailed(entry.ClientMsgID, err.Error())
			_ = s.db.UpsertMessage(&store.Message{
				ChatID: entry.ChatID, MsgID: entry.ClientMsgID,
				Body: entry.Body, Kind: kind, FromMe: true,
				Status: string(status.Failed), Timestamp: now,
				AttachmentPath: entry.AttachmentPath, AttachmentMime: entry.AttachmentMime,
			})
			s.bus.Publish(bus.New("message.send_failed", map[string]string{
				"client_msg_id": entry.ClientMsgID,
				"error":         err.Error(),
			}))
			continue
		}

		if err := s.db.MarkOutboxSent(entry.ClientMsgID, serverMsgID); err != nil {
			s.logger.Error("failed to mark sent", zap.Error(err), zap.String("client_msg_id", entry.ClientMsgID))
		}

		_ = s.db.UpsertMessage(&store.Message{
			ChatID: entry.ChatID, MsgID: entry.ClientMsgID,
			Body: entry.Body, Kind: kind, FromMe: true,
			Status: string(status.Sent), Timestamp: now,
			AttachmentPath: entry.AttachmentPath, AttachmentMime: entry.AttachmentMime,
		})
		_ = s.db.TouchChat(entry.ChatID, preview(entry.Body), now)

		s.logger.Info("message sent", zap.String("client_msg_id", entry.ClientMsgID), zap.String("server_msg_id", serverMsgID))
		s.bus.Publish(bus.New("message.send_ack", map[string]string{
			"client_msg_id": entry.ClientMsgID,
			"server_msg_id": serverMsgID,
		}))
	}
}

func preview(body string) string {
	const maxPreview = 80
	if len(body) > maxPreview {
		return body[:maxPreview]
	}
	return body
}
