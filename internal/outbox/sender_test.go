package outbox

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"tchat/internal/bus"
	"tchat/internal/store"
)

// mockSender records calls and returns configurable results.
type mockSender struct {
	calls []sendCall
	err   error
}

type sendCall struct {
	ChatID string
	Text   string
}

func (m *mockSender) SendText(_ context.Context, chatID, text string) (string, error) {
	m.calls = append(m.calls, sendCall{ChatID: chatID, Text: text})
	if m.err != nil {
		return "", m.err
	}
	return "server-" + chatID, nil
}

func testDB(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestProcessPendingSendsQueued(t *testing.T) {
	db := testDB(t)
	mock := &mockSender{}
	b := bus.NewBus()
	s := NewSender(db, mock, b, zap.NewNop())

	if err := db.UpsertChat(&store.Chat{ID: "alice"}); err != nil {
		t.Fatal(err)
	}
	if err := db.QueueOutbox("c1", "alice", "hello", "", ""); err != nil {
		t.Fatal(err)
	}

	ch, unsub := b.Subscribe("message.", 10)
	defer unsub()

	s.processPending(context.Background())

	if len(mock.calls) != 1 {
		t.Fatalf("sender called %d times, want 1", len(mock.calls))
	}
	if mock.calls[0].ChatID != "alice" || mock.calls[0].Text != "hello" {
		t.Errorf("call = %+v, want alice/hello", mock.calls[0])
	}

	entry, err := db.GetOutboxEntry("c1")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Status != "sent" {
		t.Errorf("status = %q, want sent", entry.Status)
	}
	if entry.ServerMsgID != "server-alice" {
		t.Errorf("server_msg_id = %q, want server-alice", entry.ServerMsgID)
	}

	// An upserted + ack event pair should have been published.
	kinds := drainKinds(ch)
	if !containsKind(kinds, "message.upserted") || !containsKind(kinds, "message.send_ack") {
		t.Errorf("published kinds = %v, want upserted and send_ack", kinds)
	}

	msgs, err := db.ListMessages("alice", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Status != "sent" {
		t.Errorf("messages = %+v, want one sent message", msgs)
	}
}

func TestProcessPendingFailure(t *testing.T) {
	db := testDB(t)
	mock := &mockSender{err: fmt.Errorf("boom")}
	b := bus.NewBus()
	s := NewSender(db, mock, b, zap.NewNop())

	if err := db.QueueOutbox("c1", "alice", "hello", "", ""); err != nil {
		t.Fatal(err)
	}

	ch, unsub := b.Subscribe("message.send_failed", 10)
	defer unsub()

	s.processPending(context.Background())

	entry, err := db.GetOutboxEntry("c1")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Status != "failed" || entry.ErrorMessage != "boom" {
		t.Errorf("entry = %+v, want failed/boom", entry)
	}

	select {
	case evt := <-ch:
		if evt.Kind != "message.send_failed" {
			t.Errorf("kind = %q, want message.send_failed", evt.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("no send_failed event published")
	}

	msgs, err := db.ListMessages("alice", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Status != "failed" {
		t.Errorf("messages = %+v, want one failed message", msgs)
	}
}

func TestProcessPendingAttachmentKind(t *testing.T) {
	db := testDB(t)
	mock := &mockSender{}
	s := NewSender(db, mock, bus.NewBus(), zap.NewNop())

	if err := db.QueueOutbox("c1", "alice", "see file", "/tmp/x.png", "image/png"); err != nil {
		t.Fatal(err)
	}

	s.processPending(context.Background())

	msgs, err := db.ListMessages("alice", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len(msgs) = %d, want 1", len(msgs))
	}
	if msgs[0].Kind != "attachment" || msgs[0].AttachmentMime != "image/png" {
		t.Errorf("message = %+v, want attachment kind with mime", msgs[0])
	}
}

func TestLoopbackAssignsID(t *testing.T) {
	id1, err := Loopback{}.SendText(context.Background(), "alice", "hi")
	if err != nil {
		t.Fatal(err)
	}
	id2, _ := Loopback{}.SendText(context.Background(), "alice", "hi")
	if id1 == "" || id1 == id2 {
		t.Errorf("Loopback IDs not unique: %q, %q", id1, id2)
	}
}

func drainKinds(ch <-chan bus.Event) []string {
	var kinds []string
	for {
		select {
		case evt := <-ch:
			kinds = append(kinds, evt.Kind)
		case <-time.After(50 * time.Millisecond):
			return kinds
		}
	}
}

func containsKind(kinds []string, want string) bool {
	for _, k := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
