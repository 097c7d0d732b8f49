package hints

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"tchat/internal/store"
)

func testTracker(t *testing.T) *Tracker {
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
	return NewTracker(db, zap.NewNop())
}

func TestClearMentions(t *testing.T) {
	tr := testTracker(t)

	cleared, err := tr.MentionsCleared()
	if err != nil {
		t.Fatal(err)
	}
	if cleared {
		t.Error("MentionsCleared() = true before clear")
	}

	if err := tr.ClearMentions(); err != nil {
		t.Fatalf("ClearMentions() error = %v", err)
	}

	cleared, err = tr.MentionsCleared()
	if err != nil {
		t.Fatal(err)
	}
	if !cleared {
		t.Error("MentionsCleared() = false after clear")
	}
}

func TestClearMentionsRepeated(t *testing.T) {
	tr := testTracker(t)

	// The composer signals on every mention-containing change; the tracker
	// absorbs repeats.
	for i := 0; i < 3; i++ {
		if err := tr.ClearMentions(); err != nil {
			t.Fatalf("ClearMentions() call %d error = %v", i+1, err)
		}
	}
}
