package hints

import (
	"go.uber.org/zap"

	"tchat/internal/store"
)

// Keys for the one-time education hints shown to new users.
const (
	KeyMentions = "mentions"
)

// Tracker persists which education hints the user has already seen.
// Clearing is idempotent; callers may signal on every qualifying event.
type Tracker struct {
	db     *store.DB
	logger *zap.Logger
}

// NewTracker creates a tracker backed by the session store.
func NewTracker(db *store.DB, logger *zap.Logger) *Tracker {
	return &Tracker{db: db, logger: logger}
}

// ClearMentions dismisses the mentions education hint.
func (t *Tracker) ClearMentions() error {
	return t.clear(KeyMentions)
}

// MentionsCleared reports whether the mentions hint has been dismissed.
func (t *Tracker) MentionsCleared() (bool, error) {
	return t.db.HintCleared(KeyMentions)
}

func (t *Tracker) clear(key string) error {
	if err := t.db.ClearHint(key); err != nil {
		t.logger.Warn("failed to clear hint", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
