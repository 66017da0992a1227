package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Store is the durable key/value contract the tracker persists through.
// Get returns ok=false when no document exists for key.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// KeyPrefix starts the storage key of every progress document.
const KeyPrefix = "progress/"

// Key returns the storage key for a player's progress document.
func Key(player string) string {
	return KeyPrefix + player
}

// PlayerFromKey is the inverse of Key.
func PlayerFromKey(key string) (string, bool) {
	player, ok := strings.CutPrefix(key, KeyPrefix)
	return player, ok && player != ""
}

// Tracker owns one player's progress for the life of the process. It loads
// once, merges completions, and persists after every mutation.
type Tracker struct {
	mu       sync.Mutex
	store    Store
	key      string
	progress PlayerProgress
}

// Load reads the player's progress from store, defaulting to empty.
func Load(ctx context.Context, store Store, player string) (*Tracker, error) {
	t := &Tracker{store: store, key: Key(player), progress: PlayerProgress{}}

	data, ok, err := store.Get(ctx, t.key)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &t.progress); err != nil {
			return nil, fmt.Errorf("decode progress: %w", err)
		}
		if t.progress == nil {
			t.progress = PlayerProgress{}
		}
	}
	return t, nil
}

// Progress returns a copy of the current ledger.
func (t *Tracker) Progress() PlayerProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress.Clone()
}

// Record merges c into the ledger and persists the result. The in-memory
// ledger is only replaced once the write succeeds.
func (t *Tracker) Record(ctx context.Context, c Completion) (PlayerProgress, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := RecordCompletion(t.progress, c.ChapterID, c.Level, c.Score)
	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	if err := t.store.Put(ctx, t.key, data); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	t.progress = next
	return next.Clone(), nil
}

// Reset removes the stored progress and clears the ledger.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Delete(ctx, t.key); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	t.progress = PlayerProgress{}
	return nil
}
