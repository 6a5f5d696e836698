package entry

import (
	"errors"
	"sync"
	"time"
)

var ErrInvalidDraft = errors.New("invalid draft")

// Clock returns the current time. Tests inject a fixed or stepping clock.
type Clock func() time.Time

// Factory builds entries from drafts. Ids are millisecond clock readings,
// bumped when needed so that every id a factory hands out is strictly
// greater than the previous one.
type Factory struct {
	mu     sync.Mutex
	now    Clock
	lastID int64
}

func NewFactory(now Clock) *Factory {
	if now == nil {
		now = time.Now
	}

	return &Factory{now: now}
}

// Seed makes the factory continue above ids that already exist, so a clock
// that went backwards between runs cannot produce a duplicate.
func (f *Factory) Seed(maxID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if maxID > f.lastID {
		f.lastID = maxID
	}
}

// Create validates the draft and returns the entry it describes. An invalid
// draft, or one with a field the input filters would change, yields
// ErrInvalidDraft and leaves the factory untouched.
func (f *Factory) Create(d Draft) (Entry, error) {
	if d.Filtered() != d || !IsValidDraft(d) {
		return Entry{}, ErrInvalidDraft
	}

	f.mu.Lock()
	now := f.now()

	id := now.UnixMilli()
	if id <= f.lastID {
		id = f.lastID + 1
	}

	f.lastID = id
	f.mu.Unlock()

	return Entry{
		ID:        id,
		Date:      d.Date,
		Type:      d.Sign.Type(),
		Sign:      d.Sign,
		Amount:    d.ParsedAmount(),
		Content:   d.Content,
		Payment:   d.Payment,
		Category:  d.Category,
		CreatedAt: Timestamp{Time: now.UTC()},
	}, nil
}
