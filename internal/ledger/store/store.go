package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/kv"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

// Store persists the ledger as a JSON array under a single key.
type Store struct {
	kv  kv.Store
	key string
}

func New(kv kv.Store, key string) *Store {
	if key == "" {
		key = ledger.DefaultKey
	}

	return &Store{kv: kv, key: key}
}

func (s *Store) Key() string { return s.key }

// Load reads the ledger. A missing key, malformed JSON and records that do
// not satisfy the entry model all degrade to fewer (or zero) entries; only
// a failing read is returned as an error.
func (s *Store) Load(ctx context.Context) ([]entry.Entry, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []entry.Entry{}, nil
		}

		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	return decode(s.key, raw), nil
}

func (s *Store) Save(ctx context.Context, entries []entry.Entry) error {
	if entries == nil {
		entries = []entry.Entry{}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}

	return nil
}

func decode(key string, raw []byte) []entry.Entry {
	var records []entry.Entry
	if err := json.Unmarshal(raw, &records); err != nil {
		slog.Warn("discarding unreadable ledger", "key", key, "error", err)
		return []entry.Entry{}
	}

	out := make([]entry.Entry, 0, len(records))

	for _, e := range records {
		if !e.Consistent() {
			slog.Warn("dropping malformed entry", "key", key, "id", e.ID)
			continue
		}

		out = append(out, e)
	}

	return out
}

var _ ledger.Storage = (*Store)(nil)
