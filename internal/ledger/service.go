package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

// DefaultKey is the storage namespace the ledger lives under.
const DefaultKey = "bye2money_logs"

var ErrDuplicateID = errors.New("entry id already exists")

//go:generate mockgen -source=service.go -destination=storage_mock.go -package=ledger
type Storage interface {
	// Load returns the stored collection. Missing or undecodable data is an
	// empty collection, not an error.
	Load(ctx context.Context) ([]entry.Entry, error)
	// Save replaces the stored collection.
	Save(ctx context.Context, entries []entry.Entry) error
}

// Broadcaster tells other processes sharing the same storage that it changed.
type Broadcaster interface {
	Publish(ctx context.Context, c Change) error
}

// Service owns the in-memory ledger. Every mutation goes through Append or
// Delete, is persisted before the call returns and is then announced to
// subscribers. A failed save keeps the in-memory state and marks the
// service dirty; nothing is retried, and reloads leave a dirty ledger alone.
type Service struct {
	storage     Storage
	broadcaster Broadcaster
	onError     func(error)
	key         string
	origin      string

	// ioMu serialises storage reads and writes with the state swap that
	// follows them, so a reload can never overwrite a newer mutation.
	ioMu sync.Mutex

	mu      sync.Mutex
	entries []entry.Entry
	loaded  bool
	dirty   bool

	subsMu  sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

type Option func(*Service)

func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) { s.broadcaster = b }
}

// WithErrorObserver receives every persistence failure.
func WithErrorObserver(fn func(error)) Option {
	return func(s *Service) { s.onError = fn }
}

func WithKey(key string) Option {
	return func(s *Service) { s.key = key }
}

// WithOrigin sets the id stamped on published changes. Peer changes carrying
// the same origin are ignored.
func WithOrigin(origin string) Option {
	return func(s *Service) { s.origin = origin }
}

func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		key:     DefaultKey,
		subs:    make(map[int]func(Change)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Key() string    { return s.key }
func (s *Service) Origin() string { return s.origin }

// Load replaces the in-memory ledger with the stored one. If the storage
// cannot be read the current state is kept, which is the empty ledger on
// first load. A dirty ledger holds changes the storage never got and is
// kept as is.
func (s *Service) Load(ctx context.Context) error {
	s.ioMu.Lock()
	loaded, err := s.storage.Load(ctx)

	s.mu.Lock()
	if err != nil {
		s.loaded = true
		s.mu.Unlock()
		s.ioMu.Unlock()

		slog.Error("failed to load ledger", "key", s.key, "error", err)

		return fmt.Errorf("loading ledger: %w", err)
	}

	if s.dirty {
		s.loaded = true
		s.mu.Unlock()
		s.ioMu.Unlock()

		slog.Warn("keeping unsaved ledger over stored copy", "key", s.key, "stored", len(loaded))

		return nil
	}

	s.entries = dedupe(loaded)
	s.loaded = true
	s.mu.Unlock()
	s.ioMu.Unlock()

	s.notify(Change{Kind: ChangeReload, Key: s.key, Origin: s.origin})

	return nil
}

// Append adds e at the front of the ledger and persists the collection.
func (s *Service) Append(ctx context.Context, e entry.Entry) error {
	s.ioMu.Lock()
	s.mu.Lock()

	if slices.ContainsFunc(s.entries, func(x entry.Entry) bool { return x.ID == e.ID }) {
		s.mu.Unlock()
		s.ioMu.Unlock()

		return fmt.Errorf("appending entry %d: %w", e.ID, ErrDuplicateID)
	}

	s.entries = slices.Insert(s.entries, 0, e)
	saved := s.persist(ctx)
	s.mu.Unlock()
	s.ioMu.Unlock()

	c := Change{Kind: ChangeAppend, Key: s.key, Entry: &e, ID: e.ID, Origin: s.origin}
	s.notify(c)

	if saved {
		s.publish(ctx, c)
	}

	return nil
}

// Delete removes the entry with the given id. It reports whether an entry
// was removed; an unknown id changes nothing.
func (s *Service) Delete(ctx context.Context, id int64) bool {
	s.ioMu.Lock()
	s.mu.Lock()

	idx := slices.IndexFunc(s.entries, func(x entry.Entry) bool { return x.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		s.ioMu.Unlock()

		return false
	}

	removed := s.entries[idx]
	s.entries = slices.Delete(s.entries, idx, idx+1)
	saved := s.persist(ctx)
	s.mu.Unlock()
	s.ioMu.Unlock()

	c := Change{Kind: ChangeDelete, Key: s.key, Entry: &removed, ID: id, Origin: s.origin}
	s.notify(c)

	if saved {
		s.publish(ctx, c)
	}

	return true
}

// Entries returns a copy of the ledger, most recent first.
func (s *Service) Entries() []entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.entries)
}

// Loaded reports whether Load has run at least once.
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loaded
}

// Dirty reports whether the last save failed, leaving the stored ledger
// behind the in-memory one.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirty
}

// MaxID returns the largest id in the ledger, or 0.
func (s *Service) MaxID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, e := range s.entries {
		maxID = max(maxID, e.ID)
	}

	return maxID
}

// Subscribe registers fn for every change. The returned func unsubscribes.
func (s *Service) Subscribe(fn func(Change)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()

		delete(s.subs, id)
	}
}

// HandlePeerWrite reloads after another process saved the ledger. Changes
// we published ourselves and changes to other keys are ignored.
func (s *Service) HandlePeerWrite(ctx context.Context, c Change) error {
	if s.origin != "" && c.Origin == s.origin {
		return nil
	}

	if c.Key != "" && c.Key != s.key {
		return nil
	}

	return s.Load(ctx)
}

// HandleExternalChange reloads when the stored value under key changed
// through a channel other than this service.
func (s *Service) HandleExternalChange(ctx context.Context, key string) error {
	if key != s.key {
		return nil
	}

	return s.Load(ctx)
}

// persist must be called with s.mu held.
func (s *Service) persist(ctx context.Context) bool {
	if err := s.storage.Save(ctx, slices.Clone(s.entries)); err != nil {
		s.dirty = true

		slog.Error("failed to save ledger", "key", s.key, "entries", len(s.entries), "error", err)

		if s.onError != nil {
			s.onError(fmt.Errorf("saving ledger: %w", err))
		}

		return false
	}

	s.dirty = false

	return true
}

func (s *Service) publish(ctx context.Context, c Change) {
	if s.broadcaster == nil {
		return
	}

	if err := s.broadcaster.Publish(ctx, c); err != nil {
		slog.Warn("failed to publish ledger change", "kind", c.Kind, "id", c.ID, "error", err)
	}
}

func (s *Service) notify(c Change) {
	s.subsMu.Lock()
	subs := make([]func(Change), 0, len(s.subs))

	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(c)
	}
}

// dedupe keeps the first occurrence of each id.
func dedupe(entries []entry.Entry) []entry.Entry {
	seen := make(map[int64]struct{}, len(entries))
	out := make([]entry.Entry, 0, len(entries))

	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}

		seen[e.ID] = struct{}{}
		out = append(out, e)
	}

	return out
}
