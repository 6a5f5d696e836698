// Package broadcast carries ledger change notifications between processes
// that share one durable store.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

// Message is the wire form of a ledger change. It is a change marker only;
// receivers reload the ledger instead of applying the payload.
type Message struct {
	Kind      ledger.ChangeKind `json:"kind"`
	Key       string            `json:"key"`
	ID        int64             `json:"id,omitempty"`
	Origin    string            `json:"origin"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewOrigin returns a fresh process identity for ledger.WithOrigin.
func NewOrigin() string {
	return uuid.NewString()
}

func FromChange(c ledger.Change) Message {
	return Message{
		Kind:      c.Kind,
		Key:       c.Key,
		ID:        c.ID,
		Origin:    c.Origin,
		Timestamp: time.Now().UTC(),
	}
}

func (m Message) Change() ledger.Change {
	return ledger.Change{Kind: m.Kind, Key: m.Key, ID: m.ID, Origin: m.Origin}
}

func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

func Decode(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, fmt.Errorf("decoding message: %w", err)
	}

	return m, nil
}

// Handler is the side of the ledger service that reacts to notifications.
type Handler interface {
	HandlePeerWrite(ctx context.Context, c ledger.Change) error
	HandleExternalChange(ctx context.Context, key string) error
}

// Dispatch routes a received message: writes made through another ledger
// service are peer writes, anything else touching the store is external.
func Dispatch(ctx context.Context, h Handler, m Message) error {
	switch m.Kind {
	case ledger.ChangeAppend, ledger.ChangeDelete, ledger.ChangeReload:
		return h.HandlePeerWrite(ctx, m.Change())
	case ledger.ChangeExternal:
		return h.HandleExternalChange(ctx, m.Key)
	}

	slog.Warn("ignoring unknown ledger message", "kind", m.Kind, "origin", m.Origin)

	return nil
}
