package ledger

import (
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

type ChangeKind string

const (
	ChangeAppend   ChangeKind = "append"
	ChangeDelete   ChangeKind = "delete"
	ChangeReload   ChangeKind = "reload"
	ChangeExternal ChangeKind = "external"
)

// Change describes one mutation of the ledger. Entry is set for appends and
// deletes; Origin identifies the process that made the change.
type Change struct {
	Kind   ChangeKind
	Key    string
	Entry  *entry.Entry
	ID     int64
	Origin string
}
