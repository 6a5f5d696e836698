package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// LedgerChangedMsg is sent to the program for every ledger change, local or
// from another process.
type LedgerChangedMsg struct {
	Change ledger.Change
}
