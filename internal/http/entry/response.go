package entry

import (
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

type validationResponse struct {
	Valid         bool         `json:"valid"`
	Draft         *entry.Draft `json:"draft,omitempty"`
	AmountDisplay string       `json:"amountDisplay,omitempty"`
}

type listResponse struct {
	Loaded  bool          `json:"loaded"`
	Dirty   bool          `json:"dirty"`
	Entries []entry.Entry `json:"entries"`
}
