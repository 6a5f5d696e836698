package entry

import (
	"strconv"
	"strings"
	"time"
)

// Draft is user-entered, not yet validated entry data. Amount is kept as
// the digit string the input holds, which may have leading zeros.
type Draft struct {
	Date     string   `json:"date"`
	Sign     Sign     `json:"sign"`
	Amount   string   `json:"amount"`
	Content  string   `json:"content"`
	Payment  Payment  `json:"payment"`
	Category Category `json:"category"`
}

// NewDraft returns the initial state of the input form: today's date and
// an expense sign, everything else empty.
func NewDraft(now time.Time) Draft {
	return Draft{
		Date: now.Format(time.DateOnly),
		Sign: SignExpense,
	}
}

// WithSign switches the sign and drops a category that belongs to the
// other set.
func (d Draft) WithSign(s Sign) Draft {
	d.Sign = s
	if !d.Category.ValidFor(s) {
		d.Category = ""
	}

	return d
}

// Reset clears the fields that change between successive submissions.
// Date and sign are kept.
func (d Draft) Reset() Draft {
	return Draft{Date: d.Date, Sign: d.Sign}
}

// ParsedAmount returns the draft amount as an integer, or 0 if it does
// not parse.
func (d Draft) ParsedAmount() int64 {
	if d.Amount == "" {
		return 0
	}

	n, err := strconv.ParseInt(d.Amount, 10, 64)
	if err != nil {
		return 0
	}

	return n
}

// IsValidDraft reports whether d can be turned into an entry. It is cheap
// and side-effect free so callers can recompute it on every keystroke.
func IsValidDraft(d Draft) bool {
	switch {
	case len(d.Date) != DateLength:
		return false
	case !d.Sign.Valid():
		return false
	case d.ParsedAmount() <= 0:
		return false
	case strings.TrimSpace(d.Content) == "":
		return false
	case !d.Payment.Valid():
		return false
	case !d.Category.ValidFor(d.Sign):
		return false
	}

	return true
}

// Filtered applies the input filters to every free-text field, as the form
// does on each keystroke.
func (d Draft) Filtered() Draft {
	d.Date = FilterDate(d.Date)
	d.Amount = FilterAmount(d.Amount)
	d.Content = FilterContent(d.Content)

	return d
}
