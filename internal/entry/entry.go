package entry

import (
	"time"
)

// Sign is the user-facing direction of a money movement.
type Sign string

const (
	SignExpense Sign = "-"
	SignIncome  Sign = "+"
)

// Type represents the type of entry (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Payment is the payment method used for an entry.
type Payment string

const (
	PaymentCash   Payment = "현금"
	PaymentDebit  Payment = "체크카드"
	PaymentCredit Payment = "신용카드"
)

// Payments lists the payment methods in the order the input form offers them.
var Payments = []Payment{PaymentCash, PaymentDebit, PaymentCredit}

// Type derives the entry type from the sign. Anything but "-" is income.
func (s Sign) Type() Type {
	if s == SignExpense {
		return TypeExpense
	}

	return TypeIncome
}

func (s Sign) Valid() bool {
	return s == SignExpense || s == SignIncome
}

// Sign is the inverse of Sign.Type.
func (t Type) Sign() Sign {
	if t == TypeExpense {
		return SignExpense
	}

	return SignIncome
}

func (p Payment) Valid() bool {
	for _, known := range Payments {
		if p == known {
			return true
		}
	}

	return false
}

// Entry is a single recorded money movement. Entries are immutable once
// created; corrections are a delete followed by a new entry.
type Entry struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Type      Type      `json:"type"`
	Sign      Sign      `json:"sign"`
	Amount    int64     `json:"amount"`
	Content   string    `json:"content"`
	Payment   Payment   `json:"payment"`
	Category  Category  `json:"category"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Consistent reports whether a decoded entry still satisfies the model:
// sign and type agree, the category belongs to the sign's set and the
// remaining fields are inside their bounds.
func (e Entry) Consistent() bool {
	if !e.Sign.Valid() || e.Sign.Type() != e.Type {
		return false
	}

	if len(e.Date) != DateLength || e.Amount < 1 {
		return false
	}

	return e.Payment != "" && e.Category.ValidFor(e.Sign)
}

// Timestamp marshals as an ISO 8601 UTC string with millisecond precision.
type Timestamp struct {
	time.Time
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(timestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(`"`+time.RFC3339Nano+`"`, s)
	if err != nil {
		return err
	}

	t.Time = parsed

	return nil
}
