package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

// parseAmount parses a won amount such as "12,000", "12000원" or "-3,500"
// into its absolute value and whether it was negative. Fractions are
// rejected; the ledger only records whole won.
func parseAmount(s string) (int64, bool, error) {
	clean := strings.NewReplacer(",", "", "원", "", "₩", "", " ", "").Replace(s)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, false, fmt.Errorf("amount %q: %w", s, err)
	}

	if !d.IsInteger() {
		return 0, false, ErrFractionAmount
	}

	neg := d.IsNegative()
	abs := d.Abs()

	if len(abs.String()) > entry.MaxAmountDigits {
		return 0, false, ErrAmountTooLong
	}

	return abs.IntPart(), neg, nil
}
