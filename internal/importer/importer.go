// Package importer reads ledger entries from CSV files. Every row goes
// through the same draft validation and entry factory as the input form.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

// Ledger is the part of ledger.Service an import writes to.
type Ledger interface {
	Append(ctx context.Context, e entry.Entry) error
}

// Rejection is a row that did not become an entry. Line is 1-based and
// counts the header.
type Rejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type Result struct {
	Imported []entry.Entry `json:"imported"`
	Rejected []Rejection   `json:"rejected"`
}

type Service struct {
	factory *entry.Factory
	ledger  Ledger
}

func NewService(factory *entry.Factory, ledger Ledger) *Service {
	return &Service{factory: factory, ledger: ledger}
}

// Import appends every valid row of r to the ledger. Rows that fail to parse
// or validate are reported in Result.Rejected; only a file that cannot be
// read as CSV at all is an error.
func (s *Service) Import(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := Parse(r)
	if err != nil {
		return Result{}, err
	}

	res := Result{Imported: []entry.Entry{}, Rejected: []Rejection{}}

	for _, row := range rows {
		if row.Err != nil {
			res.Rejected = append(res.Rejected, Rejection{Line: row.Line, Reason: row.Err.Error()})
			continue
		}

		e, err := s.factory.Create(row.Draft)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Line: row.Line, Reason: err.Error()})
			continue
		}

		if err := s.ledger.Append(ctx, e); err != nil {
			return res, fmt.Errorf("line %d: %w", row.Line, err)
		}

		res.Imported = append(res.Imported, e)
	}

	slog.Info("imported entries", "imported", len(res.Imported), "rejected", len(res.Rejected))

	return res, nil
}

var (
	ErrNoHeader       = errors.New("no header row with date, amount, content, payment and category columns")
	ErrFractionAmount = errors.New("amount must be a whole number")
	ErrAmountTooLong  = fmt.Errorf("amount must have at most %d digits", entry.MaxAmountDigits)
	ErrBadDate        = errors.New("date must be YYYY-MM-DD")
	ErrBadSign        = errors.New("sign must be - or +")
)
