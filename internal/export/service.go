// Package export writes a month of the ledger to CSV in the layout the
// importer reads back.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/bye2money/internal/aggregate"
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/format"
)

// Header is the column layout of exported files.
var Header = []string{"date", "sign", "amount", "content", "payment", "category"}

// Source is the part of ledger.Service an export reads from.
type Source interface {
	Entries() []entry.Entry
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Month returns the aggregated view the export is written from.
func (s *Service) Month(m aggregate.Month) aggregate.MonthlyView {
	return aggregate.Aggregate(s.source.Entries(), m)
}

// WriteCSV writes the entries of m, newest day first, to w.
func (s *Service) WriteCSV(_ context.Context, m aggregate.Month, w io.Writer) error {
	return WriteView(s.Month(m), w)
}

// ExportToDir writes the month to <dir>/bye2money_YYYY-MM.csv and returns
// the path.
func (s *Service) ExportToDir(ctx context.Context, m aggregate.Month, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, Filename(m))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := writeAndClose(f, func(w io.Writer) error { return s.WriteCSV(ctx, m, w) }); err != nil {
		return "", err
	}

	return path, nil
}

// writeAndClose closes wc after write and reports the close error when the
// write itself succeeded.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		_ = wc.Close()
		return err
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}

	return nil
}

func Filename(m aggregate.Month) string {
	return "bye2money_" + m.String() + ".csv"
}

// WriteView writes every entry of a monthly view in display order.
func WriteView(view aggregate.MonthlyView, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, g := range view.Groups {
		for _, e := range g.Entries {
			record := []string{
				e.Date,
				string(e.Sign),
				strconv.FormatInt(e.Amount, 10),
				e.Content,
				string(e.Payment),
				string(e.Category),
			}

			if err := cw.Write(record); err != nil {
				return fmt.Errorf("writing entry %d: %w", e.ID, err)
			}
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// Summary renders a plain-text digest of a month, one line per entry under
// each day heading, for pasting into a message.
func Summary(view aggregate.MonthlyView, f *format.Formatter) string {
	var sb strings.Builder

	sb.WriteString(f.Text(format.MsgMonthLogs, f.MonthTitle(view.Month)))
	sb.WriteString("\n")

	if len(view.Groups) == 0 {
		sb.WriteString(f.Text(format.MsgEmptyMonth))
		sb.WriteString("\n")

		return sb.String()
	}

	fmt.Fprintf(&sb, "%s | %s %s | %s %s\n",
		f.Text(format.MsgCount, view.Count),
		f.Text(format.MsgTotalIncome), f.Currency(view.TotalIncome),
		f.Text(format.MsgTotalExpense), f.Currency(view.TotalExpense),
	)

	for _, g := range view.Groups {
		fmt.Fprintf(&sb, "\n%s\n", f.DateLong(g.Date))

		for _, e := range g.Entries {
			fmt.Fprintf(&sb, "* %s | %s | %s | %s\n", e.Category, e.Content, e.Payment, f.SignedAmount(e))
		}
	}

	return sb.String()
}
