// Package aggregate turns the flat ledger into the per-month view the
// surfaces render: monthly totals plus entries grouped by day.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

// Status tells a freshly loaded empty month apart from a view that has not
// been computed yet. The zero value is StatusNotLoaded.
type Status int

const (
	StatusNotLoaded Status = iota
	StatusEmpty
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusReady:
		return "ready"
	}

	return "not_loaded"
}

// DayGroup holds the entries of one date with that day's totals.
type DayGroup struct {
	Date         string
	DailyIncome  int64
	DailyExpense int64
	Entries      []entry.Entry
}

// MonthlyView is the aggregation result for one month. Groups are ordered by
// date descending, entries inside a group by id descending.
type MonthlyView struct {
	Month        Month
	Status       Status
	Count        int
	TotalIncome  int64
	TotalExpense int64
	Groups       []DayGroup
}

// NotLoaded is the view shown before the ledger has been read.
func NotLoaded(m Month) MonthlyView {
	return MonthlyView{Month: m, Status: StatusNotLoaded}
}

// Aggregate filters entries to the month, sorts them and groups them by day.
// The input slice is never modified.
func Aggregate(entries []entry.Entry, m Month) MonthlyView {
	view := MonthlyView{Month: m, Status: StatusEmpty, Groups: []DayGroup{}}

	filtered := make([]entry.Entry, 0, len(entries))

	for _, e := range entries {
		if !m.Contains(e.Date) {
			continue
		}

		filtered = append(filtered, e)
	}

	if len(filtered) == 0 {
		return view
	}

	slices.SortStableFunc(filtered, compareEntries)

	view.Status = StatusReady
	view.Count = len(filtered)

	for _, e := range filtered {
		if len(view.Groups) == 0 || view.Groups[len(view.Groups)-1].Date != e.Date {
			view.Groups = append(view.Groups, DayGroup{Date: e.Date})
		}

		g := &view.Groups[len(view.Groups)-1]
		g.Entries = append(g.Entries, e)

		switch e.Type {
		case entry.TypeIncome:
			g.DailyIncome += e.Amount
			view.TotalIncome += e.Amount
		case entry.TypeExpense:
			g.DailyExpense += e.Amount
			view.TotalExpense += e.Amount
		}
	}

	return view
}

// compareEntries orders by date descending, then id descending.
func compareEntries(a, b entry.Entry) int {
	if c := cmp.Compare(b.Date, a.Date); c != 0 {
		return c
	}

	return cmp.Compare(b.ID, a.ID)
}
