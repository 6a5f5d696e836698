package aggregate_test

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bye2money/internal/aggregate"
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

func expense(id int64, date string, amount int64) entry.Entry {
	return entry.Entry{
		ID: id, Date: date, Type: entry.TypeExpense, Sign: entry.SignExpense, Amount: amount,
		Content: "expense", Payment: entry.PaymentCash, Category: entry.CategoryFood,
	}
}

func income(id int64, date string, amount int64) entry.Entry {
	return entry.Entry{
		ID: id, Date: date, Type: entry.TypeIncome, Sign: entry.SignIncome, Amount: amount,
		Content: "income", Payment: entry.PaymentCash, Category: entry.CategorySalary,
	}
}

var november = aggregate.Month{Year: 2025, Month: time.November}

func TestAggregate_Scenario(t *testing.T) {
	entries := []entry.Entry{
		expense(2, "2025-11-05", 10000),
		income(1, "2025-11-05", 5000),
		expense(3, "2025-10-20", 1000),
	}

	view := aggregate.Aggregate(entries, november)

	assert.Equal(t, aggregate.StatusReady, view.Status)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, int64(5000), view.TotalIncome)
	assert.Equal(t, int64(10000), view.TotalExpense)

	require.Len(t, view.Groups, 1)

	g := view.Groups[0]
	assert.Equal(t, "2025-11-05", g.Date)
	assert.Equal(t, int64(5000), g.DailyIncome)
	assert.Equal(t, int64(10000), g.DailyExpense)
	require.Len(t, g.Entries, 2)
	assert.Equal(t, int64(2), g.Entries[0].ID)
	assert.Equal(t, int64(1), g.Entries[1].ID)
}

func TestAggregate_EmptyMonth(t *testing.T) {
	entries := []entry.Entry{expense(3, "2025-10-20", 1000)}

	view := aggregate.Aggregate(entries, november)

	assert.Equal(t, aggregate.StatusEmpty, view.Status)
	assert.Equal(t, 0, view.Count)
	assert.Zero(t, view.TotalIncome)
	assert.Zero(t, view.TotalExpense)
	assert.NotNil(t, view.Groups)
	assert.Empty(t, view.Groups)

	assert.NotEqual(t, aggregate.NotLoaded(november).Status, view.Status)
}

func TestAggregate_NilInput(t *testing.T) {
	view := aggregate.Aggregate(nil, november)
	assert.Equal(t, aggregate.StatusEmpty, view.Status)
	assert.Equal(t, november, view.Month)
}

func TestAggregate_SortAndGroupOrder(t *testing.T) {
	entries := []entry.Entry{
		expense(10, "2025-11-01", 100),
		expense(40, "2025-11-30", 400),
		income(20, "2025-11-15", 200),
		expense(30, "2025-11-15", 300),
		expense(5, "2025-11-30", 50),
	}

	view := aggregate.Aggregate(entries, november)

	require.Len(t, view.Groups, 3)
	assert.Equal(t, "2025-11-30", view.Groups[0].Date)
	assert.Equal(t, "2025-11-15", view.Groups[1].Date)
	assert.Equal(t, "2025-11-01", view.Groups[2].Date)

	ids := func(g aggregate.DayGroup) []int64 {
		out := make([]int64, len(g.Entries))
		for i, e := range g.Entries {
			out[i] = e.ID
		}

		return out
	}

	assert.Equal(t, []int64{40, 5}, ids(view.Groups[0]))
	assert.Equal(t, []int64{30, 20}, ids(view.Groups[1]))
	assert.Equal(t, []int64{10}, ids(view.Groups[2]))
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	entries := []entry.Entry{
		expense(1, "2025-11-01", 100),
		expense(2, "2025-11-02", 200),
		income(3, "2025-11-03", 300),
	}
	original := append([]entry.Entry(nil), entries...)

	first := aggregate.Aggregate(entries, november)
	second := aggregate.Aggregate(entries, november)

	assert.Equal(t, original, entries)
	assert.Equal(t, first, second)
}

func TestAggregate_Laws(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	var entries []entry.Entry

	for i := range 200 {
		day := r.IntN(28) + 1
		month := []string{"10", "11", "12"}[r.IntN(3)]
		date := fmt.Sprintf("2025-%s-%02d", month, day)
		amount := int64(r.IntN(100000) + 1)

		if r.IntN(2) == 0 {
			entries = append(entries, income(int64(i+1), date, amount))
		} else {
			entries = append(entries, expense(int64(i+1), date, amount))
		}
	}

	r.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })

	view := aggregate.Aggregate(entries, november)

	var (
		sumIncome, sumExpense int64
		seen                  = map[int64]int{}
		flat                  []entry.Entry
	)

	for _, g := range view.Groups {
		sumIncome += g.DailyIncome
		sumExpense += g.DailyExpense

		for _, e := range g.Entries {
			assert.Equal(t, g.Date, e.Date)
			seen[e.ID]++
			flat = append(flat, e)
		}
	}

	assert.Equal(t, view.TotalIncome, sumIncome)
	assert.Equal(t, view.TotalExpense, sumExpense)

	wantCount := 0

	for _, e := range entries {
		if november.Contains(e.Date) {
			wantCount++
			assert.Equal(t, 1, seen[e.ID], "entry %d must appear exactly once", e.ID)
		}
	}

	assert.Equal(t, wantCount, view.Count)
	assert.Len(t, flat, wantCount)

	for i := 1; i < len(flat); i++ {
		prev, cur := flat[i-1], flat[i]
		if prev.Date == cur.Date {
			assert.Greater(t, prev.ID, cur.ID)
			continue
		}

		assert.Greater(t, prev.Date, cur.Date)
	}
}
