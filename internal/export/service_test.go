package export_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bye2money/internal/aggregate"
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/export"
	"github.com/MrJamesThe3rd/bye2money/internal/format"
	"github.com/MrJamesThe3rd/bye2money/internal/importer"
	"github.com/MrJamesThe3rd/bye2money/internal/kv/memory"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger/store"
)

type staticSource []entry.Entry

func (s staticSource) Entries() []entry.Entry { return s }

var november = aggregate.Month{Year: 2025, Month: time.November}

func entries() staticSource {
	return staticSource{
		{ID: 3, Date: "2025-11-06", Type: entry.TypeExpense, Sign: entry.SignExpense, Amount: 12000,
			Content: "점심, 동료와", Payment: entry.PaymentCredit, Category: entry.CategoryFood},
		{ID: 2, Date: "2025-10-31", Type: entry.TypeExpense, Sign: entry.SignExpense, Amount: 999,
			Content: "last month", Payment: entry.PaymentCash, Category: entry.CategoryLiving},
		{ID: 1, Date: "2025-11-05", Type: entry.TypeIncome, Sign: entry.SignIncome, Amount: 5000,
			Content: "용돈", Payment: entry.PaymentCash, Category: entry.CategoryAllowance},
	}
}

func TestService_WriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.NewService(entries()).WriteCSV(context.Background(), november, &buf))

	want := "date,sign,amount,content,payment,category\n" +
		"2025-11-06,-,12000,\"점심, 동료와\",신용카드,식비\n" +
		"2025-11-05,+,5000,용돈,현금,용돈\n"
	assert.Equal(t, want, buf.String())
}

func TestService_WriteCSV_EmptyMonth(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.NewService(entries()).WriteCSV(context.Background(), aggregate.Month{Year: 2024, Month: time.May}, &buf))
	assert.Equal(t, "date,sign,amount,content,payment,category\n", buf.String())
}

func TestService_ExportToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := export.NewService(entries()).ExportToDir(context.Background(), november, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bye2money_2025-11.csv"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "date,sign"))
}

// What an export writes, an import into an empty ledger reads back.
func TestService_RoundTripThroughImporter(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, export.NewService(entries()).WriteCSV(ctx, november, &buf))

	target := ledger.NewService(store.New(memory.New(), ""))
	require.NoError(t, target.Load(ctx))

	res, err := importer.NewService(entry.NewFactory(nil), target).Import(ctx, &buf)
	require.NoError(t, err)
	assert.Empty(t, res.Rejected)

	before := aggregate.Aggregate(entries(), november)
	after := aggregate.Aggregate(target.Entries(), november)

	assert.Equal(t, before.Count, after.Count)
	assert.Equal(t, before.TotalIncome, after.TotalIncome)
	assert.Equal(t, before.TotalExpense, after.TotalExpense)

	for i := range before.Groups {
		assert.Equal(t, before.Groups[i].Date, after.Groups[i].Date)
		assert.Equal(t, before.Groups[i].Entries[0].Content, after.Groups[i].Entries[0].Content)
	}
}

func TestSummary(t *testing.T) {
	f := format.New("ko-KR")
	svc := export.NewService(entries())

	got := export.Summary(svc.Month(november), f)
	assert.Contains(t, got, "2025년 11월 내역")
	assert.Contains(t, got, "2건")
	assert.Contains(t, got, "11월 6일 목요일")
	assert.Contains(t, got, "* 식비 | 점심, 동료와 | 신용카드 | -12,000")

	empty := export.Summary(svc.Month(aggregate.Month{Year: 2024, Month: time.May}), f)
	assert.Contains(t, empty, "해당 월의 내역이 없습니다.")
}
