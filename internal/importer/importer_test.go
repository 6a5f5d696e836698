package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/importer"
	"github.com/MrJamesThe3rd/bye2money/internal/kv/memory"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger/store"
)

var fixedNow = time.Date(2025, 11, 6, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*importer.Service, *ledger.Service) {
	t.Helper()

	svc := ledger.NewService(store.New(memory.New(), ""))
	require.NoError(t, svc.Load(context.Background()))

	factory := entry.NewFactory(func() time.Time { return fixedNow })

	return importer.NewService(factory, svc), svc
}

func TestService_Import(t *testing.T) {
	type args struct {
		csvContent string
	}

	type testCase struct {
		name         string
		args         args
		wantImported int
		wantRejected []int
		verify       func(t *testing.T, res importer.Result)
		wantErr      error
	}

	tests := []testCase{
		{
			name: "EnglishHeader",
			args: args{
				csvContent: "date,sign,amount,content,payment,category\n" +
					"2025-11-05,-,\"12,000\",점심,현금,식비\n" +
					"2025-11-06,+,500000,11월 월급,체크카드,월급\n",
			},
			wantImported: 2,
			verify: func(t *testing.T, res importer.Result) {
				first := res.Imported[0]
				assert.Equal(t, "2025-11-05", first.Date)
				assert.Equal(t, entry.SignExpense, first.Sign)
				assert.Equal(t, entry.TypeExpense, first.Type)
				assert.Equal(t, int64(12000), first.Amount)
				assert.Equal(t, entry.CategoryFood, first.Category)

				assert.Equal(t, entry.TypeIncome, res.Imported[1].Type)
				assert.Greater(t, res.Imported[1].ID, first.ID)
			},
		},
		{
			name: "KoreanHeaderSemicolonNoSignColumn",
			args: args{
				csvContent: "날짜;금액;내용;결제수단;분류\n" +
					"2025.11.05;-3,500원;커피;신용카드;식비\n" +
					"2025/11/04;20000;용돈;현금;용돈\n",
			},
			wantImported: 2,
			verify: func(t *testing.T, res importer.Result) {
				assert.Equal(t, entry.SignExpense, res.Imported[0].Sign)
				assert.Equal(t, int64(3500), res.Imported[0].Amount)
				assert.Equal(t, "2025-11-04", res.Imported[1].Date)
				assert.Equal(t, entry.SignIncome, res.Imported[1].Sign)
			},
		},
		{
			name: "RejectedRowsKeepLineNumbers",
			args: args{
				csvContent: "date,sign,amount,content,payment,category\n" +
					"2025-11-05,-,1.5,fraction,현금,식비\n" +
					"\n" +
					"2025-13-05,-,1000,bad date,현금,식비\n" +
					"2025-11-05,-,1000,   ,현금,식비\n" +
					"2025-11-05,+,1000,wrong set,현금,식비\n" +
					"2025-11-05,-,1000,unknown payment,계좌이체,식비\n" +
					"2025-11-05,?,1000,bad sign,현금,식비\n" +
					"2025-11-05,-,1000,ok,현금,식비\n",
			},
			wantImported: 1,
			wantRejected: []int{2, 4, 5, 6, 7, 8},
		},
		{
			name: "LeadingTitleRows",
			args: args{
				csvContent: "가계부 내보내기\n\n" +
					"date,sign,amount,content,payment,category\n" +
					"2025-11-05,-,1000,ok,현금,식비\n",
			},
			wantImported: 1,
		},
		{
			name:    "NoHeader",
			args:    args{csvContent: "2025-11-05,-,1000,ok,현금,식비\n"},
			wantErr: importer.ErrNoHeader,
		},
		{
			name:    "Empty",
			args:    args{csvContent: ""},
			wantErr: importer.ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ledgerSvc := newService(t)

			res, err := svc.Import(context.Background(), strings.NewReader(tt.args.csvContent))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, res.Imported, tt.wantImported)
			assert.Len(t, ledgerSvc.Entries(), tt.wantImported)

			lines := make([]int, 0, len(res.Rejected))
			for _, r := range res.Rejected {
				lines = append(lines, r.Line)
				assert.NotEmpty(t, r.Reason)
			}

			if tt.wantRejected == nil {
				assert.Empty(t, lines)
			} else {
				assert.Equal(t, tt.wantRejected, lines)
			}

			if tt.verify != nil {
				tt.verify(t, res)
			}
		})
	}
}

func TestService_Import_EUCKR(t *testing.T) {
	content := "날짜,구분,금액,내용,결제수단,분류\n2025-11-05,지출,8000,저녁,현금,식비\n"

	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(content))
	require.NoError(t, err)

	svc, _ := newService(t)

	res, err := svc.Import(context.Background(), strings.NewReader(string(encoded)))
	require.NoError(t, err)
	require.Len(t, res.Imported, 1)
	assert.Equal(t, "저녁", res.Imported[0].Content)
	assert.Equal(t, entry.PaymentCash, res.Imported[0].Payment)
}

type failingLedger struct{}

func (failingLedger) Append(context.Context, entry.Entry) error {
	return errors.New("ledger closed")
}

func TestService_Import_LedgerError(t *testing.T) {
	svc := importer.NewService(entry.NewFactory(nil), failingLedger{})

	_, err := svc.Import(context.Background(), strings.NewReader(
		"date,sign,amount,content,payment,category\n2025-11-05,-,1000,ok,현금,식비\n"))
	assert.ErrorContains(t, err, "line 2: ledger closed")
}

func TestParse_ContentTruncated(t *testing.T) {
	long := strings.Repeat("가", entry.MaxContentLength+5)

	rows, err := importer.Parse(strings.NewReader(
		"date,sign,amount,content,payment,category\n2025-11-05,-,1000," + long + ",현금,식비\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entry.MaxContentLength, len([]rune(rows[0].Draft.Content)))
}

func TestParse_AmountChecks(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr error
	}{
		{amount: "1.5", wantErr: importer.ErrFractionAmount},
		{amount: "1234567890123", wantErr: importer.ErrAmountTooLong},
		{amount: "\"999,999,999,999\""},
		{amount: "1000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			rows, err := importer.Parse(strings.NewReader(
				"date,sign,amount,content,payment,category\n2025-11-05,-," + tt.amount + ",x,현금,식비\n"))
			require.NoError(t, err)
			require.Len(t, rows, 1)

			if tt.wantErr != nil {
				assert.ErrorIs(t, rows[0].Err, tt.wantErr)
			} else {
				assert.NoError(t, rows[0].Err)
			}
		})
	}
}
