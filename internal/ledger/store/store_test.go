package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
	"github.com/MrJamesThe3rd/bye2money/internal/kv"
	"github.com/MrJamesThe3rd/bye2money/internal/kv/memory"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger"
	"github.com/MrJamesThe3rd/bye2money/internal/ledger/store"
)

func entries() []entry.Entry {
	created := entry.Timestamp{Time: time.Date(2025, 11, 5, 9, 0, 0, 0, time.UTC)}

	return []entry.Entry{
		{
			ID: 2, Date: "2025-11-05", Type: entry.TypeExpense, Sign: entry.SignExpense, Amount: 10000,
			Content: "장보기", Payment: entry.PaymentDebit, Category: entry.CategoryLiving, CreatedAt: created,
		},
		{
			ID: 1, Date: "2025-11-05", Type: entry.TypeIncome, Sign: entry.SignIncome, Amount: 5000,
			Content: "용돈", Payment: entry.PaymentCash, Category: entry.CategoryAllowance, CreatedAt: created,
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.New(memory.New(), "")
	assert.Equal(t, ledger.DefaultKey, s.Key())

	require.NoError(t, s.Save(ctx, entries()))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, want := range entries() {
		assert.Equal(t, want.ID, got[i].ID)
		assert.Equal(t, want.Content, got[i].Content)
		assert.True(t, want.CreatedAt.Equal(got[i].CreatedAt.Time))
	}
}

func TestStore_Load(t *testing.T) {
	type testCase struct {
		name    string
		stored  *string
		wantLen int
	}

	raw := func(s string) *string { return &s }

	tests := []testCase{
		{name: "MissingKey", stored: nil, wantLen: 0},
		{name: "MalformedJSON", stored: raw(`[{"id":1,`), wantLen: 0},
		{name: "WrongShape", stored: raw(`{"id":1}`), wantLen: 0},
		{name: "Null", stored: raw(`null`), wantLen: 0},
		{name: "EmptyArray", stored: raw(`[]`), wantLen: 0},
		{
			name: "DropsInconsistentRecords",
			stored: raw(`[
				{"id":1,"date":"2025-11-05","type":"income","sign":"-","amount":5,"content":"x","payment":"현금","category":"월급"},
				{"id":2,"date":"2025-11-05","type":"expense","sign":"-","amount":5,"content":"x","payment":"현금","category":"식비"}
			]`),
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backing := memory.New()

			if tt.stored != nil {
				require.NoError(t, backing.Set(ctx, "logs", []byte(*tt.stored)))
			}

			got, err := store.New(backing, "logs").Load(ctx)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestStore_ReadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backing := kv.NewMockStore(ctrl)
	backing.EXPECT().Get(gomock.Any(), "logs").Return(nil, errors.New("connection refused"))

	_, err := store.New(backing, "logs").Load(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestStore_WriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backing := kv.NewMockStore(ctrl)
	backing.EXPECT().Set(gomock.Any(), "logs", gomock.Any()).Return(errors.New("quota exceeded"))

	err := store.New(backing, "logs").Save(context.Background(), entries())
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestStore_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()

	require.NoError(t, store.New(backing, "logs").Save(ctx, nil))

	raw, err := backing.Get(ctx, "logs")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

// The service and store together: what was appended is what the next
// process loads.
func TestStore_WithService(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()

	first := ledger.NewService(store.New(backing, ""))
	require.NoError(t, first.Load(ctx))

	for _, e := range entries() {
		require.NoError(t, first.Append(ctx, e))
	}

	assert.True(t, first.Delete(ctx, 2))
	assert.False(t, first.Delete(ctx, 2))

	second := ledger.NewService(store.New(backing, ""))
	require.NoError(t, second.Load(ctx))

	require.Len(t, second.Entries(), 1)
	assert.Equal(t, int64(1), second.Entries()[0].ID)
}
