package entry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

func validDraft() entry.Draft {
	return entry.Draft{
		Date:     "2025-11-05",
		Sign:     entry.SignExpense,
		Amount:   "10000",
		Content:  "점심",
		Payment:  entry.PaymentCash,
		Category: entry.CategoryFood,
	}
}

func TestIsValidDraft(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(d *entry.Draft)
		want   bool
	}

	tests := []testCase{
		{
			name:   "Valid",
			mutate: func(d *entry.Draft) {},
			want:   true,
		},
		{
			name: "ValidIncome",
			mutate: func(d *entry.Draft) {
				d.Sign = entry.SignIncome
				d.Category = entry.CategorySalary
			},
			want: true,
		},
		{
			name:   "LeadingZerosAmount",
			mutate: func(d *entry.Draft) { d.Amount = "000120" },
			want:   true,
		},
		{
			name:   "ShortDate",
			mutate: func(d *entry.Draft) { d.Date = "2025-11-5" },
			want:   false,
		},
		{
			name:   "EmptyDate",
			mutate: func(d *entry.Draft) { d.Date = "" },
			want:   false,
		},
		{
			name:   "ZeroAmount",
			mutate: func(d *entry.Draft) { d.Amount = "0" },
			want:   false,
		},
		{
			name:   "AllZerosAmount",
			mutate: func(d *entry.Draft) { d.Amount = "0000" },
			want:   false,
		},
		{
			name:   "EmptyAmount",
			mutate: func(d *entry.Draft) { d.Amount = "" },
			want:   false,
		},
		{
			name:   "NonNumericAmount",
			mutate: func(d *entry.Draft) { d.Amount = "abc" },
			want:   false,
		},
		{
			name:   "BlankContent",
			mutate: func(d *entry.Draft) { d.Content = "   " },
			want:   false,
		},
		{
			name:   "EmptyPayment",
			mutate: func(d *entry.Draft) { d.Payment = "" },
			want:   false,
		},
		{
			name:   "UnknownPayment",
			mutate: func(d *entry.Draft) { d.Payment = "bitcoin" },
			want:   false,
		},
		{
			name:   "EmptyCategory",
			mutate: func(d *entry.Draft) { d.Category = "" },
			want:   false,
		},
		{
			name:   "IncomeCategoryOnExpense",
			mutate: func(d *entry.Draft) { d.Category = entry.CategorySalary },
			want:   false,
		},
		{
			name: "ExpenseCategoryOnIncome",
			mutate: func(d *entry.Draft) {
				d.Sign = entry.SignIncome
				d.Category = entry.CategoryFood
			},
			want: false,
		},
		{
			name:   "UnknownSign",
			mutate: func(d *entry.Draft) { d.Sign = "*" },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			assert.Equal(t, tt.want, entry.IsValidDraft(d))
		})
	}
}

func TestDraft_WithSign(t *testing.T) {
	d := validDraft()

	switched := d.WithSign(entry.SignIncome)
	assert.Equal(t, entry.SignIncome, switched.Sign)
	assert.Empty(t, switched.Category)
	assert.False(t, entry.IsValidDraft(switched))

	same := d.WithSign(entry.SignExpense)
	assert.Equal(t, entry.CategoryFood, same.Category)
}

func TestDraft_Reset(t *testing.T) {
	d := validDraft()
	d.Sign = entry.SignIncome

	got := d.Reset()
	assert.Equal(t, entry.Draft{Date: "2025-11-05", Sign: entry.SignIncome}, got)
}

func TestNewDraft(t *testing.T) {
	d := entry.NewDraft(time.Date(2025, 11, 6, 22, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-11-06", d.Date)
	assert.Equal(t, entry.SignExpense, d.Sign)
	assert.False(t, entry.IsValidDraft(d))
}
