package entry_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

func TestFilterDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2025-11-05", want: "2025-11-05"},
		{in: "2025/11/05", want: "20251105"},
		{in: "a2025-11-05b", want: "2025-11-05"},
		{in: "2025-11-05-extra", want: "2025-11-05"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, entry.FilterDate(tt.in))
		})
	}
}

func TestFilterAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "12,345", want: "12345"},
		{in: "₩ 1,000원", want: "1000"},
		{in: "007", want: "007"},
		{in: "1234567890123456", want: "123456789012"},
		{in: "-500", want: "500"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, entry.FilterAmount(tt.in))
		})
	}
}

func TestFilterContent(t *testing.T) {
	short := "커피"
	assert.Equal(t, short, entry.FilterContent(short))

	long := strings.Repeat("가", 40)
	got := entry.FilterContent(long)
	assert.Equal(t, 32, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))

	padded := "  lunch  "
	assert.Equal(t, padded, entry.FilterContent(padded))
}

func TestFormatDigits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "7", want: "7"},
		{in: "999", want: "999"},
		{in: "1000", want: "1,000"},
		{in: "123456", want: "123,456"},
		{in: "1234567", want: "1,234,567"},
		{in: "0001000", want: "0,001,000"},
		{in: "1234.56", want: "1,234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, entry.FormatDigits(tt.in))
		})
	}
}

func TestDraft_Filtered(t *testing.T) {
	d := entry.Draft{
		Date:    "2025.11.05x",
		Amount:  "12,000원",
		Content: strings.Repeat("a", 40),
	}.Filtered()

	assert.Equal(t, "20251105", d.Date)
	assert.Equal(t, "12000", d.Amount)
	assert.Len(t, d.Content, entry.MaxContentLength)
}
