package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/bye2money/internal/encoding"
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

// Row is one data row of an import file. Err is set when the row could not
// be turned into a draft.
type Row struct {
	Line  int
	Draft entry.Draft
	Err   error
}

type column int

const (
	colDate column = iota
	colSign
	colAmount
	colContent
	colPayment
	colCategory
)

// headerNames maps accepted header cells to columns. The export writes the
// English names; the Korean ones match what people type into spreadsheets.
var headerNames = map[string]column{
	"date":     colDate,
	"날짜":       colDate,
	"sign":     colSign,
	"구분":       colSign,
	"amount":   colAmount,
	"금액":       colAmount,
	"content":  colContent,
	"내용":       colContent,
	"payment":  colPayment,
	"결제수단":     colPayment,
	"category": colCategory,
	"분류":       colCategory,
	"카테고리":     colCategory,
}

// required columns; sign is optional and falls back to the amount's sign.
var required = []column{colDate, colAmount, colContent, colPayment, colCategory}

type colIndex map[column]int

// Parse reads a CSV file in any supported encoding and returns one Row per
// data line after the header.
func Parse(r io.Reader) ([]Row, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = detectComma(string(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		records [][]string
		lines   []int
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}

	cols, headerIdx, ok := detectHeader(records)
	if !ok {
		return nil, ErrNoHeader
	}

	rows := make([]Row, 0, len(records)-headerIdx-1)

	for i := headerIdx + 1; i < len(records); i++ {
		if blank(records[i]) {
			continue
		}

		d, err := parseRow(cols, records[i])
		rows = append(rows, Row{Line: lines[i], Draft: d, Err: err})
	}

	return rows, nil
}

// detectComma picks ';' when the first line has more semicolons than commas.
func detectComma(content string) rune {
	first, _, _ := strings.Cut(content, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}

	return ','
}

func detectHeader(records [][]string) (colIndex, int, bool) {
	for rowIdx, record := range records {
		cols := make(colIndex)

		for i, cell := range record {
			if c, ok := headerNames[strings.ToLower(strings.TrimSpace(cell))]; ok {
				cols[c] = i
			}
		}

		if hasRequired(cols) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func hasRequired(cols colIndex) bool {
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return false
		}
	}

	return true
}

func parseRow(cols colIndex, record []string) (entry.Draft, error) {
	date, err := parseDate(cell(record, cols, colDate))
	if err != nil {
		return entry.Draft{}, err
	}

	amount, negative, err := parseAmount(cell(record, cols, colAmount))
	if err != nil {
		return entry.Draft{}, err
	}

	sign := entry.SignIncome
	if negative {
		sign = entry.SignExpense
	}

	if _, ok := cols[colSign]; ok {
		if sign, err = parseSign(cell(record, cols, colSign)); err != nil {
			return entry.Draft{}, err
		}
	}

	return entry.Draft{
		Date:     date,
		Sign:     sign,
		Amount:   strconv.FormatInt(amount, 10),
		Content:  entry.FilterContent(cell(record, cols, colContent)),
		Payment:  entry.Payment(cell(record, cols, colPayment)),
		Category: entry.Category(cell(record, cols, colCategory)),
	}, nil
}

// parseDate accepts YYYY-MM-DD and the dotted or slashed forms spreadsheet
// exports use.
func parseDate(s string) (string, error) {
	s = strings.NewReplacer(".", "-", "/", "-").Replace(s)

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadDate, s)
	}

	return t.Format(time.DateOnly), nil
}

func parseSign(s string) (entry.Sign, error) {
	switch strings.ToLower(s) {
	case "-", "expense", "지출":
		return entry.SignExpense, nil
	case "+", "income", "수입":
		return entry.SignIncome, nil
	}

	return "", fmt.Errorf("%w: %q", ErrBadSign, s)
}

func cell(record []string, cols colIndex, c column) string {
	idx, ok := cols[c]
	if !ok || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
