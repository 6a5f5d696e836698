package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The key doubles as the English text.
const (
	MsgMonthLogs    = "%s entries"
	MsgEmptyMonth   = "No entries this month."
	MsgTotalCount   = "All entries"
	MsgCount        = "%d items"
	MsgTotalIncome  = "Total income"
	MsgTotalExpense = "Total expense"
	MsgDailyIncome  = "Income %s"
	MsgDailyExpense = "Expense %s"
	MsgNotLoaded    = "Loading entries..."

	msgCurrency = "₩%s"
)

var catalogue = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	for key, ko := range map[string]string{
		MsgMonthLogs:    "%s 내역",
		MsgEmptyMonth:   "해당 월의 내역이 없습니다.",
		MsgTotalCount:   "전체 내역",
		MsgCount:        "%d건",
		MsgTotalIncome:  "총 수입",
		MsgTotalExpense: "총 지출",
		MsgDailyIncome:  "수입 %s",
		MsgDailyExpense: "지출 %s",
		MsgNotLoaded:    "내역을 불러오는 중...",
		msgCurrency:     "%s원",
	} {
		_ = b.SetString(language.Korean, key, ko)
		_ = b.SetString(language.English, key, key)
	}

	return b
}

// Text renders a catalogue message in the formatter's locale.
func (f *Formatter) Text(key message.Reference, args ...any) string {
	return f.printer.Sprintf(key, args...)
}
