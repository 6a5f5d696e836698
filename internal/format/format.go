// Package format renders ledger values for display in a configured locale.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/bye2money/internal/aggregate"
	"github.com/MrJamesThe3rd/bye2money/internal/entry"
)

var (
	supported = []language.Tag{language.Korean, language.English}
	matcher   = language.NewMatcher(supported)
)

// Formatter formats numbers, dates and labels for one locale.
type Formatter struct {
	tag     language.Tag
	base    language.Base
	printer *message.Printer
}

// New returns a Formatter for the closest supported match of locale, e.g.
// "ko-KR" or "en-US". Unknown or empty tags fall back to Korean.
func New(locale string) *Formatter {
	tag := language.Korean

	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, _ := matcher.Match(parsed)
			tag = supported[idx]
		}
	}

	base, _ := tag.Base()

	return &Formatter{
		tag:     tag,
		base:    base,
		printer: message.NewPrinter(tag, message.Catalog(catalogue)),
	}
}

// FromAcceptLanguage picks a Formatter for an HTTP Accept-Language header,
// falling back to def when the header is empty or unparseable.
func FromAcceptLanguage(header string, def *Formatter) *Formatter {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return def
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return def
	}

	return New(supported[idx].String())
}

func (f *Formatter) Tag() language.Tag { return f.tag }

func (f *Formatter) korean() bool {
	ko, _ := language.Korean.Base()
	return f.base == ko
}

// Amount renders n with locale digit grouping, e.g. 1234567 -> "1,234,567".
func (f *Formatter) Amount(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// SignedAmount renders an entry amount prefixed with its sign.
func (f *Formatter) SignedAmount(e entry.Entry) string {
	return string(e.Sign) + f.Amount(e.Amount)
}

// Currency renders an amount with the won suffix or symbol.
func (f *Formatter) Currency(n int64) string {
	return f.printer.Sprintf(msgCurrency, f.Amount(n))
}

// DateLong renders a YYYY-MM-DD date as a long label including the day of
// the week: "11월 6일 목요일" or "November 6, Thursday". Input that is not
// a valid date is returned unchanged.
func (f *Formatter) DateLong(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}

	if f.korean() {
		return fmt.Sprintf("%d월 %d일 %s", int(t.Month()), t.Day(), koreanWeekdays[t.Weekday()])
	}

	return fmt.Sprintf("%s %d, %s", t.Month(), t.Day(), t.Weekday())
}

// MonthTitle is the heading of a month's log list.
func (f *Formatter) MonthTitle(m aggregate.Month) string {
	if f.korean() {
		return fmt.Sprintf("%d년 %02d월", m.Year, int(m.Month))
	}

	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// MonthName is the English month name the header shows under the number.
func MonthName(m aggregate.Month) string {
	return m.Month.String()
}

var koreanWeekdays = [...]string{
	time.Sunday:    "일요일",
	time.Monday:    "월요일",
	time.Tuesday:   "화요일",
	time.Wednesday: "수요일",
	time.Thursday:  "목요일",
	time.Friday:    "금요일",
	time.Saturday:  "토요일",
}
