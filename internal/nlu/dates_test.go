package nlu

import (
	"testing"
	"time"

	"github.com/Veraticus/penny/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 20, 15, 4, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseSubscriptionDate(t *testing.T) {
	tests := []struct {
		want  time.Time
		name  string
		in    string
		label string
	}{
		{name: "day word after amount", in: "Netflix 10000 вон 12 числа", want: day(2024, time.April, 12), label: "Каждый 12 числа"},
		{name: "today", in: "сегодня", want: day(2024, time.March, 20), label: "Каждый 20 числа"},
		{name: "tomorrow", in: "завтра", want: day(2024, time.March, 21), label: "Каждый 21 числа"},
		{name: "day after tomorrow", in: "послезавтра", want: day(2024, time.March, 22), label: "Каждый 22 числа"},
		{name: "day after tomorrow en", in: "day after tomorrow", want: day(2024, time.March, 22), label: "Каждый 22 числа"},
		{name: "in n days ru", in: "через 5 дней", want: day(2024, time.March, 25), label: "Каждый 25 числа"},
		{name: "in n days en", in: "in 3 days", want: day(2024, time.March, 23), label: "Каждый 23 числа"},
		{name: "in n days ko", in: "3일 후", want: day(2024, time.March, 23), label: "Каждый 23 числа"},
		{name: "numeric upcoming", in: "25.03", want: day(2024, time.March, 25), label: "Каждый 25 числа"},
		{name: "numeric passed rolls a year", in: "15.03", want: day(2025, time.March, 15), label: "Каждый 15 числа"},
		{name: "numeric with year", in: "01.05.2025", want: day(2025, time.May, 1), label: "Каждый 1 числа"},
		{name: "numeric short year slashes", in: "1/6/24", want: day(2024, time.June, 1), label: "Каждый 1 числа"},
		{name: "month name genitive", in: "25 марта", want: day(2024, time.March, 25), label: "Каждый 25 числа"},
		{name: "month name may", in: "5 мая", want: day(2024, time.May, 5), label: "Каждый 5 числа"},
		{name: "word starting like a month is not one", in: "маяк 5 числа", want: day(2024, time.April, 5), label: "Каждый 5 числа"},
		{name: "english month first", in: "march 25", want: day(2024, time.March, 25), label: "Каждый 25 числа"},
		{name: "korean month day", in: "4월 10일", want: day(2024, time.April, 10), label: "Каждый 10 числа"},
		{name: "bare day passed", in: "15", want: day(2024, time.April, 15), label: "Каждый 15 числа"},
		{name: "bare day upcoming", in: "25", want: day(2024, time.March, 25), label: "Каждый 25 числа"},
		{name: "price is not a date", in: "netflix 12.99 $ 5 числа", want: day(2024, time.April, 5), label: "Каждый 5 числа"},
		{name: "nothing parses", in: "netflix", want: day(2024, time.April, 1), label: "Каждый 1 числа"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSubscriptionDate(tt.in, model.BillingMonthly, LangRU, testNow)
			assert.Equal(t, tt.want, got.Date)
			assert.Equal(t, tt.label, got.Recurrence)
		})
	}
}

func TestParseSubscriptionDate_Yearly(t *testing.T) {
	got := ParseSubscriptionDate("25 марта", model.BillingYearly, LangRU, testNow)
	assert.Equal(t, day(2024, time.March, 25), got.Date)
	assert.Equal(t, "Каждый год 25 марта", got.Recurrence)
}

func TestDefaultSubscriptionDate(t *testing.T) {
	got := DefaultSubscriptionDate(model.BillingMonthly, LangRU, testNow)
	assert.Equal(t, day(2024, time.April, 1), got.Date)
	assert.Equal(t, "Каждый 1 числа", got.Recurrence)

	dec := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, day(2025, time.January, 1), DefaultPaymentDate(dec))
}

func TestParseTransactionDate(t *testing.T) {
	tests := []struct {
		want time.Time
		in   string
	}{
		{in: "Расход 12000 вон кафе сегодня", want: day(2024, time.March, 20)},
		{in: "вчера такси 5000", want: day(2024, time.March, 19)},
		{in: "позавчера", want: day(2024, time.March, 18)},
		{in: "yesterday lunch 15$", want: day(2024, time.March, 19)},
		{in: "day before yesterday", want: day(2024, time.March, 18)},
		{in: "어제 점심", want: day(2024, time.March, 19)},
		{in: "tomorrow", want: day(2024, time.March, 21)},
		{in: "послезавтра", want: day(2024, time.March, 22)},
		{in: "25.03 кафе", want: day(2024, time.March, 25)},
		{in: "кафе 25 марта", want: day(2024, time.March, 25)},
		{in: "кафе 25 число", want: day(2024, time.March, 25)},
		{in: "кафе 5 число", want: day(2024, time.April, 5)},
		{in: "кафе 3000", want: day(2024, time.March, 20)},
		{in: "", want: day(2024, time.March, 20)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTransactionDate(tt.in, testNow), "input %q", tt.in)
	}
}

func TestParseDayOfMonth(t *testing.T) {
	tests := []struct {
		now    time.Time
		want   time.Time
		in     string
		wantOK bool
	}{
		{in: "15", now: testNow, want: day(2024, time.April, 15), wantOK: true},
		{in: "20", now: testNow, want: day(2024, time.March, 20), wantOK: true},
		{in: "Netflix 10000 вон 12", now: testNow, want: day(2024, time.April, 12), wantOK: true},
		{in: "5 и 25", now: testNow, want: day(2024, time.March, 25), wantOK: true},
		{in: "12-го числа 25", now: testNow, want: day(2024, time.April, 12), wantOK: true},
		{in: "21st", now: testNow, want: day(2024, time.March, 21), wantOK: true},
		{in: "31", now: time.Date(2024, time.April, 20, 9, 0, 0, 0, time.UTC), want: day(2024, time.April, 30), wantOK: true},
		{in: "30", now: time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC), want: day(2024, time.February, 29), wantOK: true},
		{in: "15 $", now: testNow},
		{in: "netflix 10000", now: testNow},
		{in: "150", now: testNow},
		{in: "45", now: testNow},
		{in: "", now: testNow},
	}
	for _, tt := range tests {
		got, ok := ParseDayOfMonth(tt.in, tt.now)
		require.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestParseDayOfMonth_RollsToNextMonth(t *testing.T) {
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	got, ok := ParseDayOfMonth("15", now)
	require.True(t, ok)
	assert.Equal(t, "2024-04-15", got.Format("2006-01-02"))
}

func TestDetectBillingPeriod(t *testing.T) {
	assert.Equal(t, model.BillingYearly, DetectBillingPeriod("icloud 12000 вон в год"))
	assert.Equal(t, model.BillingYearly, DetectBillingPeriod("Annual plan 99$"))
	assert.Equal(t, model.BillingMonthly, DetectBillingPeriod("netflix 10000 вон"))
}

func TestRecurrenceLabel(t *testing.T) {
	d := day(2024, time.March, 12)
	assert.Equal(t, "Каждый 12 числа", RecurrenceLabel(d, model.BillingMonthly, LangRU))
	assert.Equal(t, "Every 12th of the month", RecurrenceLabel(d, model.BillingMonthly, LangEN))
	assert.Equal(t, "매월 12일", RecurrenceLabel(d, model.BillingMonthly, LangKO))
	assert.Equal(t, "Every year on March 12", RecurrenceLabel(d, model.BillingYearly, LangEN))
	assert.Equal(t, "매년 3월 12일", RecurrenceLabel(d, model.BillingYearly, LangKO))

	for dayNum, suffix := range map[int]string{1: "st", 2: "nd", 3: "rd", 4: "th", 11: "th", 12: "th", 13: "th", 21: "st", 22: "nd", 31: "st"} {
		assert.Equal(t, suffix, ordinalSuffix(dayNum), "day %d", dayNum)
	}
}

func TestMonthByName(t *testing.T) {
	for word, want := range map[string]time.Month{
		"марта": time.March, "мая": time.May, "янв": time.January, "декабря": time.December,
		"march": time.March, "sept": time.September, "dec.": time.December,
		"январь": time.January, "сентябре": time.September, "сент": time.September, "август": time.August,
	} {
		got, ok := monthByName(word)
		require.True(t, ok, word)
		assert.Equal(t, want, got, word)
	}
	for _, word := range []string{"маркет", "числа", "market", "mayor", "де", "мартини", "маяк", "майонез", "августина", "junebug"} {
		_, ok := monthByName(word)
		assert.False(t, ok, word)
	}
}
