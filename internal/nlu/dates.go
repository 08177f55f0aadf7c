package nlu

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/penny/internal/model"
)

// SubscriptionDate is a resolved next payment date and its human-readable
// recurrence label.
type SubscriptionDate struct {
	Date       time.Time `json:"date"`
	Recurrence string    `json:"recurrence"`
}

// dateResolver tries one way of reading a date from lowercased text.
type dateResolver func(text string, now time.Time) (time.Time, bool)

// firstResolved returns the result of the first resolver that succeeds.
func firstResolved(text string, now time.Time, resolvers []dateResolver) (time.Time, bool) {
	for _, resolve := range resolvers {
		if t, ok := resolve(text, now); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// relativeDay is a word for a day relative to today. Longer phrases come
// first so "day after tomorrow" is not read as "tomorrow".
type relativeDay struct {
	word   string
	offset int
}

var forwardDays = []relativeDay{
	{"day after tomorrow", 2}, {"послезавтра", 2}, {"모레", 2},
	{"tomorrow", 1}, {"завтра", 1}, {"내일", 1},
	{"today", 0}, {"сегодня", 0}, {"오늘", 0},
}

var anyDays = []relativeDay{
	{"day after tomorrow", 2}, {"day before yesterday", -2},
	{"послезавтра", 2}, {"позавчера", -2},
	{"모레", 2}, {"그저께", -2}, {"그제", -2},
	{"tomorrow", 1}, {"yesterday", -1},
	{"завтра", 1}, {"вчера", -1},
	{"내일", 1}, {"어제", -1},
	{"today", 0}, {"сегодня", 0}, {"오늘", 0},
}

// subscriptionResolvers is the order in which a next payment date is read.
var subscriptionResolvers = []dateResolver{
	relativeResolver(forwardDays),
	resolveInDays,
	resolveNumericDate,
	resolveDayMonthName,
	resolveKoreanMonthDay,
	ParseDayOfMonth,
}

// transactionResolvers is the order in which an expense or income date is read.
var transactionResolvers = []dateResolver{
	relativeResolver(anyDays),
	resolveNumericDate,
	resolveDayMonthName,
	resolveKoreanMonthDay,
	resolveExplicitDay,
}

// ParseSubscriptionDate resolves the next payment date of a subscription and
// derives its recurrence label. When nothing in text reads as a date the
// payment falls on the 1st of next month.
func ParseSubscriptionDate(text string, period model.BillingPeriod, lang Lang, now time.Time) SubscriptionDate {
	date, ok := firstResolved(strings.ToLower(text), now, subscriptionResolvers)
	if !ok {
		date = DefaultPaymentDate(now)
	}
	return SubscriptionDate{Date: date, Recurrence: RecurrenceLabel(date, period, lang)}
}

// DefaultSubscriptionDate is the date applied when the user skips the date step.
func DefaultSubscriptionDate(period model.BillingPeriod, lang Lang, now time.Time) SubscriptionDate {
	date := DefaultPaymentDate(now)
	return SubscriptionDate{Date: date, Recurrence: RecurrenceLabel(date, period, lang)}
}

// ParseTransactionDate resolves when an expense or income happened. It
// defaults to today at midnight.
func ParseTransactionDate(text string, now time.Time) time.Time {
	if date, ok := firstResolved(strings.ToLower(text), now, transactionResolvers); ok {
		return date
	}
	return midnight(now)
}

// DefaultPaymentDate is midnight on the 1st of the month after now.
func DefaultPaymentDate(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
}

// DetectBillingPeriod reports yearly when text carries a yearly marker.
func DetectBillingPeriod(text string) model.BillingPeriod {
	if DefaultLexicon.Has(strings.ToLower(text), ConceptYearly) {
		return model.BillingYearly
	}
	return model.BillingMonthly
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func relativeResolver(days []relativeDay) dateResolver {
	return func(text string, now time.Time) (time.Time, bool) {
		for _, d := range days {
			if containsToken(text, d.word) {
				return midnight(now).AddDate(0, 0, d.offset), true
			}
		}
		return time.Time{}, false
	}
}

var inDaysPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|[^\p{L}\d])через\s+(\d{1,3})\s+(?:день|дня|дней)(?:[^\p{L}]|$)`),
	regexp.MustCompile(`(?:^|[^\p{L}\d])in\s+(\d{1,3})\s+days?(?:[^\p{L}]|$)`),
	regexp.MustCompile(`(?:^|[^\d])(\d{1,3})\s*일\s*(?:후|뒤)`),
}

func resolveInDays(text string, now time.Time) (time.Time, bool) {
	for _, re := range inDaysPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return midnight(now).AddDate(0, 0, n), true
		}
	}
	return time.Time{}, false
}

var numericDatePattern = regexp.MustCompile(`(?:^|[^\d.,/])(\d{1,2})[./](\d{1,2})(?:[./](\d{2,4}))?`)

// resolveNumericDate reads dd.mm, dd.mm.yy and dd.mm.yyyy (dots or slashes).
// A match followed by a currency marker is a price such as "12.99 $".
func resolveNumericDate(text string, now time.Time) (time.Time, bool) {
	for _, idx := range numericDatePattern.FindAllStringSubmatchIndex(text, -1) {
		rest := text[idx[1]:]
		if rest != "" && (isASCIIDigit(rune(rest[0])) || (len(rest) > 1 && strings.ContainsRune("./,", rune(rest[0])) && isASCIIDigit(rune(rest[1])))) {
			continue
		}
		if startsWithCurrency(rest) {
			continue
		}
		day, _ := strconv.Atoi(text[idx[2]:idx[3]])
		month, _ := strconv.Atoi(text[idx[4]:idx[5]])
		year := 0
		if idx[6] >= 0 {
			yearText := text[idx[6]:idx[7]]
			year, _ = strconv.Atoi(yearText)
			switch len(yearText) {
			case 2:
				year += 2000
			case 3:
				continue
			}
		}
		if t, ok := calendarDate(day, month, year, now); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// monthPrefixes maps the first three letters of a month name to its number.
var monthPrefixes = map[string]time.Month{
	"янв": time.January, "фев": time.February, "мар": time.March, "апр": time.April,
	"май": time.May, "мая": time.May, "мае": time.May, "июн": time.June, "июл": time.July,
	"авг": time.August, "сен": time.September, "окт": time.October, "ноя": time.November,
	"дек": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// monthStems are the spellings a longer month word must start with, so that
// "марта" is March but "маркет" is not.
var monthStems = map[time.Month][]string{
	time.January:   {"январ", "january"},
	time.February:  {"феврал", "february"},
	time.March:     {"март", "march"},
	time.April:     {"апрел", "april"},
	time.May:       {"май", "мая", "мае"},
	time.June:      {"июн", "june"},
	time.July:      {"июл", "july"},
	time.August:    {"август", "august"},
	time.September: {"сентябр", "september", "sept"},
	time.October:   {"октябр", "october"},
	time.November:  {"ноябр", "november"},
	time.December:  {"декабр", "december"},
}

// monthEndings are the case endings a Russian month stem may carry
// ("январь", "января", "январе", "марта").
var monthEndings = []string{"", "ь", "я", "е", "а", "ю"}

// monthByName accepts a three-letter abbreviation, a truncation of a month
// stem ("сент", "sept") or a stem followed by a case ending. Longer words that
// merely start with a stem ("мартини", "маяк") are not months.
func monthByName(word string) (time.Month, bool) {
	word = strings.TrimSuffix(word, ".")
	runes := []rune(word)
	if len(runes) < 3 {
		return 0, false
	}
	m, ok := monthPrefixes[string(runes[:3])]
	if !ok {
		return 0, false
	}
	if len(runes) == 3 {
		return m, true
	}
	for _, stem := range monthStems[m] {
		if strings.HasPrefix(stem, word) {
			return m, true
		}
		if rest, ok := strings.CutPrefix(word, stem); ok && slices.Contains(monthEndings, rest) {
			return m, true
		}
	}
	return 0, false
}

var (
	dayMonthPattern = regexp.MustCompile(`(?:^|[^\d.,])(\d{1,2})(?:-?(?:го|ое|е)|st|nd|rd|th)?\s+(?:of\s+)?(\p{L}+)(?:\s+(\d{4}))?`)
	monthDayPattern = regexp.MustCompile(`(?:^|[^\p{L}])([a-z]{3,9})\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?(?:[^\d]|$)`)
)

// resolveDayMonthName reads "12 марта", "12-го мая 2025", "12 march" and
// "march 12".
func resolveDayMonthName(text string, now time.Time) (time.Time, bool) {
	for _, m := range dayMonthPattern.FindAllStringSubmatch(text, -1) {
		month, ok := monthByName(m[2])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if t, ok := calendarDate(day, int(month), year, now); ok {
			return t, true
		}
	}
	for _, m := range monthDayPattern.FindAllStringSubmatch(text, -1) {
		month, ok := monthByName(m[1])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := calendarDate(day, int(month), year, now); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

var koreanMonthDayPattern = regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일`)

func resolveKoreanMonthDay(text string, now time.Time) (time.Time, bool) {
	m := koreanMonthDayPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return calendarDate(day, month, 0, now)
}

// calendarDate builds a date at midnight. Without a year the date is placed
// in the current year, or the next one if it has already passed.
func calendarDate(day, month, year int, now time.Time) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	y := year
	if y == 0 {
		y = now.Year()
	}
	t := time.Date(y, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if t.Day() != day {
		return time.Time{}, false
	}
	if year == 0 && t.Before(midnight(now)) {
		t = time.Date(y+1, time.Month(month), day, 0, 0, 0, 0, now.Location())
		if t.Day() != day {
			return time.Time{}, false
		}
	}
	return t, true
}

var explicitDayPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|[^\d.,])(\d{1,2})\s*(?:-?(?:го|ого|ое|е|й))?\s*(?:числа|число|чис)(?:[^\p{L}]|$)`),
	regexp.MustCompile(`(?:^|[^\d.,])(\d{1,2})(?:st|nd|rd|th)(?:[^\p{L}]|$)`),
	regexp.MustCompile(`(?:^|[^\d.,])(\d{1,2})\s*일(?:[^\p{L}]|$)`),
}

// resolveExplicitDay reads a day of month carrying a day word or suffix
// ("12 числа", "12-го числа", "12th", "12일") and projects it forward.
func resolveExplicitDay(text string, now time.Time) (time.Time, bool) {
	day, ok := explicitDay(text)
	if !ok {
		return time.Time{}, false
	}
	return projectDay(day, now), true
}

func explicitDay(text string) (int, bool) {
	for _, re := range explicitDayPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if day, err := strconv.Atoi(m[1]); err == nil && day >= 1 && day <= 31 {
				return day, true
			}
		}
	}
	return 0, false
}

// ParseDayOfMonth reads a bare day-of-month number and projects it onto the
// current month, or the next month if that day has passed. A number with a
// day suffix wins; otherwise the last standalone one- or two-digit number is
// the day, since amounts usually come first ("Netflix 10000 вон 12").
// Numbers bound to a currency are amounts, not days.
func ParseDayOfMonth(text string, now time.Time) (time.Time, bool) {
	text = strings.ToLower(text)
	if day, ok := explicitDay(text); ok {
		return projectDay(day, now), true
	}

	day := 0
	for _, n := range scanNumbers(text) {
		if n.grouped || len(n.raw) > 2 || currencyBound(text, n) {
			continue
		}
		v := int(n.value.IntPart())
		if v >= 1 && v <= 31 {
			day = v
		}
	}
	if day == 0 {
		return time.Time{}, false
	}
	return projectDay(day, now), true
}

// projectDay places day in the current month, rolling to the next month when
// it is already behind now. Days past the end of a short month clamp to its
// last day.
func projectDay(day int, now time.Time) time.Time {
	y, m := now.Year(), now.Month()
	if day < now.Day() {
		m++
	}
	first := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, now.Location())
}

var ruMonthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// RecurrenceLabel describes how often a subscription charges, e.g.
// "Каждый 12 числа" or "Every 12th of the month".
func RecurrenceLabel(date time.Time, period model.BillingPeriod, lang Lang) string {
	day := date.Day()
	yearly := period == model.BillingYearly
	switch lang {
	case LangEN:
		if yearly {
			return fmt.Sprintf("Every year on %s %d", date.Month(), day)
		}
		return fmt.Sprintf("Every %d%s of the month", day, ordinalSuffix(day))
	case LangKO:
		if yearly {
			return fmt.Sprintf("매년 %d월 %d일", int(date.Month()), day)
		}
		return fmt.Sprintf("매월 %d일", day)
	default:
		if yearly {
			return fmt.Sprintf("Каждый год %d %s", day, ruMonthsGenitive[date.Month()-1])
		}
		return fmt.Sprintf("Каждый %d числа", day)
	}
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
