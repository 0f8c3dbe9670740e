package calendar

import (
	"time"

	"runtracker/internal/domain"
)

// DateLayout is the ISO format used for dates in query parameters and links.
const DateLayout = "2006-01-02"

// MonthRef identifies a calendar month.
type MonthRef struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Today returns the current civil date.
func Today() time.Time {
	return domain.DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string. Absent or malformed input yields ok == false;
// the error is swallowed so navigation keeps working with garbage query parameters.
func ParseDate(text string) (date time.Time, ok bool) {
	if text == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(DateLayout, text)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// PreviousAndNextMonth returns the months around year/month. The previous month is one day
// before the 1st, the next month is 32 days after it, which always lands in the following month.
func PreviousAndNextMonth(year, month int) (prev, next MonthRef) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	before := first.AddDate(0, 0, -1)
	after := first.AddDate(0, 0, 32)
	prev = MonthRef{Month: int(before.Month()), Year: before.Year()}
	next = MonthRef{Month: int(after.Month()), Year: after.Year()}
	return prev, next
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
