package leitner

import (
	"fmt"
	"time"

	"github.com/vytor/wordbox/internal/calendar"
)

var boxSymbols = [MaxBox + 1]string{
	"☆☆☆☆☆",
	"★☆☆☆☆",
	"★★☆☆☆",
	"★★★☆☆",
	"★★★★☆",
	"★★★★★",
}

// BoxSymbol renders a box as a five-star progress glyph. Unknown boxes
// render empty.
func BoxSymbol(box int) string {
	if !ValidBox(box) {
		return boxSymbols[0]
	}
	return boxSymbols[box]
}

// RelativeDate renders a review date relative to today. Past dates and
// dates more than ten days out render blank.
func RelativeDate(date, today time.Time) string {
	date, today = calendar.Date(date), calendar.Date(today)
	days := calendar.DaysBetween(today, date)

	switch {
	case days < 0:
		return ""
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case calendar.SameISOWeek(date, today):
		return date.Weekday().String()[:3]
	case days <= 7:
		return "Next week"
	case days <= 10:
		return fmt.Sprintf("In %d days", days)
	default:
		return ""
	}
}
