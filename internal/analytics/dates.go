package analytics

import (
	"time"

	"github.com/DhananjayDev21/task-management-system/internal/models"
)

// ParseDate reads the calendar-date part of s as midnight in loc.
// Longer ISO strings ("2024-06-10T08:00:00Z") are cut to their date.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	d, err := time.ParseInLocation(models.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func addDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

var clockLayouts = []string{"15:04:05", "15:04"}

func parseClock(s string) (h, m, sec int, ok bool) {
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, s); err == nil {
			return c.Hour(), c.Minute(), c.Second(), true
		}
	}
	return 0, 0, 0, false
}
