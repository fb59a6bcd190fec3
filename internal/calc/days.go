package calc

import "time"

// DaysUntil returns the whole days from now until a YYYY-MM-DD target date,
// floored at 0 once the date has passed. A missing or unparsable date
// returns -1, distinguishing "no date" from "today".
func DaysUntil(dateStr string, now time.Time) int {
	target, err := time.ParseInLocation("2006-01-02", dateStr, now.Location())
	if err != nil {
		return -1
	}
	days := int(target.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DisplayDate reformats a YYYY-MM-DD date as "Jan 02, 2006" for rendering.
// Unparsable input is passed through unchanged.
func DisplayDate(dateStr string) string {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dateStr
	}
	return t.Format("Jan 02, 2006")
}
