package utils

import "time"

// DateLayout is the date format used in log lines and report headers.
const DateLayout = "2006-01-02"

// LookbackWindow returns [end-days, end]. Days below 1 are treated as 1.
func LookbackWindow(end time.Time, days int) (start, stop time.Time) {
	if days < 1 {
		days = 1
	}
	return end.AddDate(0, 0, -days), end
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
