package domain

import "time"

// Day is a calendar day in the bot's timezone
type Day struct {
	Date time.Time
}

// DayOf truncates t to midnight in t's location
func DayOf(t time.Time) Day {
	return Day{Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

// AddDays returns the day n days later (earlier for negative n)
func (d Day) AddDays(n int) Day {
	return Day{Date: d.Date.AddDate(0, 0, n)}
}

// DateString returns date in YYYY-MM-DD format
func (d Day) DateString() string {
	return d.Date.Format("2006-01-02")
}
