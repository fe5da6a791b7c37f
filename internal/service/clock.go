package service

import (
	"time"

	"habitbot/internal/domain"
)

// clock resolves "today" in the configured timezone
type clock struct {
	location *time.Location
	now      func() time.Time
}

func newClock(location *time.Location) clock {
	if location == nil {
		location = time.UTC
	}
	return clock{location: location, now: time.Now}
}

func (c clock) today() domain.Day {
	return domain.DayOf(c.now().In(c.location))
}
