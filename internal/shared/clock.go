package shared

import "time"

// Clock supplies the current business date. Period boundaries follow the
// shop's local calendar, so all date arithmetic runs in a fixed time zone
// rather than UTC.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

type locClock struct {
	loc *time.Location
}

// NewClock builds a Clock pinned to the given location.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &locClock{loc: loc}
}

func (c *locClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *locClock) Today() time.Time {
	return Midnight(c.Now())
}

// Midnight truncates t to its calendar date, keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
