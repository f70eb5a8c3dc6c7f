package periods

import "time"

// Status enumerates valid period states.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// Length is the fixed number of calendar days in a period.
const Length = 15

// Period is one 15-day accounting cycle for one owner. StartDate and EndDate
// are both inclusive, so EndDate = StartDate + 14 days.
type Period struct {
	ID               int64
	OwnerID          string
	StartDate        time.Time
	EndDate          time.Time
	OpeningStockCost int64
	ClosingStockCost *int64
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Closed reports whether the period has been closed.
func (p Period) Closed() bool {
	return p.Status == StatusClosed
}

// EndedBy reports whether the period has run its course by the given date.
// Calendar dates are compared, not instants: the database hands dates back as
// UTC midnights while callers pass today in the business time zone.
func (p Period) EndedBy(today time.Time) bool {
	ty, tm, td := today.Date()
	ey, em, ed := p.EndDate.Date()
	if ty != ey {
		return ty > ey
	}
	if tm != em {
		return tm > em
	}
	return td >= ed
}

// NextStart is the first day of the follow-up period.
func (p Period) NextStart() time.Time {
	return p.EndDate.AddDate(0, 0, 1)
}

// EndFor computes the inclusive end date for a period starting at start.
func EndFor(start time.Time) time.Time {
	return start.AddDate(0, 0, Length-1)
}
