package usecase

import (
	"time"

	"govtjobs/internal/domain/job"
)

// Clock pins "today" to the portal's timezone.
type Clock struct {
	Loc *time.Location
	Now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Loc: loc, Now: time.Now}
}

func (c Clock) now() time.Time {
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	if c.Now == nil {
		return time.Now().In(loc)
	}
	return c.Now().In(loc)
}

func (c Clock) today() time.Time {
	return job.StartOfDay(c.now())
}
