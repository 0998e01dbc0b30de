package app

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// zonedClock reports the current time in a fixed location so that cron
// expressions and report days follow the configured timezone.
type zonedClock struct {
	clockwork.Clock
	loc *time.Location
}

func newZonedClock(loc *time.Location) *zonedClock {
	return &zonedClock{Clock: clockwork.NewRealClock(), loc: loc}
}

func (c *zonedClock) Now() time.Time {
	return c.Clock.Now().In(c.loc)
}
