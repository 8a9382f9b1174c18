package clockmock

import (
	"time"

	"scrapgate/pkg/clock"
)

var _ clock.Clock = (*Clock)(nil)

// Clock returns a fixed instant; Advance moves it forward.
type Clock struct{ T time.Time }

func At(t time.Time) *Clock { return &Clock{T: t.UTC()} }

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }
