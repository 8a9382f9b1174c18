package clock

import "time"

// Clock abstracts time.Now so chronology and expiry checks are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns a Clock backed by the wall clock. All times are UTC.
func System() Clock { return systemClock{} }
