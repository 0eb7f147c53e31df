package services

import "time"

// Clock supplies the current time. Services take a Clock instead of
// calling time.Now directly so scheduler sweeps and expiry checks can be
// tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock used in production.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }
