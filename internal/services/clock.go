package services

import "time"

// Clock returns the current time. Services store UTC.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
