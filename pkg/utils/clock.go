package utils

import "time"

// Clock supplies the current time. Injected wherever temporal decisions are
// made (OTP expiry, reminder window) so tests can pin the clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewClock() Clock { return realClock{} }
