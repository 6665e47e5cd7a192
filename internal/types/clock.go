package types

import "time"

// Clock abstracts the "now" provider so schedule computations stay
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// RealClock returns a Clock backed by the system time.
func RealClock() Clock {
	return realClock{}
}
