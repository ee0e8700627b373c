package timer

import "time"

// Clock abstracts the time source. The engine computes remaining time
// from clock samples rather than by decrementing a counter per tick, so
// injecting a fake clock makes the countdown fully deterministic in tests.
type Clock interface {
	Now() time.Time
}

// realClock reads the system clock.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
