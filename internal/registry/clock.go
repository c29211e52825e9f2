package registry

import "time"

// Clock supplies wall-clock timestamps for record creation and mutation.
// Injected so tests can pin time; the host guarantees monotonicity.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the real time.
var SystemClock Clock = systemClock{}
