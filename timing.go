package docproc

import "time"

// StageTiming records how long one pipeline stage took. Stages return
// timings as values; the orchestrator collects them into the Result.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// timed runs fn and returns its timing alongside the error.
func timed(stage string, clock func() time.Time, fn func() error) (StageTiming, error) {
	start := clock()
	err := fn()
	return StageTiming{Stage: stage, Duration: clock().Sub(start)}, err
}
