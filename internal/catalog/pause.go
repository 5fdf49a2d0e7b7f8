package catalog

import (
	"context"
	"math/rand"
	"time"
)

// sleeper abstracts the post-fetch pause so tests can run without delays.
type sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// randomDelay returns a uniform duration in [min, max], used to bound the
// outbound request rate against the catalog server.
func randomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}
