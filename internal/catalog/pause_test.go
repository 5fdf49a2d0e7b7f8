package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRandomDelayStaysWithinBounds(t *testing.T) {
	t.Parallel()

	min := 1 * time.Second
	max := 2 * time.Second
	for range 100 {
		d := randomDelay(min, max)
		require.GreaterOrEqual(t, d, min)
		require.LessOrEqual(t, d, max)
	}
}

func TestRandomDelayDegenerateBounds(t *testing.T) {
	t.Parallel()

	require.Equal(t, time.Second, randomDelay(time.Second, time.Second))
	require.Equal(t, time.Second, randomDelay(time.Second, 0))
	require.Equal(t, time.Duration(0), randomDelay(0, 0))
}

func TestTimerSleeperHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	timerSleeper{}.Sleep(ctx, 5*time.Second)
	require.Less(t, time.Since(start), time.Second, "sleep should exit immediately when context is done")
}

func TestTimerSleeperZeroDelay(t *testing.T) {
	t.Parallel()

	start := time.Now()
	timerSleeper{}.Sleep(context.Background(), 0)
	require.Less(t, time.Since(start), 100*time.Millisecond)
}
