package quiz

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_ExpiresOnce(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan struct{}, 4)

	c := StartClock(50*time.Millisecond, func() {
		calls.Add(1)
		fired <- struct{}{}
	}, WithResolution(10*time.Millisecond))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("clock did not expire")
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Zero(t, c.Remaining())
	assert.False(t, c.Stop(), "Stop after expiry must be a no-op")
}

func TestClock_StopPreventsExpiry(t *testing.T) {
	var calls atomic.Int32
	c := StartClock(40*time.Millisecond, func() { calls.Add(1) }, WithResolution(10*time.Millisecond))

	require.True(t, c.Stop())
	assert.False(t, c.Stop())

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestClock_Remaining(t *testing.T) {
	c := StartClock(time.Hour, nil)
	defer c.Stop()

	assert.Equal(t, time.Hour, c.Remaining())
}

func TestClock_ZeroLimitExpiresImmediately(t *testing.T) {
	fired := make(chan struct{})
	StartClock(0, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("zero-limit clock did not expire")
	}
}

func TestClock_StopRacingExpiry(t *testing.T) {
	for i := 0; i < 50; i++ {
		var calls atomic.Int32
		c := StartClock(time.Millisecond, func() { calls.Add(1) }, WithResolution(time.Millisecond))

		var wg sync.WaitGroup
		var stopped atomic.Int32
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if c.Stop() {
					stopped.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Eventually(t, func() bool { return calls.Load()+stopped.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(5 * time.Millisecond)
		assert.Equal(t, int32(1), calls.Load()+stopped.Load(), "exactly one of expiry or Stop must win")
	}
}
