package debounce

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 40 * time.Millisecond

func newCounter() (*atomic.Int32, func() error) {
	var n atomic.Int32
	return &n, func() error {
		n.Add(1)
		return nil
	}
}

func TestTrigger_CoalescesBurst(t *testing.T) {
	n, fn := newCounter()
	d := New(testDelay, fn)

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(testDelay / 8)
	}

	require.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(2 * testDelay)
	assert.Equal(t, int32(1), n.Load())
	assert.False(t, d.Pending())
}

func TestTrigger_TrailingEdge(t *testing.T) {
	n, fn := newCounter()
	d := New(testDelay, fn)

	d.Trigger()
	assert.True(t, d.Pending())
	assert.Equal(t, int32(0), n.Load(), "must not fire on the leading edge")

	require.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestTrigger_SeparateBurstsFireSeparately(t *testing.T) {
	n, fn := newCounter()
	d := New(testDelay, fn)

	d.Trigger()
	require.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)

	d.Trigger()
	require.Eventually(t, func() bool { return n.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestFlush_RunsPendingSynchronously(t *testing.T) {
	n, fn := newCounter()
	d := New(time.Hour, fn)

	d.Trigger()
	ran, err := d.Flush()
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, int32(1), n.Load())
	assert.False(t, d.Pending())

	// Nothing pending any more.
	ran, _ = d.Flush()
	assert.False(t, ran)
	assert.Equal(t, int32(1), n.Load())
}

func TestFlush_ReturnsError(t *testing.T) {
	boom := errors.New("disk full")
	d := New(time.Hour, func() error { return boom })

	d.Trigger()
	ran, err := d.Flush()
	assert.True(t, ran)
	assert.ErrorIs(t, err, boom)
}

func TestFlush_PreventsLaterTimerRun(t *testing.T) {
	n, fn := newCounter()
	d := New(testDelay, fn)

	d.Trigger()
	d.Flush()
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(1), n.Load())
}

func TestCancel(t *testing.T) {
	n, fn := newCounter()
	d := New(testDelay, fn)

	assert.False(t, d.Cancel())

	d.Trigger()
	assert.True(t, d.Cancel())
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(0), n.Load())
}

func TestStop_IgnoresLaterTriggers(t *testing.T) {
	n, fn := newCounter()
	d := New(testDelay, fn)

	d.Trigger()
	d.Stop()
	d.Trigger()
	assert.False(t, d.Pending())

	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(0), n.Load())
}

func TestStop_WaitsForRunningFn(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	d := New(time.Millisecond, func() error {
		close(started)
		<-release
		finished.Store(true)
		return nil
	})

	d.Trigger()
	<-started
	assert.False(t, d.Pending(), "a running fn is no longer pending")

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while fn was still running")
	case <-time.After(3 * testDelay):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after fn finished")
	}
	assert.True(t, finished.Load())
}
