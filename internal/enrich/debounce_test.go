package enrich

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestDebouncerFires(t *testing.T) {
	d := NewDebouncer()
	fired := make(chan struct{})

	d.Start("a", 10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	assert.False(t, d.Pending("a"))
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer()
	var fired atomic.Bool

	d.Start("a", 20*time.Millisecond, func() { fired.Store(true) })
	assert.True(t, d.Pending("a"))
	assert.True(t, d.Cancel("a"))

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.False(t, d.Cancel("a"))
}

func TestDebouncerRestartReplacesTimer(t *testing.T) {
	d := NewDebouncer()
	var count atomic.Int32

	d.Start("a", 20*time.Millisecond, func() { count.Add(1) })
	d.Start("a", 20*time.Millisecond, func() { count.Add(1) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

func TestDebouncerZeroDelayRunsInline(t *testing.T) {
	d := NewDebouncer()
	var fired bool
	d.Start("a", 0, func() { fired = true })
	assert.True(t, fired)
}

func TestDebouncerCancelAll(t *testing.T) {
	d := NewDebouncer()
	var fired atomic.Bool

	d.Start("a", 20*time.Millisecond, func() { fired.Store(true) })
	d.Start("b", 20*time.Millisecond, func() { fired.Store(true) })
	d.CancelAll()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}
