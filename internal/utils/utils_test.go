package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// manualClock collects scheduled callbacks so tests can fire them explicitly.
type manualClock struct {
	pending []*manualTimer
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (c *manualClock) after(d time.Duration, fn func()) func() bool {
	t := &manualTimer{fn: fn}
	c.pending = append(c.pending, t)
	return func() bool {
		was := !t.stopped
		t.stopped = true
		return was
	}
}

func (c *manualClock) fireAll() {
	timers := c.pending
	c.pending = nil
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func TestDebouncerKeepsOnlyLatest(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(clock.after)

	var got []int
	d.Debounce(time.Second, func() { got = append(got, 1) })
	d.Debounce(time.Second, func() { got = append(got, 2) })
	assert.True(t, d.Pending())

	clock.fireAll()
	assert.Equal(t, []int{2}, got)
	assert.False(t, d.Pending())
}

func TestDebouncerCancel(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(clock.after)

	called := false
	d.Debounce(time.Second, func() { called = true })
	assert.True(t, d.Cancel())
	clock.fireAll()
	assert.False(t, called)
	assert.False(t, d.Cancel())
}

func TestDebouncerSynchronousScheduler(t *testing.T) {
	d := NewDebouncer(func(_ time.Duration, fn func()) func() bool {
		fn()
		return func() bool { return false }
	})

	n := 0
	d.Debounce(0, func() { n++ })
	assert.Equal(t, 1, n)
	assert.False(t, d.Pending())
}

func TestDebouncerRealTimer(t *testing.T) {
	d := NewDebouncer(nil)
	done := make(chan struct{})
	d.Debounce(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never fired")
	}
}

func TestDebouncerImmediate(t *testing.T) {
	d := NewDebouncer(ImmediateAfterFunc)
	calls := 0
	d.Debounce(time.Hour, func() { calls++ })
	assert.Equal(t, 1, calls)
	assert.False(t, d.Pending())
	assert.False(t, d.Cancel())
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, Wrap("hello world", 7))
	assert.Equal(t, []string{"a b c"}, Wrap("a b c", 10))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, Wrap("abcdefghij", 4))
	assert.Equal(t, []string{"one", "", "two"}, Wrap("one\n\ntwo", 10))
	assert.Nil(t, Wrap("x", 0))
}

func TestWidthAndTruncate(t *testing.T) {
	assert.Equal(t, 4, Width("日本"))
	assert.Equal(t, "日", Truncate("日本", 3))
	assert.Equal(t, 5, MaxWidth([]string{"ab", "abcde", ""}))
}
