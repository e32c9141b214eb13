package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	var got []string

	f.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	f.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	f.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })

	f.Advance(25 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, f.Pending())

	f.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, f.Pending())
}

func TestFakeStop(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	fired := false
	timer := f.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	f.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestFakeChainedCallbacks(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	var at []time.Duration
	start := f.Now()

	var tick func()
	tick = func() {
		at = append(at, f.Now().Sub(start))
		if len(at) < 3 {
			f.AfterFunc(100*time.Millisecond, tick)
		}
	}
	f.AfterFunc(100*time.Millisecond, tick)

	f.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}, at)
	assert.Equal(t, start.Add(time.Second), f.Now())
}
