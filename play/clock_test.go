package play

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeTime is an injectable clock source for deterministic pacing tests.
type fakeTime struct {
	at time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{at: time.Unix(1000, 0)}
}

func (ft *fakeTime) now() time.Time {
	return ft.at
}

func (ft *fakeTime) advance(d time.Duration) {
	ft.at = ft.at.Add(d)
}

func newTestClock(fps float64, ft *fakeTime) *Clock {
	c := NewClock(fps)
	c.now = ft.now

	return c
}

func TestClock_Due(t *testing.T) {
	t.Parallel()

	c := NewClock(30)

	assert.Equal(t, time.Duration(0), c.Due(0))
	assert.Equal(t, time.Second, c.Due(30))
	assert.Equal(t, 2*time.Second, c.Due(60))
	assert.InDelta(t, float64(time.Second)/30, float64(c.Due(1)), 1)
}

func TestClock_Interval(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100*time.Millisecond, NewClock(10).Interval())
	assert.Equal(t, 40*time.Millisecond, NewClock(25).Interval())
}

func TestClock_Elapsed(t *testing.T) {
	t.Parallel()

	ft := newFakeTime()
	c := newTestClock(10, ft)

	assert.Zero(t, c.Elapsed(), "unstarted clock")

	c.Start()
	ft.advance(250 * time.Millisecond)

	assert.Equal(t, 250*time.Millisecond, c.Elapsed())

	// Start is idempotent: a second call keeps the original anchor.
	c.Start()
	assert.Equal(t, 250*time.Millisecond, c.Elapsed())
}

func TestClock_AudioAuthoritative(t *testing.T) {
	t.Parallel()

	ft := newFakeTime()
	c := newTestClock(10, ft)

	pos := 1500 * time.Millisecond
	c.SetAudio(func() time.Duration { return pos })

	c.Start()
	ft.advance(10 * time.Second)

	assert.Equal(t, pos, c.Elapsed(), "audio position wins over wall time")

	c.SetAudio(nil)
	assert.Equal(t, 10*time.Second, c.Elapsed(), "detaching falls back to wall time")
}

func TestClock_PauseResume(t *testing.T) {
	t.Parallel()

	ft := newFakeTime()
	c := newTestClock(10, ft)
	c.Start()

	ft.advance(300 * time.Millisecond)
	c.Pause()
	ft.advance(5 * time.Second)

	assert.Equal(t, 300*time.Millisecond, c.Elapsed(), "elapsed frozen while paused")

	c.Resume()
	assert.Equal(t, 300*time.Millisecond, c.Elapsed(), "resume preserves position")

	ft.advance(100 * time.Millisecond)
	assert.Equal(t, 400*time.Millisecond, c.Elapsed())
}

func TestClock_PauseBeforeStart(t *testing.T) {
	t.Parallel()

	ft := newFakeTime()
	c := newTestClock(10, ft)

	c.Pause()
	c.Resume()

	c.Start()
	ft.advance(time.Second)

	assert.Equal(t, time.Second, c.Elapsed())
}
