package rotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerStrategyIgnoresPlaybackEnd(t *testing.T) {
	clock := NewManualClock()
	s := New(clock, Config{Kind: KindVideo, Loop: true, FirstURL: "v0", FirstDurationSeconds: 5, Items: twoItems()})
	s.Start()

	assert.Equal(t, TriggerTimer, s.Snapshot().Trigger)
	assert.False(t, s.PlaybackEnded("v0"), "looping video only advances on the timer")
	assert.Equal(t, PhaseFirst, s.State().Phase)

	clock.Advance(5 * time.Second)
	assert.Equal(t, "a", s.State().URL)
}

func TestPlaybackEndStrategy(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	s := New(clock, Config{Kind: KindVideo, FirstURL: "v0", FirstDurationSeconds: 5, Items: twoItems(), OnPhaseChange: rec.record})
	s.Start()

	assert.Equal(t, TriggerPlaybackEnd, s.Snapshot().Trigger)
	assert.Equal(t, 0, clock.Pending(), "no wall-clock timer for non-looping video")
	clock.Advance(time.Hour)
	assert.Equal(t, PhaseFirst, s.State().Phase)

	assert.True(t, s.PlaybackEnded("v0"))
	assert.Equal(t, "a", s.State().URL)

	assert.False(t, s.PlaybackEnded("v0"), "stale event from the previous asset")
	assert.Equal(t, "a", s.State().URL)

	assert.True(t, s.PlaybackEnded(""))
	assert.Equal(t, "b", s.State().URL)
	assert.True(t, s.PlaybackEnded("b"))
	assert.Equal(t, "a", s.State().URL)

	assert.Equal(t, []phaseCall{
		{PhaseRotation, 0},
		{PhaseRotation, 1},
		{PhaseRotation, 0},
	}, rec.calls)
}

func TestPlaybackEndPlayOnce(t *testing.T) {
	s := New(NewManualClock(), Config{Kind: KindVideo, FirstURL: "v0", Items: twoItems(), PlayOnce: true})
	s.Start()

	assert.True(t, s.PlaybackEnded("v0"))
	assert.True(t, s.PlaybackEnded("a"))
	assert.True(t, s.PlaybackEnded("b"))
	st := s.State()
	assert.True(t, st.Stopped)
	assert.Equal(t, "b", st.URL)
	assert.False(t, s.PlaybackEnded("b"))
}

func TestPlaybackEndWithoutItems(t *testing.T) {
	s := New(NewManualClock(), Config{Kind: KindVideo, FirstURL: "v0"})
	s.Start()
	assert.False(t, s.PlaybackEnded("v0"))
	assert.Equal(t, "v0", s.State().URL)
}

func TestManualClockOrdering(t *testing.T) {
	clock := NewManualClock()
	var order []int
	clock.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	clock.AfterFunc(time.Second, func() {
		order = append(order, 1)
		clock.AfterFunc(500*time.Millisecond, func() { order = append(order, 15) })
	})
	stop := clock.AfterFunc(1500*time.Millisecond, func() { order = append(order, 99) })
	assert.True(t, stop.Stop())
	assert.False(t, stop.Stop())

	clock.Advance(3 * time.Second)
	assert.Equal(t, []int{1, 15, 2}, order, "timers armed mid-advance fire in due order")
	assert.Equal(t, 3*time.Second, clock.Now())
}
