package rotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/marquee/internal/transition"
)

type phaseCall struct {
	Phase Phase
	Index int
}

type recorder struct {
	calls []phaseCall
}

func (r *recorder) record(p Phase, i int) {
	r.calls = append(r.calls, phaseCall{p, i})
}

func twoItems() []Item {
	return []Item{
		{URL: "a", DurationSeconds: 3},
		{URL: "b", DurationSeconds: 2},
	}
}

func TestNoRotationItemsStaysOnFirst(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	s := New(clock, Config{Kind: KindImage, FirstURL: "first", FirstDurationSeconds: 5, OnPhaseChange: rec.record})
	s.Start()

	assert.Equal(t, 0, clock.Pending(), "no timer may be armed without rotation items")
	clock.Advance(24 * time.Hour)

	st := s.State()
	assert.Equal(t, PhaseFirst, st.Phase)
	assert.Equal(t, "first", st.URL)
	assert.Empty(t, rec.calls)
}

func TestRotationTrace(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	s := New(clock, Config{
		Kind:                 KindImage,
		FirstURL:             "first",
		FirstDurationSeconds: 5,
		Items:                twoItems(),
		OnPhaseChange:        rec.record,
	})
	s.Start()

	st := s.State()
	assert.Equal(t, PhaseFirst, st.Phase)
	assert.Equal(t, "first", st.URL)

	clock.Advance(5 * time.Second)
	st = s.State()
	assert.Equal(t, PhaseRotation, st.Phase)
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, "a", st.URL)

	clock.Advance(3 * time.Second)
	st = s.State()
	assert.Equal(t, 1, st.Index)
	assert.Equal(t, "b", st.URL)

	clock.Advance(2 * time.Second)
	st = s.State()
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, "a", st.URL)

	assert.Equal(t, []phaseCall{
		{PhaseRotation, 0},
		{PhaseRotation, 1},
		{PhaseRotation, 0},
	}, rec.calls)
	assert.Equal(t, 1, clock.Pending())
}

func TestPlayOnceFreezesOnLastItem(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	s := New(clock, Config{
		Kind:                 KindImage,
		FirstURL:             "first",
		FirstDurationSeconds: 5,
		Items:                twoItems(),
		PlayOnce:             true,
		OnPhaseChange:        rec.record,
	})
	s.Start()

	clock.Advance(10 * time.Second)
	st := s.State()
	assert.True(t, st.Stopped)
	assert.Equal(t, "b", st.URL)
	assert.Equal(t, 1, st.Index)
	assert.Len(t, rec.calls, 2)

	clock.Advance(time.Hour)
	assert.Len(t, rec.calls, 2)
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, st, s.State())
}

func TestDurationsAreClamped(t *testing.T) {
	clock := NewManualClock()
	s := New(clock, Config{
		FirstURL:             "first",
		FirstDurationSeconds: 1,
		Items: []Item{
			{URL: "tiny", DurationSeconds: 0},
			{URL: "huge", DurationSeconds: 9999},
		},
	})
	s.Start()

	clock.Advance(time.Second)
	assert.Equal(t, "tiny", s.State().URL)

	clock.Advance(time.Second)
	assert.Equal(t, "huge", s.State().URL, "zero duration is raised to one second")

	clock.Advance(119 * time.Second)
	assert.Equal(t, "huge", s.State().URL)
	clock.Advance(time.Second)
	assert.Equal(t, "tiny", s.State().URL, "long duration is capped at two minutes")
}

func TestZeroFirstDurationNeverRotates(t *testing.T) {
	clock := NewManualClock()
	s := New(clock, Config{FirstURL: "first", Items: twoItems()})
	s.Start()
	clock.Advance(time.Hour)
	assert.Equal(t, PhaseFirst, s.State().Phase)
}

func TestStopCancelsTimers(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	s := New(clock, Config{FirstURL: "first", FirstDurationSeconds: 5, Items: twoItems(), OnPhaseChange: rec.record})
	s.Start()
	require.Equal(t, 1, clock.Pending())

	s.Stop()
	assert.Equal(t, 0, clock.Pending())
	clock.Advance(time.Minute)
	assert.Empty(t, rec.calls)
	assert.Equal(t, PhaseFirst, s.State().Phase)

	s.Start()
	assert.Equal(t, 0, clock.Pending(), "a stopped scheduler cannot be restarted")
}

func TestResetReturnsToFirst(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	s := New(clock, Config{FirstURL: "first", FirstDurationSeconds: 5, Items: twoItems(), OnPhaseChange: rec.record})
	s.Start()
	clock.Advance(6 * time.Second)
	require.Equal(t, PhaseRotation, s.State().Phase)

	s.Reset("other", 4)
	st := s.State()
	assert.Equal(t, PhaseFirst, st.Phase)
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, "other", st.URL)
	assert.Equal(t, 1, clock.Pending(), "old timer is replaced, not duplicated")

	clock.Advance(4 * time.Second)
	assert.Equal(t, "a", s.State().URL)
	assert.Equal(t, []phaseCall{
		{PhaseRotation, 0},
		{PhaseFirst, 0},
		{PhaseRotation, 0},
	}, rec.calls)
}

func TestResetOnFirstDoesNotReport(t *testing.T) {
	clock := NewManualClock()
	rec := &recorder{}
	s := New(clock, Config{FirstURL: "first", FirstDurationSeconds: 5, Items: twoItems(), OnPhaseChange: rec.record})
	s.Start()
	s.Reset("first", 5)
	assert.Empty(t, rec.calls)
}

func TestKeyChangesOnlyOnAdvance(t *testing.T) {
	clock := NewManualClock()
	s := New(clock, Config{FirstURL: "first", FirstDurationSeconds: 2, Items: []Item{{URL: "only", DurationSeconds: 2}}})
	s.Start()

	k0 := s.State().Key()
	assert.Equal(t, k0, s.State().Key())

	clock.Advance(2 * time.Second)
	k1 := s.State().Key()
	assert.NotEqual(t, k0, k1)

	clock.Advance(2 * time.Second)
	k2 := s.State().Key()
	assert.NotEqual(t, k1, k2, "a single-item rotation still re-keys every turn")
	assert.Equal(t, "only", s.State().URL)
}

func TestTransitionSelection(t *testing.T) {
	clock := NewManualClock()
	ms := 300
	s := New(clock, Config{
		FirstURL:                  "first",
		FirstDurationSeconds:      1,
		FirstTransitionType:       transition.ZoomIn,
		FirstTransitionDurationMs: &ms,
		Items: []Item{
			{URL: "a", DurationSeconds: 1, TransitionType: transition.Blur},
			{URL: "b", DurationSeconds: 1},
		},
		Default: transition.Default{Effect: transition.SlideUp, DurationMs: 900},
	})
	s.Start()

	a := s.Snapshot().Animation
	assert.Equal(t, transition.ZoomIn, a.Effect)
	assert.Equal(t, 300, a.DurationMs)

	clock.Advance(time.Second)
	a = s.Snapshot().Animation
	assert.Equal(t, transition.Blur, a.Effect)
	assert.Equal(t, 900, a.DurationMs)

	clock.Advance(time.Second)
	a = s.Snapshot().Animation
	assert.Equal(t, transition.SlideUp, a.Effect)
}
