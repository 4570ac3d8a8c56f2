// Package rotation cycles one zone's image or video assets on their own
// timers and reports which asset is on screen.
package rotation

import (
	"fmt"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/marquee/internal/transition"
)

// Phase distinguishes the first asset from the cyclic sequence.
type Phase string

const (
	PhaseFirst    Phase = "first"
	PhaseRotation Phase = "rotation"
)

// Kind is the media kind of the rotating assets.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

const (
	minItemSeconds  = 1
	maxItemSeconds  = 120
	maxFirstSeconds = 3600
)

// Item is one asset in the rotation.
type Item struct {
	URL                  string
	DurationSeconds      float64
	TransitionType       string
	TransitionDurationMs *int
}

// Config describes a scheduler at construction.
type Config struct {
	Kind                      Kind
	FirstURL                  string
	FirstDurationSeconds      float64
	FirstTransitionType       string
	FirstTransitionDurationMs *int
	Items                     []Item
	PlayOnce                  bool
	// Loop only matters for video: a looping video never ends on its own,
	// so it advances on the timer.
	Loop    bool
	Default transition.Default
	// OnPhaseChange runs once per observed phase/index change, never for a
	// repeat of the last reported pair. It must not call back into the
	// scheduler's mutating methods.
	OnPhaseChange func(phase Phase, index int)
}

// State is the runtime rotation state.
type State struct {
	Phase   Phase  `json:"phase"`
	Index   int    `json:"index"`
	URL     string `json:"url"`
	Stopped bool   `json:"stopped"`
	// Turn counts advances; it re-keys the rendered element even when the
	// same asset comes around again.
	Turn int `json:"turn"`
}

// Key identifies the asset instance on screen. It changes on every advance
// and stays put otherwise.
func (s State) Key() string {
	return fmt.Sprintf("%s-%d-%d-%s", s.Phase, s.Index, s.Turn, s.URL)
}

type report struct {
	phase Phase
	index int
}

// Scheduler owns the state machine for one zone. It is safe for concurrent
// use; transitions are serialized and at most one timer is armed.
type Scheduler struct {
	clock     Clock
	cfg       Config
	advancers []advancer

	// opMu serializes transitions together with their callback.
	opMu sync.Mutex

	mu      sync.Mutex
	state   State
	last    report
	timer   Timer
	gen     uint64
	started bool
	closed  bool
}

// New builds a scheduler in the first phase. Nothing is armed until Start.
func New(clock Clock, cfg Config) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	items := make([]Item, len(cfg.Items))
	copy(items, cfg.Items)
	cfg.Items = items

	s := &Scheduler{clock: clock, cfg: cfg, advancers: advancersFor(cfg)}
	s.state = State{Phase: PhaseFirst, URL: cfg.FirstURL}
	s.last = report{phase: PhaseFirst}
	return s
}

// Start arms the first timer. Calling it again is a no-op.
func (s *Scheduler) Start() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	s.armLocked()
}

// Stop cancels pending timers. The scheduler is dead afterwards.
func (s *Scheduler) Stop() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelLocked()
}

// Reset returns to the first phase with a new first asset, cancelling any
// pending timer before the new state is established.
func (s *Scheduler) Reset(firstURL string, firstDurationSeconds float64) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.cancelLocked()
	s.cfg.FirstURL = firstURL
	s.cfg.FirstDurationSeconds = firstDurationSeconds
	s.state = State{Phase: PhaseFirst, URL: firstURL, Turn: s.state.Turn + 1}
	s.started = true
	s.armLocked()
	r, changed := s.reportLocked()
	s.mu.Unlock()

	if changed {
		s.emit(r)
	}
}

// PlaybackEnded advances an asset whose trigger is TriggerPlaybackEnd. url
// guards against a late event from an asset that already left the screen;
// pass "" to skip the check. It reports whether the event was accepted.
func (s *Scheduler) PlaybackEnded(url string) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.closed || s.state.Stopped || !s.started || len(s.cfg.Items) == 0 {
		s.mu.Unlock()
		return false
	}
	if s.currentAdvancerLocked().trigger() != TriggerPlaybackEnd {
		s.mu.Unlock()
		return false
	}
	if url != "" && url != s.state.URL {
		s.mu.Unlock()
		return false
	}
	s.advanceLocked()
	r, changed := s.reportLocked()
	s.mu.Unlock()

	if changed {
		s.emit(r)
	}
	return true
}

// State returns a copy of the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot is the state of the asset on screen together with how it
// entered and how it will end, read at one instant.
type Snapshot struct {
	State
	Animation transition.Animation
	Trigger   Trigger
}

// Snapshot returns State, Transition and Trigger under one lock, so a timer
// firing in between cannot mix two assets.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:     s.state,
		Animation: s.transitionLocked(),
		Trigger:   s.currentAdvancerLocked().trigger(),
	}
}

func (s *Scheduler) transitionLocked() transition.Animation {
	if s.state.Phase == PhaseFirst {
		return transition.Select(s.cfg.FirstTransitionType, s.cfg.FirstTransitionDurationMs, s.cfg.Default)
	}
	it := s.cfg.Items[s.state.Index]
	return transition.Select(it.TransitionType, it.TransitionDurationMs, s.cfg.Default)
}

func (s *Scheduler) fire(gen uint64) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.advanceLocked()
	r, changed := s.reportLocked()
	s.mu.Unlock()

	if changed {
		s.emit(r)
	}
}

// advanceLocked moves to the next asset and arms its trigger.
func (s *Scheduler) advanceLocked() {
	n := len(s.cfg.Items)
	if n == 0 {
		return
	}
	switch s.state.Phase {
	case PhaseFirst:
		s.state.Phase = PhaseRotation
		s.state.Index = 0
	default:
		next := (s.state.Index + 1) % n
		if s.cfg.PlayOnce && next == 0 {
			s.state.Stopped = true
			s.cancelLocked()
			return
		}
		s.state.Index = next
	}
	s.state.URL = s.cfg.Items[s.state.Index].URL
	s.state.Turn++
	s.armLocked()
}

func (s *Scheduler) armLocked() {
	s.cancelLocked()
	if s.closed || s.state.Stopped || len(s.cfg.Items) == 0 {
		return
	}
	var d time.Duration
	if s.state.Phase == PhaseFirst {
		if s.cfg.FirstDurationSeconds <= 0 && s.currentAdvancerLocked().trigger() == TriggerTimer {
			return
		}
		d = clampSeconds(s.cfg.FirstDurationSeconds, minItemSeconds, maxFirstSeconds)
	} else {
		d = clampSeconds(s.cfg.Items[s.state.Index].DurationSeconds, minItemSeconds, maxItemSeconds)
	}
	s.timer = s.currentAdvancerLocked().arm(s, d, s.gen)
}

// cancelLocked stops the pending timer and invalidates any callback that
// already escaped it.
func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) currentAdvancerLocked() advancer {
	if s.state.Phase == PhaseFirst {
		return s.advancers[0]
	}
	return s.advancers[s.state.Index+1]
}

func (s *Scheduler) reportLocked() (report, bool) {
	r := report{phase: s.state.Phase, index: s.state.Index}
	if r == s.last {
		return r, false
	}
	s.last = r
	return r, true
}

func (s *Scheduler) emit(r report) {
	if s.cfg.OnPhaseChange != nil {
		s.cfg.OnPhaseChange(r.phase, r.index)
	}
}

func clampSeconds(v float64, lo, hi float64) time.Duration {
	switch {
	case v < lo:
		v = lo
	case v > hi:
		v = hi
	}
	return time.Duration(v * float64(time.Second))
}
