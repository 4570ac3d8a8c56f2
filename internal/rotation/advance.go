package rotation

import "time"

// Trigger is the event that ends an asset's turn on screen.
type Trigger string

const (
	// TriggerTimer advances after the asset's duration elapses.
	TriggerTimer Trigger = "timer"
	// TriggerPlaybackEnd advances when a non-looping video reports it ended.
	TriggerPlaybackEnd Trigger = "playback_end"
)

// advancer arms whatever will eventually call back into the scheduler for
// the current asset. Exactly one advancer exists per asset.
type advancer interface {
	trigger() Trigger
	arm(s *Scheduler, d time.Duration, gen uint64) Timer
}

type timerAdvance struct{}

func (timerAdvance) trigger() Trigger { return TriggerTimer }

func (timerAdvance) arm(s *Scheduler, d time.Duration, gen uint64) Timer {
	return s.clock.AfterFunc(d, func() { s.fire(gen) })
}

// endedAdvance arms nothing; the player posts PlaybackEnded instead.
type endedAdvance struct{}

func (endedAdvance) trigger() Trigger { return TriggerPlaybackEnd }

func (endedAdvance) arm(*Scheduler, time.Duration, uint64) Timer { return nil }

// advancersFor picks one strategy per asset position (0 is the first asset,
// 1..n the rotation items). Looping video and images always use the timer.
func advancersFor(cfg Config) []advancer {
	out := make([]advancer, len(cfg.Items)+1)
	for i := range out {
		if cfg.Kind == KindVideo && !cfg.Loop {
			out[i] = endedAdvance{}
			continue
		}
		out[i] = timerAdvance{}
	}
	return out
}
