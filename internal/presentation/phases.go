package presentation

import (
	"sync"

	"github.com/Nixie-Tech-LLC/marquee/internal/rotation"
)

// PhaseState is the last phase/index a scheduler reported.
type PhaseState struct {
	Phase rotation.Phase `json:"phase"`
	Index int            `json:"index"`
}

// PhaseStore maps content id to the last reported phase. It belongs to one
// engine and lives as long as it; entries are never pruned.
type PhaseStore struct {
	mu sync.RWMutex
	m  map[int]PhaseState
}

func newPhaseStore() *PhaseStore {
	return &PhaseStore{m: make(map[int]PhaseState)}
}

func (p *PhaseStore) Set(contentID int, st PhaseState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[contentID] = st
}

func (p *PhaseStore) Get(contentID int) (PhaseState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st, ok := p.m[contentID]
	return st, ok
}

// Snapshot copies the store.
func (p *PhaseStore) Snapshot() map[int]PhaseState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[int]PhaseState, len(p.m))
	for k, v := range p.m {
		out[k] = v
	}
	return out
}
