// Package player keeps one presentation engine per screen alive across
// requests so rotations continue between polls.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Nixie-Tech-LLC/marquee/internal/db"
	"github.com/Nixie-Tech-LLC/marquee/internal/model"
	"github.com/Nixie-Tech-LLC/marquee/internal/presentation"
	"github.com/Nixie-Tech-LLC/marquee/internal/rotation"
)

var (
	ErrScreenNotFound = errors.New("screen not found")
	ErrClosed         = errors.New("player manager closed")
)

// Source loads the records a screen is composed from.
type Source interface {
	GetScreenByID(ctx context.Context, id int) (model.Screen, error)
	ListZones(ctx context.Context, screenID int) ([]model.Zone, error)
	ListContent(ctx context.Context, screenID int) ([]model.ContentItem, error)
}

// Notifier receives every reported rotation change.
type Notifier interface {
	PhaseChanged(screenID int, ev presentation.PhaseEvent)
}

type Options struct {
	Clock    rotation.Clock
	Assets   presentation.AssetResolver
	Notifier Notifier
}

type Manager struct {
	src  Source
	opts Options

	mu       sync.Mutex
	sessions map[int]*session
	closed   bool
}

type session struct {
	id     int
	engine *presentation.Engine

	mu     sync.Mutex
	loaded bool
	screen model.Screen
	zones  []model.Zone
	items  []model.ContentItem
}

func NewManager(src Source, opts Options) *Manager {
	return &Manager{src: src, opts: opts, sessions: make(map[int]*session)}
}

func (m *Manager) session(screenID int) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if s, ok := m.sessions[screenID]; ok {
		return s, nil
	}
	s := &session{id: screenID}
	s.engine = presentation.New(presentation.Options{
		Clock:   m.opts.Clock,
		Surface: presentation.SurfaceFullscreen,
		Assets:  m.opts.Assets,
		OnPhaseChange: func(ev presentation.PhaseEvent) {
			if m.opts.Notifier != nil {
				m.opts.Notifier.PhaseChanged(screenID, ev)
			}
		},
	})
	m.sessions[screenID] = s
	log.Info().Int("screen_id", screenID).Msg("[player] session started")
	return s, nil
}

func (m *Manager) drop(s *session) {
	m.mu.Lock()
	if m.sessions[s.id] == s {
		delete(m.sessions, s.id)
	}
	m.mu.Unlock()
	s.engine.Close()
}

// load fetches the screen records concurrently. Caller holds s.mu.
func (m *Manager) load(ctx context.Context, s *session) error {
	var (
		screen model.Screen
		zones  []model.Zone
		items  []model.ContentItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		screen, err = m.src.GetScreenByID(gctx, s.id)
		return err
	})
	g.Go(func() error {
		var err error
		zones, err = m.src.ListZones(gctx, s.id)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = m.src.ListContent(gctx, s.id)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("screen %d: %w", s.id, ErrScreenNotFound)
		}
		return fmt.Errorf("load screen %d: %w", s.id, err)
	}
	s.screen, s.zones, s.items = screen, zones, items
	s.loaded = true
	log.Debug().Int("screen_id", s.id).Int("zones", len(zones)).Int("items", len(items)).Msg("[player] screen loaded")
	return nil
}

// Snapshot renders the screen for surface, loading it on first use.
// Later calls reuse the loaded records and running schedulers.
func (m *Manager) Snapshot(ctx context.Context, screenID int, surface presentation.Surface) (presentation.Tree, error) {
	s, err := m.session(screenID)
	if err != nil {
		return presentation.Tree{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if err := m.load(ctx, s); err != nil {
			if errors.Is(err, ErrScreenNotFound) {
				m.drop(s)
			}
			return presentation.Tree{}, err
		}
	}
	return s.engine.Render(s.screen, s.zones, s.items).On(surface), nil
}

// Reload re-fetches the screen records and re-renders. Zones whose content
// is unchanged keep their rotation.
func (m *Manager) Reload(ctx context.Context, screenID int) error {
	s, err := m.session(screenID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := m.load(ctx, s); err != nil {
		if errors.Is(err, ErrScreenNotFound) {
			m.drop(s)
		}
		return err
	}
	s.engine.Render(s.screen, s.zones, s.items)
	log.Info().Int("screen_id", screenID).Msg("[player] screen reloaded")
	return nil
}

// PlaybackEnded forwards a video end report. It returns false when no
// running scheduler accepted it.
func (m *Manager) PlaybackEnded(screenID, contentID int, url string) bool {
	m.mu.Lock()
	s, ok := m.sessions[screenID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	accepted := s.engine.PlaybackEnded(contentID, url)
	log.Debug().Int("screen_id", screenID).Int("content_id", contentID).Bool("accepted", accepted).
		Msg("[player] playback ended")
	return accepted
}

// Phases returns the phase store of a running screen.
func (m *Manager) Phases(screenID int) (map[int]presentation.PhaseState, bool) {
	m.mu.Lock()
	s, ok := m.sessions[screenID]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	return s.engine.Phases(), true
}

// Close stops every engine. The manager refuses new work afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[int]*session)
	m.closed = true
	m.mu.Unlock()

	for _, s := range sessions {
		s.engine.Close()
	}
	log.Info().Int("sessions", len(sessions)).Msg("[player] all sessions closed")
}
