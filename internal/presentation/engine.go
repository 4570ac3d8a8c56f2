// Package presentation composes layout, content and rotation state into the
// visual tree a player renders.
package presentation

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/marquee/internal/content"
	"github.com/Nixie-Tech-LLC/marquee/internal/layout"
	"github.com/Nixie-Tech-LLC/marquee/internal/model"
	"github.com/Nixie-Tech-LLC/marquee/internal/rotation"
	"github.com/Nixie-Tech-LLC/marquee/internal/transition"
)

// AssetResolver maps stored asset references to playable URLs.
type AssetResolver interface {
	Resolve(ref string) string
}

// PhaseEvent is published for every reported rotation change.
type PhaseEvent struct {
	ContentID int            `json:"content_id"`
	Phase     rotation.Phase `json:"phase"`
	Index     int            `json:"index"`
	URL       string         `json:"url"`
}

// Options configure an Engine.
type Options struct {
	Clock         rotation.Clock
	Surface       Surface
	Assets        AssetResolver
	OnPhaseChange func(PhaseEvent)
}

// Engine renders one screen. It owns the schedulers of every zone with a
// rotation and the content id to phase store their overlays read.
type Engine struct {
	opts   Options
	phases *PhaseStore

	mu     sync.Mutex
	mounts map[int]*mount
	closed bool
}

// New returns an engine with an empty phase store.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = rotation.RealClock{}
	}
	if opts.Surface == "" {
		opts.Surface = SurfaceFullscreen
	}
	return &Engine{opts: opts, phases: newPhaseStore(), mounts: make(map[int]*mount)}
}

// Render composes the tree. Zones whose content identity is unchanged
// since the previous render keep their running schedulers.
func (e *Engine) Render(screen model.Screen, zones []model.Zone, items []model.ContentItem) Tree {
	e.mu.Lock()
	defer e.mu.Unlock()

	tree := Tree{
		ScreenID: screen.ID,
		Name:     screen.Name,
		Frame:    deref(screen.FrameType),
		Ticker:   content.Sanitize(deref(screen.TickerText)),
	}
	tree = tree.On(e.opts.Surface)
	if e.closed {
		tree.Loading = true
		return tree
	}

	sorted := layout.SortZones(zones)
	if len(sorted) == 0 {
		tree.Loading = true
		e.unmountExcept(nil)
		return tree
	}

	var places []layout.Placement
	if layout.HasCustomPositions(sorted) {
		tree.Mode = ModeCustom
		places, tree.Review = layout.PlaceCustom(sorted)
		for _, r := range tree.Review {
			log.Warn().Int("screen_id", screen.ID).Int("zone_id", r.ZoneID).Str("reason", r.Reason).
				Msg("[presentation] zone geometry needs review")
		}
	} else {
		tree.Mode = ModeGrid
		g := layout.Resolve(len(sorted))
		tree.Grid = &g
	}

	def := screenDefault(screen)
	live := make(map[int]bool)
	tree.Zones = make([]ZoneView, len(sorted))
	for i, z := range sorted {
		zv := ZoneView{ZoneID: z.ID, Index: i}
		if tree.Mode == ModeCustom {
			r := places[i].Rect
			zv.Rect = &r
		} else {
			c := tree.Grid.Cells[i]
			zv.Cell = &c
		}
		e.composeZone(&zv, z, items, zoneDefault(z, def), live)
		tree.Zones[i] = zv
	}
	e.unmountExcept(live)
	return tree
}

func (e *Engine) composeZone(zv *ZoneView, z model.Zone, items []model.ContentItem, def transition.Default, live map[int]bool) {
	res := content.Resolve(z.ID, items)
	zv.Background = content.ResolveBackground(z, res)
	zv.Empty = res.Empty()

	z0 := 0
	push := func(l Layer) {
		l.Z = z0
		z0++
		zv.Layers = append(zv.Layers, l)
	}
	bg := zv.Background
	push(Layer{Kind: LayerBackground, Background: &bg})
	if zv.Empty {
		return
	}
	if a := res.Active(); a != nil {
		zv.ContentID = a.ID
	}

	primary := res.Primary()
	var m *mount
	var snap *rotation.Snapshot
	if plan := planRotation(primary, def); plan != nil {
		m = e.ensureMount(primary.ID, plan)
		live[primary.ID] = true
		// every rotation-dependent layer of the zone reads this one snapshot
		s := m.sched.Snapshot()
		snap = &s
	}

	if asset := e.assetLayer(primary, snap, def); asset != nil {
		push(Layer{Kind: LayerAsset, Asset: asset})
	}
	if snap != nil {
		zv.Rotation = &RotationView{Phase: snap.Phase, Index: snap.Index, Stopped: snap.Stopped, Trigger: snap.Trigger}
	}

	ov := e.overlaysFor(primary, m, snap)
	for _, o := range ov.images {
		push(Layer{Kind: LayerOverlayImage, Overlay: o})
	}
	for _, t := range ov.texts {
		push(Layer{Kind: LayerText, Text: t})
	}
	if ov.price != nil {
		push(Layer{Kind: LayerPriceBadge, Price: ov.price})
	}
	if b := badgeLayer(res.Badge); b != nil {
		push(Layer{Kind: LayerCampaignBadge, Badge: b})
	}
	if s := stripLayer(res); s != nil {
		push(Layer{Kind: LayerTitleStrip, Strip: s})
	}
}

func (e *Engine) assetLayer(primary *model.ContentItem, snap *rotation.Snapshot, def transition.Default) *AssetLayer {
	if primary == nil {
		return nil
	}
	kind := rotation.KindImage
	if content.IsVideo(*primary) {
		kind = rotation.KindVideo
	}
	style := primary.Style()

	a := &AssetLayer{ContentID: primary.ID, Kind: kind}
	if snap != nil {
		a.URL = snap.URL
		a.Key = snap.Key()
		a.Animation = snap.Animation
		a.AdvanceOnEnd = kind == rotation.KindVideo && snap.Trigger == rotation.TriggerPlaybackEnd
		a.Loop = kind == rotation.KindVideo && !a.AdvanceOnEnd
	} else {
		a.URL = primary.URL()
		a.Key = rotation.State{Phase: rotation.PhaseFirst, URL: a.URL}.Key()
		a.Animation = transition.Select("", nil, def)
		// a lone video keeps playing unless told otherwise
		a.Loop = kind == rotation.KindVideo && (style.Loop == nil || *style.Loop)
	}
	if a.URL == "" {
		return nil
	}
	a.URL = e.resolve(a.URL)
	return a
}

// ensureMount returns the running mount for contentID, replacing it when the
// rotation changed. Caller holds e.mu.
func (e *Engine) ensureMount(contentID int, plan *rotationPlan) *mount {
	if m, ok := e.mounts[contentID]; ok {
		if m.fingerprint == plan.fingerprint {
			return m
		}
		m.sched.Stop()
		delete(e.mounts, contentID)
		log.Debug().Int("content_id", contentID).Msg("[presentation] rotation changed, remounting")
	}

	cfg := plan.cfg
	items := plan.items
	cfg.OnPhaseChange = func(phase rotation.Phase, index int) {
		e.phases.Set(contentID, PhaseState{Phase: phase, Index: index})
		if e.opts.OnPhaseChange == nil {
			return
		}
		url := cfg.FirstURL
		if phase == rotation.PhaseRotation && index < len(items) {
			url = items[index].URL
		}
		e.opts.OnPhaseChange(PhaseEvent{ContentID: contentID, Phase: phase, Index: index, URL: e.resolve(url)})
	}

	m := &mount{contentID: contentID, fingerprint: plan.fingerprint, items: items}
	m.sched = rotation.New(e.opts.Clock, cfg)
	// a fresh scheduler starts on the first asset; drop whatever a previous
	// one reported and tell listeners that saw it
	reset := PhaseState{Phase: rotation.PhaseFirst}
	prev, seen := e.phases.Get(contentID)
	e.phases.Set(contentID, reset)
	if seen && prev != reset && e.opts.OnPhaseChange != nil {
		e.opts.OnPhaseChange(PhaseEvent{ContentID: contentID, Phase: reset.Phase, Index: reset.Index, URL: e.resolve(cfg.FirstURL)})
	}
	e.mounts[contentID] = m
	m.sched.Start()
	log.Debug().Int("content_id", contentID).Int("items", len(items)).Str("kind", string(cfg.Kind)).
		Msg("[presentation] rotation mounted")
	return m
}

// unmountExcept stops schedulers whose content id is not in keep. Caller
// holds e.mu.
func (e *Engine) unmountExcept(keep map[int]bool) {
	for id, m := range e.mounts {
		if keep[id] {
			continue
		}
		m.sched.Stop()
		delete(e.mounts, id)
		log.Debug().Int("content_id", id).Msg("[presentation] rotation unmounted")
	}
}

// Scheduler returns the live scheduler for a content item.
func (e *Engine) Scheduler(contentID int) (*rotation.Scheduler, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.mounts[contentID]
	if !ok {
		return nil, false
	}
	return m.sched, true
}

// PlaybackEnded forwards a video end event. It reports whether a scheduler
// accepted it.
func (e *Engine) PlaybackEnded(contentID int, url string) bool {
	sched, ok := e.Scheduler(contentID)
	if !ok {
		return false
	}
	return sched.PlaybackEnded(e.unresolve(contentID, url))
}

// Phases returns a copy of the content id to phase store.
func (e *Engine) Phases() map[int]PhaseState {
	return e.phases.Snapshot()
}

// Close stops every scheduler. Later renders report loading.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.unmountExcept(nil)
}

func (e *Engine) resolve(ref string) string {
	if e.opts.Assets == nil || ref == "" {
		return ref
	}
	return e.opts.Assets.Resolve(ref)
}

// unresolve maps a player-reported URL back to the stored reference the
// scheduler compares against. A URL signed before the current signature
// still matches its object.
func (e *Engine) unresolve(contentID int, url string) string {
	if url == "" || e.opts.Assets == nil {
		return url
	}
	sched, ok := e.Scheduler(contentID)
	if !ok {
		return url
	}
	cur := sched.State().URL
	if assetPath(e.resolve(cur)) == assetPath(url) {
		return cur
	}
	return url
}

// assetPath drops the query and fragment of a resolved URL. Signed URLs
// for one object differ only there.
func assetPath(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		return u[:i]
	}
	return u
}

func screenDefault(s model.Screen) transition.Default {
	d := transition.Default{Effect: transition.Fade, DurationMs: transition.DefaultDurationMs}
	if s.TransitionEffect != nil && *s.TransitionEffect != "" {
		d.Effect = *s.TransitionEffect
	}
	if s.AnimationDurationMs != nil {
		d.DurationMs = transition.ClampDuration(*s.AnimationDurationMs)
	}
	return d
}

func zoneDefault(z model.Zone, screen transition.Default) transition.Default {
	if eff := z.Style().TransitionEffect; eff != "" {
		if _, ok := transition.Lookup(eff); ok {
			screen.Effect = eff
		}
	}
	return screen
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
