package presentation

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/marquee/internal/content"
	"github.com/Nixie-Tech-LLC/marquee/internal/model"
	"github.com/Nixie-Tech-LLC/marquee/internal/rotation"
)

const (
	defaultTextSize   = 32
	minTextSize       = 8
	maxTextSize       = 400
	defaultOverlaySz  = 20
	minScale          = 0.5
	maxScale          = 3
	defaultBadgeBg    = "#dc2626"
	defaultBadgeColor = "#ffffff"
	defaultStripColor = "#ffffff"
	defaultPriceColor = "#facc15"
)

// named price badge anchors, in percent
var pricePositions = map[string][2]float64{
	"top-left":     {8, 8},
	"top-right":    {92, 8},
	"bottom-left":  {8, 80},
	"bottom-right": {92, 80},
	"center":       {50, 50},
}

type overlays struct {
	images []*OverlayLayer
	texts  []*TextLayer
	price  *PriceLayer
}

// overlaysFor returns the overlays of whichever asset is on screen. snap is
// the state the zone's asset layer was built from; the phase store entry
// for the primary content id is only trusted when it agrees with it.
func (e *Engine) overlaysFor(primary *model.ContentItem, m *mount, snap *rotation.Snapshot) overlays {
	if primary == nil {
		return overlays{}
	}
	style := primary.Style()
	src := struct {
		images []model.OverlayImage
		texts  []model.TextLayer
		price  *model.PriceBadge
	}{style.OverlayImages, style.TextLayers, style.PriceBadge}

	if m != nil && snap != nil {
		st := PhaseState{Phase: snap.Phase, Index: snap.Index}
		if stored, ok := e.phases.Get(primary.ID); !ok || stored != st {
			// the scheduler advanced and its report has not landed yet
			log.Debug().Int("content_id", primary.ID).Str("phase", string(st.Phase)).Int("index", st.Index).
				Msg("[presentation] phase report pending, using scheduler state")
		}
		if st.Phase == rotation.PhaseRotation && st.Index >= 0 && st.Index < len(m.items) {
			it := m.items[st.Index]
			src.images, src.texts, src.price = it.OverlayImages, it.TextLayers, it.PriceBadge
		}
	}

	var out overlays
	for _, o := range src.images {
		if l := e.overlayLayer(o); l != nil {
			out.images = append(out.images, l)
		}
	}
	for _, t := range src.texts {
		if l := textLayer(t); l != nil {
			out.texts = append(out.texts, l)
		}
	}
	out.price = priceLayer(src.price)
	return out
}

func (e *Engine) overlayLayer(o model.OverlayImage) *OverlayLayer {
	if strings.TrimSpace(o.URL) == "" {
		return nil
	}
	shape := o.Shape
	switch shape {
	case model.ShapeRound, model.ShapeRounded, model.ShapeShadow, model.ShapeSquare:
	default:
		shape = model.ShapeSquare
	}
	return &OverlayLayer{
		URL:   e.resolve(o.URL),
		X:     clamp(o.X.Or(0), 0, 100),
		Y:     clamp(o.Y.Or(0), 0, 100),
		Size:  clamp(o.Size.Or(defaultOverlaySz), 1, 100),
		Shape: shape,
	}
}

func textLayer(t model.TextLayer) *TextLayer {
	text := content.Sanitize(t.Text)
	if text == "" {
		return nil
	}
	l := &TextLayer{
		Kind:         t.Kind,
		Text:         text,
		Color:        orDefault(t.Color, defaultStripColor),
		SizePx:       clamp(t.Size.Or(defaultTextSize), minTextSize, maxTextSize),
		X:            clamp(t.X.Or(0), 0, 100),
		Y:            clamp(t.Y.Or(0), 0, 100),
		FontWeight:   t.FontWeight,
		FontStyle:    t.FontStyle,
		Icon:         t.Icon,
		IconTrailing: t.IconPosition == "right" || t.IconPosition == "after",
	}
	if l.Kind == "" {
		l.Kind = model.TextPlain
	}
	if l.Kind == model.TextDiscount {
		chip := Chip{Background: defaultBadgeBg, BorderColor: defaultBadgeColor, Animation: "pulse"}
		if d := t.Discount; d != nil {
			chip.Background = orDefault(d.Background, chip.Background)
			chip.BorderColor = orDefault(d.BorderColor, chip.BorderColor)
			chip.Animation = orDefault(d.Animation, chip.Animation)
		}
		l.Chip = &chip
	}
	return l
}

func priceLayer(p *model.PriceBadge) *PriceLayer {
	if p == nil {
		return nil
	}
	price := content.Sanitize(p.Price)
	if price == "" {
		return nil
	}
	l := &PriceLayer{
		TopText:    content.Sanitize(p.TopText),
		BottomText: content.Sanitize(p.BottomText),
		Price:      price,
		Color:      orDefault(p.Color, defaultPriceColor),
		Scale:      clamp(p.Scale.Or(1), minScale, maxScale),
	}
	pos, named := pricePositions[p.Position]
	if !named {
		pos = pricePositions["top-right"]
	}
	if p.X.Valid && !named {
		pos[0] = p.X.Value
	}
	if p.Y.Valid && !named {
		pos[1] = p.Y.Value
	}
	l.X, l.Y = clamp(pos[0], 0, 100), clamp(pos[1], 0, 100)
	return l
}

func badgeLayer(badge *model.ContentItem) *BadgeLayer {
	if badge == nil {
		return nil
	}
	text := content.Sanitize(deref(badge.CampaignText))
	if text == "" {
		text = content.Sanitize(deref(badge.Title))
	}
	if text == "" {
		return nil
	}
	return &BadgeLayer{
		Text:       text,
		Color:      orDefault(deref(badge.TextColor), defaultBadgeColor),
		Background: orDefault(deref(badge.BackgroundColor), defaultBadgeBg),
	}
}

func stripLayer(res content.Resolved) *StripLayer {
	if res.DisplayTitle == nil && res.DisplayPrice == nil {
		return nil
	}
	s := &StripLayer{TextColor: defaultStripColor}
	if res.DisplayTitle != nil {
		s.Title = *res.DisplayTitle
	}
	if res.DisplayPrice != nil {
		s.Price = *res.DisplayPrice
	}
	if a := res.Active(); a != nil {
		s.TextColor = orDefault(deref(a.TextColor), s.TextColor)
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
