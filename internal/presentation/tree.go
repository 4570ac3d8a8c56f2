package presentation

import (
	"github.com/Nixie-Tech-LLC/marquee/internal/content"
	"github.com/Nixie-Tech-LLC/marquee/internal/layout"
	"github.com/Nixie-Tech-LLC/marquee/internal/model"
	"github.com/Nixie-Tech-LLC/marquee/internal/rotation"
	"github.com/Nixie-Tech-LLC/marquee/internal/transition"
)

// Surface is where a tree is shown. Surfaces differ only in the CSS
// positioning context.
type Surface string

const (
	SurfacePreview    Surface = "preview"
	SurfaceFullscreen Surface = "fullscreen"
)

// Position returns the CSS position of the surface root.
func (s Surface) Position() string {
	if s == SurfacePreview {
		return "absolute"
	}
	return "fixed"
}

// ParseSurface maps a query value to a surface, defaulting to fullscreen.
func ParseSurface(v string) Surface {
	if Surface(v) == SurfacePreview {
		return SurfacePreview
	}
	return SurfaceFullscreen
}

// LayoutMode tells how zones were placed.
type LayoutMode string

const (
	ModeGrid   LayoutMode = "grid"
	ModeCustom LayoutMode = "custom"
)

// Tree is the composed visual tree for one screen.
type Tree struct {
	ScreenID int             `json:"screen_id"`
	Name     string          `json:"name"`
	Surface  Surface         `json:"surface"`
	Position string          `json:"position"`
	Frame    string          `json:"frame,omitempty"`
	Ticker   string          `json:"ticker,omitempty"`
	Loading  bool            `json:"loading,omitempty"`
	Mode     LayoutMode      `json:"mode"`
	Grid     *layout.Grid    `json:"grid,omitempty"`
	Zones    []ZoneView      `json:"zones"`
	Review   []layout.Review `json:"review,omitempty"`
}

// On returns a copy of the tree for surface s.
func (t Tree) On(s Surface) Tree {
	t.Surface = s
	t.Position = s.Position()
	return t
}

// ZoneView is one rendered zone.
type ZoneView struct {
	ZoneID     int                `json:"zone_id"`
	Index      int                `json:"index"`
	Cell       *layout.Cell       `json:"cell,omitempty"`
	Rect       *model.Rect        `json:"rect,omitempty"`
	Background content.Background `json:"background"`
	Empty      bool               `json:"empty,omitempty"`
	ContentID  int                `json:"content_id,omitempty"`
	Rotation   *RotationView      `json:"rotation,omitempty"`
	Layers     []Layer            `json:"layers"`
}

// RotationView exposes the scheduler state driving a zone.
type RotationView struct {
	Phase   rotation.Phase   `json:"phase"`
	Index   int              `json:"index"`
	Stopped bool             `json:"stopped,omitempty"`
	Trigger rotation.Trigger `json:"trigger"`
}

// LayerKind discriminates zone layers. Layers are emitted back to front in
// the order of these constants.
type LayerKind string

const (
	LayerBackground    LayerKind = "background"
	LayerAsset         LayerKind = "asset"
	LayerOverlayImage  LayerKind = "overlay_image"
	LayerText          LayerKind = "text"
	LayerPriceBadge    LayerKind = "price_badge"
	LayerCampaignBadge LayerKind = "campaign_badge"
	LayerTitleStrip    LayerKind = "title_strip"
)

// Layer is one entry of a zone's z-ordered stack; exactly one payload
// field matching Kind is set.
type Layer struct {
	Kind       LayerKind           `json:"kind"`
	Z          int                 `json:"z"`
	Background *content.Background `json:"background,omitempty"`
	Asset      *AssetLayer         `json:"asset,omitempty"`
	Overlay    *OverlayLayer       `json:"overlay,omitempty"`
	Text       *TextLayer          `json:"text,omitempty"`
	Price      *PriceLayer         `json:"price,omitempty"`
	Badge      *BadgeLayer         `json:"badge,omitempty"`
	Strip      *StripLayer         `json:"strip,omitempty"`
}

// AssetLayer is the zone's primary image or video.
type AssetLayer struct {
	ContentID int                  `json:"content_id"`
	Kind      rotation.Kind        `json:"kind"`
	URL       string               `json:"url"`
	Key       string               `json:"key"`
	Animation transition.Animation `json:"animation"`
	Loop      bool                 `json:"loop,omitempty"`
	// AdvanceOnEnd asks the player to report the end of playback.
	AdvanceOnEnd bool `json:"advance_on_end,omitempty"`
}

// OverlayLayer is a small pinned image.
type OverlayLayer struct {
	URL   string             `json:"url"`
	X     float64            `json:"x"`
	Y     float64            `json:"y"`
	Size  float64            `json:"size"`
	Shape model.OverlayShape `json:"shape"`
}

// TextLayer is a positioned overlay text.
type TextLayer struct {
	Kind         model.TextLayerKind `json:"kind"`
	Text         string              `json:"text"`
	Color        string              `json:"color"`
	SizePx       float64             `json:"size_px"`
	X            float64             `json:"x"`
	Y            float64             `json:"y"`
	FontWeight   string              `json:"font_weight,omitempty"`
	FontStyle    string              `json:"font_style,omitempty"`
	Icon         string              `json:"icon,omitempty"`
	IconTrailing bool                `json:"icon_trailing,omitempty"`
	Chip         *Chip               `json:"chip,omitempty"`
}

// Chip styles a discount block.
type Chip struct {
	Background  string `json:"background"`
	BorderColor string `json:"border_color"`
	Animation   string `json:"animation"`
}

// PriceLayer is the positioned price callout.
type PriceLayer struct {
	TopText    string  `json:"top_text,omitempty"`
	BottomText string  `json:"bottom_text,omitempty"`
	Price      string  `json:"price"`
	Color      string  `json:"color"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Scale      float64 `json:"scale"`
}

// BadgeLayer is the top-left campaign badge.
type BadgeLayer struct {
	Text       string `json:"text"`
	Color      string `json:"color"`
	Background string `json:"background"`
}

// StripLayer is the bottom title/price bar. Empty fields are omitted.
type StripLayer struct {
	Title     string `json:"title,omitempty"`
	Price     string `json:"price,omitempty"`
	TextColor string `json:"text_color"`
}
