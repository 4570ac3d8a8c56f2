package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// StyleConfig is the typed view of a content item's style_config blob.
type StyleConfig struct {
	BackgroundColor string           `json:"backgroundColor,omitempty"`
	Loop            *bool            `json:"loop,omitempty"`
	PlayOnce        bool             `json:"playOnce,omitempty"`
	TextLayers      []TextLayer      `json:"textLayers,omitempty"`
	OverlayImages   []OverlayImage   `json:"overlayImages,omitempty"`
	PriceBadge      *PriceBadge      `json:"priceBadge,omitempty"`
	ImageRotation   *RotationPayload `json:"imageRotation,omitempty"`
	VideoRotation   *RotationPayload `json:"videoRotation,omitempty"`
}

// ParseStyleConfig decodes raw into a StyleConfig. Empty or malformed input
// yields the zero value.
func ParseStyleConfig(raw []byte) StyleConfig {
	var s StyleConfig
	decodeStyle(raw, &s)
	return s
}

func decodeStyle(raw []byte, dst any) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return
	}
	// some rows store the object as a JSON string
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return
		}
		raw = []byte(inner)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Debug().Err(err).Msg("[model] ignoring malformed style config")
	}
}

// TextLayerKind discriminates overlay text rendering.
type TextLayerKind string

const (
	TextPlain    TextLayerKind = "plain"
	TextDiscount TextLayerKind = "discount"
)

// TextLayer is one overlay text descriptor positioned in percent.
type TextLayer struct {
	Kind         TextLayerKind  `json:"kind"`
	Text         string         `json:"text"`
	Color        string         `json:"color,omitempty"`
	Size         Number         `json:"size"`
	X            Number         `json:"x"`
	Y            Number         `json:"y"`
	FontWeight   string         `json:"fontWeight,omitempty"`
	FontStyle    string         `json:"fontStyle,omitempty"`
	Icon         string         `json:"icon,omitempty"`
	IconPosition string         `json:"iconPosition,omitempty"`
	Discount     *DiscountStyle `json:"discount,omitempty"`
}

// DiscountStyle is the chip styling of a discount block layer.
type DiscountStyle struct {
	Background  string `json:"background,omitempty"`
	BorderColor string `json:"borderColor,omitempty"`
	Animation   string `json:"animation,omitempty"`
}

// UnmarshalJSON accepts both the tagged form and the legacy
// isDiscountBlock flag emitted by the editor.
func (t *TextLayer) UnmarshalJSON(data []byte) error {
	type alias TextLayer
	var raw struct {
		alias
		FontSize        Number `json:"fontSize"`
		IsDiscountBlock bool   `json:"isDiscountBlock"`
		DiscountBg      string `json:"discountBackground"`
		DiscountBorder  string `json:"discountBorderColor"`
		DiscountAnim    string `json:"discountAnimation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = TextLayer(raw.alias)
	if !t.Size.Valid && raw.FontSize.Valid {
		t.Size = raw.FontSize
	}
	switch {
	case t.Kind == TextDiscount, raw.IsDiscountBlock:
		t.Kind = TextDiscount
	default:
		t.Kind = TextPlain
	}
	if t.Kind == TextDiscount && t.Discount == nil {
		t.Discount = &DiscountStyle{
			Background:  raw.DiscountBg,
			BorderColor: raw.DiscountBorder,
			Animation:   raw.DiscountAnim,
		}
	}
	return nil
}

// OverlayShape is the frame of a pinned overlay image.
type OverlayShape string

const (
	ShapeRound   OverlayShape = "round"
	ShapeRounded OverlayShape = "rounded"
	ShapeShadow  OverlayShape = "shadow"
	ShapeSquare  OverlayShape = "square"
)

// OverlayImage is a small image pinned in percent coordinates.
type OverlayImage struct {
	URL   string       `json:"url"`
	X     Number       `json:"x"`
	Y     Number       `json:"y"`
	Size  Number       `json:"size"`
	Shape OverlayShape `json:"shape,omitempty"`
}

// PriceBadge is a positioned price callout.
type PriceBadge struct {
	TopText    string `json:"topText,omitempty"`
	BottomText string `json:"bottomText,omitempty"`
	Price      string `json:"price,omitempty"`
	Color      string `json:"color,omitempty"`
	Position   string `json:"position,omitempty"` // top-left, top-right, bottom-left, bottom-right, center
	X          Number `json:"x"`
	Y          Number `json:"y"`
	Scale      Number `json:"scale"`
}

// RotationPayload is the multi-asset rotation declared by image or video
// content.
type RotationPayload struct {
	FirstAssetDurationSeconds    Number         `json:"firstAssetDurationSeconds"`
	FirstAssetTransitionType     string         `json:"firstAssetTransitionType,omitempty"`
	FirstAssetTransitionDuration Number         `json:"firstAssetTransitionDuration"`
	RotationItems                []RotationItem `json:"rotationItems"`
}

// RotationItem is one asset in a rotation.
type RotationItem struct {
	URL                string         `json:"url"`
	DurationSeconds    Number         `json:"durationSeconds"`
	TextLayers         []TextLayer    `json:"textLayers,omitempty"`
	OverlayImages      []OverlayImage `json:"overlayImages,omitempty"`
	PriceBadge         *PriceBadge    `json:"priceBadge,omitempty"`
	TransitionType     string         `json:"transitionType,omitempty"`
	TransitionDuration Number         `json:"transitionDuration"`
}

// Number is a lenient JSON number. It accepts numbers and numeric strings;
// anything else leaves it invalid.
type Number struct {
	Value float64
	Valid bool
}

// N returns a valid Number.
func N(v float64) Number { return Number{Value: v, Valid: true} }

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Or returns the value, or def when invalid.
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}
