package model

import "github.com/jmoiron/sqlx/types"

// Zone is a rectangular region of a screen ("block" on the admin side).
// Position and size are percentages of the screen area.
type Zone struct {
	ID          int            `db:"id"           json:"id"`
	ScreenID    int            `db:"screen_id"    json:"screen_id"`
	ZoneIndex   int            `db:"zone_index"   json:"zone_index"`
	PositionX   *float64       `db:"position_x"   json:"position_x,omitempty"`
	PositionY   *float64       `db:"position_y"   json:"position_y,omitempty"`
	Width       *float64       `db:"width"        json:"width,omitempty"`
	Height      *float64       `db:"height"       json:"height,omitempty"`
	StyleConfig types.JSONText `db:"style_config" json:"style_config,omitempty"`
}

// Rect is an explicit zone geometry in percent.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect returns the stored geometry when all four values are present and
// within 0..100 with a non-zero size.
func (z Zone) Rect() (Rect, bool) {
	if z.PositionX == nil || z.PositionY == nil || z.Width == nil || z.Height == nil {
		return Rect{}, false
	}
	r := Rect{X: *z.PositionX, Y: *z.PositionY, Width: *z.Width, Height: *z.Height}
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if v < 0 || v > 100 {
			return Rect{}, false
		}
	}
	if r.Width <= 0 || r.Height <= 0 {
		return Rect{}, false
	}
	return r, true
}

// Style parses the zone's style configuration.
func (z Zone) Style() ZoneStyle {
	var s ZoneStyle
	decodeStyle(z.StyleConfig, &s)
	return s
}

// ZoneStyle is the free-form per-zone styling.
type ZoneStyle struct {
	BackgroundColor  string `json:"backgroundColor,omitempty"`
	BackgroundImage  string `json:"backgroundImage,omitempty"`
	TransitionEffect string `json:"transitionEffect,omitempty"`
}
