package transition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	e, ok := Lookup(" Slide_Left ")
	assert.True(t, ok)
	assert.Equal(t, SlideLeft, e.Name)

	e, ok = Lookup("zoom")
	assert.True(t, ok)
	assert.Equal(t, ZoomIn, e.Name)

	_, ok = Lookup("wormhole")
	assert.False(t, ok)
}

func TestSelectFallsBack(t *testing.T) {
	def := Default{Effect: Blur, DurationMs: 600}

	a := Select("", nil, def)
	assert.Equal(t, Blur, a.Effect)
	assert.Equal(t, 600, a.DurationMs)

	a = Select("wormhole", nil, Default{Effect: "also-unknown"})
	assert.Equal(t, Fade, a.Effect)

	d := 250
	a = Select(FlipY, &d, def)
	assert.Equal(t, FlipY, a.Effect)
	assert.Equal(t, 250, a.DurationMs)
}

func TestSelectClampsDuration(t *testing.T) {
	big, neg := 90000, -10
	assert.Equal(t, MaxDurationMs, Select(Fade, &big, Default{}).DurationMs)
	assert.Equal(t, 0, Select(Fade, &neg, Default{}).DurationMs)
}

func TestAnimationCSS(t *testing.T) {
	assert.Equal(t, "none", Animation{Effect: None, DurationMs: 500}.CSS())
	assert.Equal(t, "none", Animation{Effect: Fade}.CSS())
	assert.Equal(t, "mq-fade 500ms ease-in-out both", Select(Fade, intp(500), Default{}).CSS())
}

func TestKeyframesCoverCatalog(t *testing.T) {
	css := KeyframesCSS()
	for _, name := range Names() {
		if name == None {
			assert.NotContains(t, css, "mq-none")
			continue
		}
		assert.True(t, strings.Contains(css, "@keyframes mq-"+name+"{"), name)
	}
}

func intp(v int) *int { return &v }
