// Package transition holds the fixed registry of named enter animations
// used when a zone switches assets.
package transition

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// MaxDurationMs bounds every transition duration.
	MaxDurationMs = 5000
	// DefaultDurationMs is used when neither the item nor the screen sets one.
	DefaultDurationMs = 800
)

// Effect is one named enter animation.
type Effect struct {
	Name      string `json:"name"`
	Keyframes string `json:"-"`
	Easing    string `json:"easing"`
}

// Animation is an effect bound to a concrete duration.
type Animation struct {
	Effect     string `json:"effect"`
	DurationMs int    `json:"duration_ms"`
	Easing     string `json:"easing"`
}

// CSS returns the animation shorthand, or "none".
func (a Animation) CSS() string {
	if a.Effect == None || a.DurationMs == 0 {
		return "none"
	}
	return fmt.Sprintf("%s %dms %s both", keyframeName(a.Effect), a.DurationMs, a.Easing)
}

const (
	None       = "none"
	Fade       = "fade"
	SlideLeft  = "slide-left"
	SlideRight = "slide-right"
	SlideUp    = "slide-up"
	SlideDown  = "slide-down"
	ZoomIn     = "zoom-in"
	ZoomOut    = "zoom-out"
	Blur       = "blur"
	FlipX      = "flip-x"
	FlipY      = "flip-y"
	Iris       = "iris"
	IrisOut    = "iris-out"
	RevealLeft = "reveal-left"
	RevealUp   = "reveal-up"
	Puzzle     = "puzzle"
	PuzzleGrid = "puzzle-grid"
)

var catalog = map[string]Effect{
	None: {Name: None, Easing: "linear"},
	Fade: {Name: Fade, Easing: "ease-in-out",
		Keyframes: "from{opacity:0}to{opacity:1}"},
	SlideLeft: {Name: SlideLeft, Easing: "cubic-bezier(.22,.61,.36,1)",
		Keyframes: "from{transform:translateX(100%)}to{transform:translateX(0)}"},
	SlideRight: {Name: SlideRight, Easing: "cubic-bezier(.22,.61,.36,1)",
		Keyframes: "from{transform:translateX(-100%)}to{transform:translateX(0)}"},
	SlideUp: {Name: SlideUp, Easing: "cubic-bezier(.22,.61,.36,1)",
		Keyframes: "from{transform:translateY(100%)}to{transform:translateY(0)}"},
	SlideDown: {Name: SlideDown, Easing: "cubic-bezier(.22,.61,.36,1)",
		Keyframes: "from{transform:translateY(-100%)}to{transform:translateY(0)}"},
	ZoomIn: {Name: ZoomIn, Easing: "ease-out",
		Keyframes: "from{opacity:0;transform:scale(.8)}to{opacity:1;transform:scale(1)}"},
	ZoomOut: {Name: ZoomOut, Easing: "ease-out",
		Keyframes: "from{opacity:0;transform:scale(1.2)}to{opacity:1;transform:scale(1)}"},
	Blur: {Name: Blur, Easing: "ease-out",
		Keyframes: "from{opacity:0;filter:blur(20px)}to{opacity:1;filter:blur(0)}"},
	FlipX: {Name: FlipX, Easing: "ease-in-out",
		Keyframes: "from{transform:perspective(1200px) rotateY(90deg)}to{transform:perspective(1200px) rotateY(0)}"},
	FlipY: {Name: FlipY, Easing: "ease-in-out",
		Keyframes: "from{transform:perspective(1200px) rotateX(90deg)}to{transform:perspective(1200px) rotateX(0)}"},
	Iris: {Name: Iris, Easing: "ease-out",
		Keyframes: "from{clip-path:circle(0% at 50% 50%)}to{clip-path:circle(75% at 50% 50%)}"},
	IrisOut: {Name: IrisOut, Easing: "ease-in",
		Keyframes: "from{clip-path:circle(150% at 50% 50%);opacity:0}to{clip-path:circle(75% at 50% 50%);opacity:1}"},
	RevealLeft: {Name: RevealLeft, Easing: "ease-in-out",
		Keyframes: "from{clip-path:inset(0 0 0 100%)}to{clip-path:inset(0 0 0 0)}"},
	RevealUp: {Name: RevealUp, Easing: "ease-in-out",
		Keyframes: "from{clip-path:inset(100% 0 0 0)}to{clip-path:inset(0 0 0 0)}"},
	Puzzle: {Name: Puzzle, Easing: "steps(4,end)",
		Keyframes: "0%{clip-path:polygon(0 0,0 0,0 0,0 0)}25%{clip-path:polygon(0 0,50% 0,50% 50%,0 50%)}" +
			"50%{clip-path:polygon(0 0,100% 0,100% 50%,0 50%)}75%{clip-path:polygon(0 0,100% 0,100% 100%,50% 100%,50% 50%,0 50%)}" +
			"100%{clip-path:polygon(0 0,100% 0,100% 100%,0 100%)}"},
	PuzzleGrid: {Name: PuzzleGrid, Easing: "ease-out",
		Keyframes: "from{opacity:0;transform:scale(.9) rotate(-2deg);filter:contrast(2)}to{opacity:1;transform:none;filter:none}"},
}

// aliases accepted from older editors
var aliases = map[string]string{
	"slide":      SlideLeft,
	"slideleft":  SlideLeft,
	"slideright": SlideRight,
	"slideup":    SlideUp,
	"slidedown":  SlideDown,
	"zoom":       ZoomIn,
	"flip":       FlipX,
	"reveal":     RevealLeft,
	"crossfade":  Fade,
}

// Lookup returns the effect registered under name. Matching ignores case,
// surrounding space and underscores.
func Lookup(name string) (Effect, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if e, ok := catalog[key]; ok {
		return e, true
	}
	if a, ok := aliases[strings.ReplaceAll(key, "-", "")]; ok {
		return catalog[a], true
	}
	return Effect{}, false
}

// Names lists the registered effect names, sorted.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ClampDuration bounds ms to [0, MaxDurationMs].
func ClampDuration(ms int) int {
	switch {
	case ms < 0:
		return 0
	case ms > MaxDurationMs:
		return MaxDurationMs
	}
	return ms
}

// Default is the zone-level transition used when an asset has no override.
type Default struct {
	Effect     string
	DurationMs int
}

// Select picks the effect for an asset: the override when it names a known
// effect, otherwise the zone default, otherwise fade. A nil durationMs
// inherits the default duration.
func Select(override string, durationMs *int, def Default) Animation {
	e, ok := Lookup(override)
	if !ok {
		if e, ok = Lookup(def.Effect); !ok {
			e = catalog[Fade]
		}
	}
	d := def.DurationMs
	if durationMs != nil {
		d = *durationMs
	}
	return Animation{Effect: e.Name, DurationMs: ClampDuration(d), Easing: e.Easing}
}

// KeyframesCSS renders every @keyframes rule of the catalog.
func KeyframesCSS() string {
	var b strings.Builder
	for _, name := range Names() {
		e := catalog[name]
		if e.Keyframes == "" {
			continue
		}
		fmt.Fprintf(&b, "@keyframes %s{%s}\n", keyframeName(name), e.Keyframes)
	}
	return b.String()
}

func keyframeName(effect string) string {
	return "mq-" + effect
}
