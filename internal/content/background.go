package content

import (
	"strings"

	"github.com/Nixie-Tech-LLC/marquee/internal/model"
)

const (
	// DefaultBackground is the theme color for zones with content.
	DefaultBackground = "#111827"
	// EmptyBackground marks zones without any content.
	EmptyBackground = "#2b3240"
	// EmptyBorder outlines empty zones so unused slots stay visible.
	EmptyBorder = "2px dashed #6b7280"
)

// Background is a zone's resolved backdrop.
type Background struct {
	Color  string `json:"color"`
	Image  string `json:"image,omitempty"`
	Border string `json:"border,omitempty"`
	Empty  bool   `json:"empty,omitempty"`
}

// ResolveBackground picks the zone style color, then the active content's
// color, then the theme default. Black counts as unset.
func ResolveBackground(z model.Zone, r Resolved) Background {
	zs := z.Style()
	if r.Empty() {
		return Background{Color: EmptyBackground, Border: EmptyBorder, Empty: true}
	}
	bg := Background{Color: DefaultBackground, Image: zs.BackgroundImage}

	candidates := []string{zs.BackgroundColor}
	if a := r.Active(); a != nil {
		if a.BackgroundColor != nil {
			candidates = append(candidates, *a.BackgroundColor)
		}
		candidates = append(candidates, a.Style().BackgroundColor)
	}
	for _, c := range candidates {
		if isSet(c) {
			bg.Color = strings.TrimSpace(c)
			break
		}
	}
	return bg
}

var blacks = map[string]bool{
	"#000": true, "#000000": true, "#000f": true, "#000000ff": true,
	"black": true, "rgb(0,0,0)": true, "rgba(0,0,0,1)": true,
}

func isSet(color string) bool {
	c := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(color), " ", ""))
	return c != "" && !blacks[c]
}
