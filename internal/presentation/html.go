package presentation

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/Nixie-Tech-LLC/marquee/internal/rotation"
	"github.com/Nixie-Tech-LLC/marquee/internal/transition"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"rootStyle":  rootStyle,
	"zoneStyle":  zoneStyle,
	"layerStyle": layerStyle,
	"isVideo":    func(a *AssetLayer) bool { return a.Kind == rotation.KindVideo },
	"keyframes":  func() template.CSS { return template.CSS(transition.KeyframesCSS()) },
}).ParseFS(templateFS, "templates/*.html"))

// Page is the data behind a full player document.
type Page struct {
	Tree Tree
	// StateURL is polled for a changed ETag; EndedURL receives playback end
	// reports. Both are relative to the page.
	StateURL string
	EndedURL string
}

// WritePage renders a full HTML document for the fullscreen player.
func WritePage(w io.Writer, p Page) error {
	return templates.ExecuteTemplate(w, "page.html", p)
}

// WriteFragment renders the tree with its stylesheet, for embedding in a
// preview.
func WriteFragment(w io.Writer, t Tree) error {
	return templates.ExecuteTemplate(w, "fragment.html", t)
}

// RenderFragment is WriteFragment into a string.
func RenderFragment(t Tree) (string, error) {
	var buf bytes.Buffer
	if err := WriteFragment(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rootStyle(t Tree) template.CSS {
	var b strings.Builder
	fmt.Fprintf(&b, "position:%s;inset:0;overflow:hidden;background:#000;", t.Position)
	if t.Mode == ModeGrid && t.Grid != nil {
		fmt.Fprintf(&b, "display:grid;grid-template-columns:repeat(%d,1fr);grid-template-rows:repeat(%d,1fr);gap:%dpx;",
			t.Grid.Cols, t.Grid.Rows, t.Grid.Gap)
	}
	return template.CSS(b.String())
}

func zoneStyle(z ZoneView) template.CSS {
	var b strings.Builder
	b.WriteString("position:relative;overflow:hidden;")
	if z.Rect != nil {
		fmt.Fprintf(&b, "position:absolute;left:%.2f%%;top:%.2f%%;width:%.2f%%;height:%.2f%%;",
			z.Rect.X, z.Rect.Y, z.Rect.Width, z.Rect.Height)
	}
	if z.Cell != nil {
		fmt.Fprintf(&b, "grid-column:%d / span %d;grid-row:%d / span %d;",
			z.Cell.Col, layoutSpan(z.Cell.ColSpan), z.Cell.Row, layoutSpan(z.Cell.RowSpan))
	}
	fmt.Fprintf(&b, "background:%s;", cssValue(z.Background.Color))
	if z.Background.Border != "" {
		fmt.Fprintf(&b, "border:%s;box-sizing:border-box;", cssValue(z.Background.Border))
	}
	return template.CSS(b.String())
}

func layerStyle(l Layer) template.CSS {
	var b strings.Builder
	fmt.Fprintf(&b, "z-index:%d;", l.Z)
	switch l.Kind {
	case LayerAsset:
		fmt.Fprintf(&b, "position:absolute;inset:0;width:100%%;height:100%%;object-fit:cover;animation:%s;",
			cssValue(l.Asset.Animation.CSS()))
	case LayerOverlayImage:
		o := l.Overlay
		fmt.Fprintf(&b, "position:absolute;left:%.2f%%;top:%.2f%%;width:%.2f%%;", o.X, o.Y, o.Size)
		switch o.Shape {
		case "round":
			b.WriteString("border-radius:50%;")
		case "rounded":
			b.WriteString("border-radius:12px;")
		case "shadow":
			b.WriteString("box-shadow:0 4px 16px rgba(0,0,0,.5);")
		}
	case LayerText:
		t := l.Text
		fmt.Fprintf(&b, "position:absolute;left:%.2f%%;top:%.2f%%;color:%s;font-size:%.0fpx;",
			t.X, t.Y, cssValue(t.Color), t.SizePx)
		if t.FontWeight != "" {
			fmt.Fprintf(&b, "font-weight:%s;", cssValue(t.FontWeight))
		}
		if t.FontStyle != "" {
			fmt.Fprintf(&b, "font-style:%s;", cssValue(t.FontStyle))
		}
		if c := t.Chip; c != nil {
			fmt.Fprintf(&b, "background:%s;border:2px solid %s;border-radius:8px;padding:.2em .5em;animation:mq-chip-%s 1.2s ease-in-out infinite;",
				cssValue(c.Background), cssValue(c.BorderColor), cssValue(c.Animation))
		} else {
			b.WriteString("text-shadow:0 2px 6px rgba(0,0,0,.7);")
		}
	case LayerPriceBadge:
		p := l.Price
		fmt.Fprintf(&b, "position:absolute;left:%.2f%%;top:%.2f%%;color:%s;transform:translate(-50%%,-50%%) scale(%.2f);",
			p.X, p.Y, cssValue(p.Color), p.Scale)
	case LayerCampaignBadge:
		fmt.Fprintf(&b, "position:absolute;left:12px;top:12px;color:%s;background:%s;",
			cssValue(l.Badge.Color), cssValue(l.Badge.Background))
	case LayerTitleStrip:
		fmt.Fprintf(&b, "position:absolute;left:0;right:0;bottom:0;color:%s;", cssValue(l.Strip.TextColor))
	}
	return template.CSS(b.String())
}

func layoutSpan(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// cssValue keeps characters that can appear in a color, length or
// animation shorthand and drops the rest.
func cssValue(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune("#.,%()- ", r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
