package presentation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Nixie-Tech-LLC/marquee/internal/content"
	"github.com/Nixie-Tech-LLC/marquee/internal/model"
	"github.com/Nixie-Tech-LLC/marquee/internal/rotation"
	"github.com/Nixie-Tech-LLC/marquee/internal/transition"
)

// mount is a live scheduler bound to one content item.
type mount struct {
	contentID   int
	fingerprint string
	sched       *rotation.Scheduler
	// items mirrors the scheduler's rotation so overlays can be looked up
	// by reported index.
	items []model.RotationItem
}

// rotationPlan is what a primary content item asks the engine to mount.
type rotationPlan struct {
	cfg         rotation.Config
	items       []model.RotationItem
	fingerprint string
}

// planRotation returns nil when the item declares no usable rotation.
func planRotation(item *model.ContentItem, def transition.Default) *rotationPlan {
	if item == nil || item.URL() == "" {
		return nil
	}
	style := item.Style()
	kind := rotation.KindImage
	payload := style.ImageRotation
	if content.IsVideo(*item) {
		kind = rotation.KindVideo
		payload = style.VideoRotation
	}
	if payload == nil {
		return nil
	}

	var items []model.RotationItem
	for _, it := range payload.RotationItems {
		if it.URL != "" {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return nil
	}

	cfg := rotation.Config{
		Kind:                      kind,
		FirstURL:                  item.URL(),
		FirstDurationSeconds:      payload.FirstAssetDurationSeconds.Or(0),
		FirstTransitionType:       payload.FirstAssetTransitionType,
		FirstTransitionDurationMs: optionalMs(payload.FirstAssetTransitionDuration),
		PlayOnce:                  style.PlayOnce,
		Loop:                      style.Loop != nil && *style.Loop,
		Default:                   def,
	}
	for _, it := range items {
		cfg.Items = append(cfg.Items, rotation.Item{
			URL:                  it.URL,
			DurationSeconds:      it.DurationSeconds.Or(0),
			TransitionType:       it.TransitionType,
			TransitionDurationMs: optionalMs(it.TransitionDuration),
		})
	}

	return &rotationPlan{cfg: cfg, items: items, fingerprint: fingerprint(cfg, items)}
}

// fingerprint identifies the rotation's content. Equal fingerprints keep
// the running scheduler across renders.
func fingerprint(cfg rotation.Config, items []model.RotationItem) string {
	b, err := json.Marshal(struct {
		Kind    rotation.Kind
		First   string
		Seconds float64
		FirstTT string
		FirstMs *int
		Once    bool
		Loop    bool
		Default transition.Default
		Items   []model.RotationItem
	}{cfg.Kind, cfg.FirstURL, cfg.FirstDurationSeconds, cfg.FirstTransitionType, cfg.FirstTransitionDurationMs,
		cfg.PlayOnce, cfg.Loop, cfg.Default, items})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func optionalMs(n model.Number) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Value)
	return &v
}
