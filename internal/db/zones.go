package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/marquee/internal/model"
)

func (s *pgStore) ListZones(ctx context.Context, screenID int) ([]model.Zone, error) {
	var zones []model.Zone
	err := s.db.SelectContext(ctx, &zones, `
		SELECT id, screen_id, zone_index, position_x, position_y, width, height,
		       COALESCE(style_config, '{}'::jsonb) AS style_config
		FROM zones
		WHERE screen_id = $1
		ORDER BY zone_index, id
		`, screenID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("[db] failed to list zones")
		return nil, err
	}
	return zones, nil
}

// ListContent returns the content items of every zone on the screen.
func (s *pgStore) ListContent(ctx context.Context, screenID int) ([]model.ContentItem, error) {
	var items []model.ContentItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT ci.id, ci.zone_id, ci.content_type, ci.sort_order, ci.image_url, ci.title,
		       ci.price, ci.campaign_text, ci.background_color, ci.text_color,
		       COALESCE(ci.style_config, '{}'::jsonb) AS style_config
		FROM content_items ci
		JOIN zones z ON z.id = ci.zone_id
		WHERE z.screen_id = $1
		ORDER BY ci.zone_id, ci.sort_order NULLS LAST, ci.id
		`, screenID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("[db] failed to list content items")
		return nil, err
	}
	return items, nil
}
