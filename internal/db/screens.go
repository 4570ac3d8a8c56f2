package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/marquee/internal/model"
)

const screenColumns = `
	id, device_id, name, frame_type, ticker_text,
	template_transition_effect, animation_duration_ms`

func (s *pgStore) GetScreenByID(ctx context.Context, id int) (model.Screen, error) {
	var screen model.Screen
	err := s.db.GetContext(ctx, &screen, `SELECT`+screenColumns+`
		FROM screens
		WHERE id = $1
		`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Screen{}, fmt.Errorf("screen %d: %w", id, ErrNotFound)
	}
	if err != nil {
		log.Error().Err(err).Int("screen_id", id).Msg("[db] failed to get screen by id")
		return model.Screen{}, err
	}
	return screen, nil
}

func (s *pgStore) GetScreenByDeviceID(ctx context.Context, deviceID string) (model.Screen, error) {
	var screen model.Screen
	err := s.db.GetContext(ctx, &screen, `SELECT`+screenColumns+`
		FROM screens
		WHERE device_id = $1
		`, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Screen{}, fmt.Errorf("device %q: %w", deviceID, ErrNotFound)
	}
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("[db] failed to get screen by device id")
		return model.Screen{}, err
	}
	return screen, nil
}
