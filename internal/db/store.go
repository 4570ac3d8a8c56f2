// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/marquee/internal/model"
)

// Store is the read side the player needs. Screens, zones and content are
// authored elsewhere.
type Store interface {
	GetScreenByID(ctx context.Context, id int) (model.Screen, error)
	GetScreenByDeviceID(ctx context.Context, deviceID string) (model.Screen, error)
	ListZones(ctx context.Context, screenID int) ([]model.Zone, error)
	ListContent(ctx context.Context, screenID int) ([]model.ContentItem, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
