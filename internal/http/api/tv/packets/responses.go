package packets

import "github.com/Nixie-Tech-LLC/marquee/internal/presentation"

// RESPONSES FOR /api/tv/screens/*

type StateResponse struct {
	ScreenID int                             `json:"screen_id"`
	ETag     string                          `json:"etag,omitempty"`
	Phases   map[int]presentation.PhaseState `json:"phases"`
}

type ReloadResponse struct {
	ScreenID int  `json:"screen_id"`
	Reloaded bool `json:"reloaded"`
}

type PlaybackEndedResponse struct {
	Accepted bool `json:"accepted"`
}

type PingResponse struct {
	Status string `json:"status"`
}
