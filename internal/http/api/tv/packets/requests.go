package packets

// REQUESTS FOR /api/tv/screens/*

// PlaybackEndedRequest reports that a video finished playing. URL is the
// source the player had on screen; empty skips the staleness check.
type PlaybackEndedRequest struct {
	URL string `json:"url"`
}
