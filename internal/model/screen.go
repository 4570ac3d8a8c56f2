package model

// Screen is a presentation target. Records are owned by the admin side and
// are read only here.
type Screen struct {
	ID                  int     `db:"id"                          json:"id"`
	DeviceID            *string `db:"device_id"                   json:"device_id,omitempty"`
	Name                string  `db:"name"                        json:"name"`
	FrameType           *string `db:"frame_type"                  json:"frame_type,omitempty"`
	TickerText          *string `db:"ticker_text"                 json:"ticker_text,omitempty"`
	TransitionEffect    *string `db:"template_transition_effect"  json:"template_transition_effect,omitempty"`
	AnimationDurationMs *int    `db:"animation_duration_ms"       json:"animation_duration_ms,omitempty"`
}
