package model

import "github.com/jmoiron/sqlx/types"

// ContentType is the semantic role tag of a content item.
type ContentType string

const (
	ContentImage         ContentType = "image"
	ContentVideo         ContentType = "video"
	ContentText          ContentType = "text"
	ContentCampaignBadge ContentType = "campaign_badge"
	ContentProductList   ContentType = "product_list"
	ContentSingleProduct ContentType = "single_product"
	ContentDrink         ContentType = "drink"
	ContentRegionalMenu  ContentType = "regional_menu"
)

// ContentItem belongs to exactly one zone.
type ContentItem struct {
	ID              int            `db:"id"               json:"id"`
	ZoneID          int            `db:"zone_id"          json:"zone_id"`
	ContentType     ContentType    `db:"content_type"     json:"content_type"`
	SortOrder       *int           `db:"sort_order"       json:"sort_order,omitempty"`
	ImageURL        *string        `db:"image_url"        json:"image_url,omitempty"`
	Title           *string        `db:"title"            json:"title,omitempty"`
	Price           *string        `db:"price"            json:"price,omitempty"`
	CampaignText    *string        `db:"campaign_text"    json:"campaign_text,omitempty"`
	BackgroundColor *string        `db:"background_color" json:"background_color,omitempty"`
	TextColor       *string        `db:"text_color"       json:"text_color,omitempty"`
	StyleConfig     types.JSONText `db:"style_config"     json:"style_config,omitempty"`
}

// URL returns the asset url or "" when unset.
func (c ContentItem) URL() string {
	return deref(c.ImageURL)
}

// Style parses the item's style configuration, see ParseStyleConfig.
func (c ContentItem) Style() StyleConfig {
	return ParseStyleConfig(c.StyleConfig)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
