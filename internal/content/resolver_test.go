package content

import (
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/marquee/internal/model"
)

func s(v string) *string { return &v }
func i(v int) *int       { return &v }

func TestDisplayTitlePrefersText(t *testing.T) {
	items := []model.ContentItem{
		{ID: 1, ZoneID: 7, ContentType: model.ContentImage, ImageURL: s("burger.jpg"), Title: s("Image title"), Price: s("9.90")},
		{ID: 2, ZoneID: 7, ContentType: model.ContentText, Title: s("Text title")},
	}
	r := Resolve(7, items)
	require.NotNil(t, r.DisplayTitle)
	assert.Equal(t, "Text title", *r.DisplayTitle)
	require.NotNil(t, r.DisplayPrice)
	assert.Equal(t, "9.90", *r.DisplayPrice, "price falls through to the image")

	items[1].Title = s("  ")
	r = Resolve(7, items)
	assert.Equal(t, "Image title", *r.DisplayTitle)

	items[1].Title = nil
	r = Resolve(7, items)
	assert.Equal(t, "Image title", *r.DisplayTitle)
}

func TestDisplayTitleDrinkBeforeImage(t *testing.T) {
	r := Resolve(1, []model.ContentItem{
		{ID: 1, ZoneID: 1, ContentType: model.ContentImage, Title: s("Image")},
		{ID: 2, ZoneID: 1, ContentType: model.ContentDrink, Title: s("Cola"), Price: s("2.50")},
	})
	assert.Equal(t, "Cola", *r.DisplayTitle)
	assert.Equal(t, "2.50", *r.DisplayPrice)
}

func TestDisplayFieldsOmittedWhenAbsent(t *testing.T) {
	r := Resolve(1, []model.ContentItem{{ID: 1, ZoneID: 1, ContentType: model.ContentImage, ImageURL: s("x.png")}})
	assert.Nil(t, r.DisplayTitle)
	assert.Nil(t, r.DisplayPrice)
}

func TestResolveFiltersZoneAndRoles(t *testing.T) {
	items := []model.ContentItem{
		{ID: 1, ZoneID: 2, ContentType: model.ContentImage, ImageURL: s("other-zone.jpg")},
		{ID: 2, ZoneID: 1, ContentType: model.ContentImage, ImageURL: s("promo.MP4?v=2")},
		{ID: 3, ZoneID: 1, ContentType: model.ContentImage, ImageURL: s("still.jpg")},
		{ID: 4, ZoneID: 1, ContentType: model.ContentCampaignBadge, CampaignText: s("NEW")},
		{ID: 5, ZoneID: 1, ContentType: "hologram"},
		{ID: 6, ZoneID: 1, ContentType: model.ContentRegionalMenu},
	}
	r := Resolve(1, items)
	require.NotNil(t, r.Video)
	assert.Equal(t, 2, r.Video.ID, "image-tagged video file is classified as video")
	require.NotNil(t, r.Image)
	assert.Equal(t, 3, r.Image.ID)
	assert.Equal(t, 4, r.Badge.ID)
	assert.Equal(t, 6, r.RegionalMenu.ID)
	assert.Nil(t, r.Text)
	assert.Equal(t, r.Video, r.Primary())
	assert.False(t, r.Empty())
}

func TestResolveTieBreak(t *testing.T) {
	items := []model.ContentItem{
		{ID: 9, ZoneID: 1, ContentType: model.ContentText, Title: s("unordered")},
		{ID: 5, ZoneID: 1, ContentType: model.ContentText, Title: s("second"), SortOrder: i(2)},
		{ID: 8, ZoneID: 1, ContentType: model.ContentText, Title: s("first"), SortOrder: i(1)},
	}
	assert.Equal(t, 8, Resolve(1, items).Text.ID)

	items[1].SortOrder, items[2].SortOrder = nil, nil
	assert.Equal(t, 5, Resolve(1, items).Text.ID, "lowest id wins without sort order")
}

func TestResolveEmptyZone(t *testing.T) {
	r := Resolve(3, nil)
	assert.True(t, r.Empty())
	assert.Nil(t, r.Primary())
	assert.Nil(t, r.Active())
}

func TestPlaceholderTitlesSuppressed(t *testing.T) {
	r := Resolve(1, []model.ContentItem{
		{ID: 1, ZoneID: 1, ContentType: model.ContentText, Title: s("Lorem ipsum dolor")},
		{ID: 2, ZoneID: 1, ContentType: model.ContentImage, Title: s("Menu of the day")},
	})
	assert.Equal(t, "Menu of the day", *r.DisplayTitle)
}

func TestResolveBackground(t *testing.T) {
	zone := model.Zone{ID: 1, StyleConfig: types.JSONText(`{"backgroundColor":"#ff0000"}`)}
	items := []model.ContentItem{{ID: 1, ZoneID: 1, ContentType: model.ContentText, BackgroundColor: s("#00ff00")}}

	bg := ResolveBackground(zone, Resolve(1, items))
	assert.Equal(t, "#ff0000", bg.Color)
	assert.False(t, bg.Empty)
	assert.Empty(t, bg.Border)

	zone.StyleConfig = types.JSONText(`{"backgroundColor":"#000000"}`)
	assert.Equal(t, "#00ff00", ResolveBackground(zone, Resolve(1, items)).Color, "black zone color is unset")

	items[0].BackgroundColor = s("black")
	assert.Equal(t, DefaultBackground, ResolveBackground(zone, Resolve(1, items)).Color)

	items[0].BackgroundColor = nil
	items[0].StyleConfig = types.JSONText(`{"backgroundColor":"#123456"}`)
	assert.Equal(t, "#123456", ResolveBackground(zone, Resolve(1, items)).Color)
}

func TestResolveBackgroundEmptyZone(t *testing.T) {
	bg := ResolveBackground(model.Zone{ID: 1, StyleConfig: types.JSONText(`{not json`)}, Resolve(1, nil))
	assert.True(t, bg.Empty)
	assert.Equal(t, EmptyBackground, bg.Color)
	assert.Equal(t, EmptyBorder, bg.Border)
}
