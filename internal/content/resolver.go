// Package content picks the content items a zone shows and derives its
// display title, price and background.
package content

import (
	"path"
	"sort"
	"strings"

	"github.com/Nixie-Tech-LLC/marquee/internal/model"
)

// Roles holds at most one item per semantic role.
type Roles struct {
	Video         *model.ContentItem `json:"video,omitempty"`
	Image         *model.ContentItem `json:"image,omitempty"`
	Badge         *model.ContentItem `json:"campaign_badge,omitempty"`
	Text          *model.ContentItem `json:"text,omitempty"`
	ProductList   *model.ContentItem `json:"product_list,omitempty"`
	SingleProduct *model.ContentItem `json:"single_product,omitempty"`
	Drink         *model.ContentItem `json:"drink,omitempty"`
	RegionalMenu  *model.ContentItem `json:"regional_menu,omitempty"`
}

// Resolved is a zone's content after role selection.
type Resolved struct {
	ZoneID int `json:"zone_id"`
	Roles
	// DisplayTitle and DisplayPrice are nil when no role supplies one.
	DisplayTitle *string `json:"display_title,omitempty"`
	DisplayPrice *string `json:"display_price,omitempty"`
}

var videoExt = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true, ".m4v": true, ".ogv": true, ".avi": true, ".mkv": true,
}

// IsVideo reports whether an item plays as video: either tagged so, or an
// image-tagged item whose url points to a video file.
func IsVideo(c model.ContentItem) bool {
	switch c.ContentType {
	case model.ContentVideo:
		return true
	case model.ContentImage:
		u := strings.ToLower(c.URL())
		if i := strings.IndexAny(u, "?#"); i >= 0 {
			u = u[:i]
		}
		return videoExt[path.Ext(u)]
	}
	return false
}

// Resolve filters items to zoneID and keeps the first item of each role.
// Ties are broken deterministically by sort_order (unset last), then id.
func Resolve(zoneID int, items []model.ContentItem) Resolved {
	mine := make([]model.ContentItem, 0, len(items))
	for _, it := range items {
		if it.ZoneID == zoneID {
			mine = append(mine, it)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		a, b := mine[i], mine[j]
		switch {
		case a.SortOrder != nil && b.SortOrder != nil && *a.SortOrder != *b.SortOrder:
			return *a.SortOrder < *b.SortOrder
		case a.SortOrder != nil && b.SortOrder == nil:
			return true
		case a.SortOrder == nil && b.SortOrder != nil:
			return false
		}
		return a.ID < b.ID
	})

	r := Resolved{ZoneID: zoneID}
	take := func(dst **model.ContentItem, it model.ContentItem) {
		if *dst == nil {
			item := it
			*dst = &item
		}
	}
	for _, it := range mine {
		if IsVideo(it) {
			take(&r.Video, it)
			continue
		}
		switch it.ContentType {
		case model.ContentImage:
			take(&r.Image, it)
		case model.ContentCampaignBadge:
			take(&r.Badge, it)
		case model.ContentText:
			take(&r.Text, it)
		case model.ContentProductList:
			take(&r.ProductList, it)
		case model.ContentSingleProduct:
			take(&r.SingleProduct, it)
		case model.ContentDrink:
			take(&r.Drink, it)
		case model.ContentRegionalMenu:
			take(&r.RegionalMenu, it)
		}
	}

	chain := []*model.ContentItem{r.Text, r.Drink, r.Image}
	r.DisplayTitle = firstNonEmpty(chain, func(c *model.ContentItem) *string { return c.Title })
	r.DisplayPrice = firstNonEmpty(chain, func(c *model.ContentItem) *string { return c.Price })
	return r
}

func firstNonEmpty(chain []*model.ContentItem, field func(*model.ContentItem) *string) *string {
	for _, c := range chain {
		if c == nil {
			continue
		}
		v := field(c)
		if v == nil {
			continue
		}
		s := Sanitize(*v)
		if s == "" {
			continue
		}
		return &s
	}
	return nil
}

// Empty reports whether no role matched.
func (r Resolved) Empty() bool {
	for _, it := range r.all() {
		if it != nil {
			return false
		}
	}
	return true
}

// Primary is the zone's main asset: video wins over image.
func (r Resolved) Primary() *model.ContentItem {
	if r.Video != nil {
		return r.Video
	}
	return r.Image
}

// Active is the item whose colors drive the zone: the primary asset, else
// the first populated role.
func (r Resolved) Active() *model.ContentItem {
	for _, it := range r.all() {
		if it != nil {
			return it
		}
	}
	return nil
}

func (r Resolved) all() []*model.ContentItem {
	return []*model.ContentItem{
		r.Video, r.Image, r.Text, r.Drink, r.SingleProduct, r.ProductList, r.RegionalMenu, r.Badge,
	}
}
