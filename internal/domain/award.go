package domain

import (
	"github.com/blackmichael/redproxy/internal/proxyurl"
	"github.com/blackmichael/redproxy/internal/rawjson"
)

// Award is an award given to a post or comment.
type Award struct {
	Name        string `json:"name"`
	IconURL     string `json:"icon_url"`
	Description string `json:"description"`
	Count       int64  `json:"count"`
}

// Awards is an ordered list of awards.
type Awards []Award

// ParseAwards reads an all_awardings array. A count that is missing, not an
// integer, or negative is read as 1.
func ParseAwards(items []rawjson.Node) Awards {
	awards := make(Awards, 0, len(items))
	for _, item := range items {
		count, ok := item.LookupInt("count")
		if !ok || count < 0 {
			count = 1
		}
		awards = append(awards, Award{
			Name:        item.Str("name"),
			IconURL:     proxyurl.FormatURL(item.Str("resized_icons.0.url")),
			Description: item.Str("description"),
			Count:       count,
		})
	}
	return awards
}
