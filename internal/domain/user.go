package domain

import (
	"strings"

	"github.com/blackmichael/redproxy/internal/format"
	"github.com/blackmichael/redproxy/internal/proxyurl"
	"github.com/blackmichael/redproxy/internal/rawjson"
)

// User is a user profile.
type User struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Karma       int64  `json:"karma"`
	Created     string `json:"created"`
	Banner      string `json:"banner"`
	Description string `json:"description"`
	NSFW        bool   `json:"nsfw"`
}

// ParseUser builds a User from an about.json response.
func ParseUser(about rawjson.Node) User {
	data := about.Get("data")
	profile := data.Get("subreddit")

	return User{
		Name:        data.Str("name"),
		Title:       profile.Str("title"),
		Icon:        proxyurl.FormatURL(profile.Str("icon_img")),
		Karma:       data.Int("total_karma"),
		Created:     format.ShortDate(data.Float("created_utc")),
		Banner:      proxyurl.FormatURL(profile.Str("banner_img")),
		Description: profile.Str("public_description"),
		NSFW:        profile.Bool("over_18"),
	}
}

// Subreddit is community metadata.
type Subreddit struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Info        string `json:"info"`
	Icon        string `json:"icon"`
	Members     Count  `json:"members"`
	Active      Count  `json:"active"`
	Wiki        bool   `json:"wiki"`
	NSFW        bool   `json:"nsfw"`
}

// ParseSubreddit builds a Subreddit from an about.json response. The
// community icon is preferred over the legacy icon and loses its query
// string.
func ParseSubreddit(about rawjson.Node) Subreddit {
	data := about.Get("data")

	icon, _, _ := strings.Cut(data.Str("community_icon"), "?")
	if icon == "" {
		icon = data.Str("icon_img")
	}

	active, ok := data.LookupFloat("accounts_active")
	if !ok {
		active = data.Float("active_user_count")
	}

	return Subreddit{
		Name:        data.Str("display_name"),
		Title:       data.Str("title"),
		Description: data.Str("public_description"),
		Info:        proxyurl.RewriteURLs(data.Str("description_html")),
		Icon:        proxyurl.FormatURL(icon),
		Members:     NewCount(int64(data.Float("subscribers"))),
		Active:      NewCount(int64(active)),
		Wiki:        data.Bool("wiki_enabled"),
		NSFW:        data.Bool("over18"),
	}
}
