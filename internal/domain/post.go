package domain

import (
	"fmt"

	"github.com/blackmichael/redproxy/internal/proxyurl"
	"github.com/blackmichael/redproxy/internal/rawjson"
)

// DefaultRemovedFrontend is the read-only mirror linked from removed posts
// and comments when none is configured.
const DefaultRemovedFrontend = "undelete.pullpush.io"

// Author is the author of a post or comment.
type Author struct {
	Name          string `json:"name"`
	Flair         Flair  `json:"flair"`
	Distinguished string `json:"distinguished"`
}

// Flags are the boolean markers of a post.
type Flags struct {
	NSFW     bool `json:"nsfw"`
	Stickied bool `json:"stickied"`
}

// Post is a normalized post. PostType is one of the PostType constants;
// gallery posts carry their items in Gallery, all others in Media.
type Post struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Community     string         `json:"community"`
	Body          string         `json:"body"`
	Author        Author         `json:"author"`
	Permalink     string         `json:"permalink"`
	Poll          *Poll          `json:"poll,omitempty"`
	Score         Count          `json:"score"`
	UpvoteRatio   int64          `json:"upvote_ratio"`
	PostType      string         `json:"post_type"`
	Flair         Flair          `json:"flair"`
	Flags         Flags          `json:"flags"`
	Thumbnail     Media          `json:"thumbnail"`
	Media         Media          `json:"media"`
	Domain        string         `json:"domain"`
	RelTime       string         `json:"rel_time"`
	Created       string         `json:"created"`
	NumDuplicates uint64         `json:"num_duplicates"`
	Comments      Count          `json:"comments"`
	Gallery       []GalleryMedia `json:"gallery"`
	Awards        Awards         `json:"awards"`
	NSFW          bool           `json:"nsfw"`
	WSURL         string         `json:"ws_url"`
}

// ParseOptions configures the entity builders.
type ParseOptions struct {
	// RemovedFrontend is the host of the mirror linked from removed content.
	RemovedFrontend string
}

func (o ParseOptions) removedFrontend() string {
	if o.RemovedFrontend == "" {
		return DefaultRemovedFrontend
	}
	return o.RemovedFrontend
}

// ParsePost builds a Post from a listing child ({"kind": "t3", "data": {...}}).
// Missing or mistyped fields fall back to zero values.
func ParsePost(post rawjson.Node, opts ParseOptions) Post {
	data := post.Get("data")

	created := NewTimestamp(data.Float("created_utc"))
	postType, media, gallery := ResolveMedia(data)
	permalink := data.Str("permalink")

	score := NewCount(data.Int("score"))
	if data.Bool("hide_score") {
		score = hiddenScore
	}

	nsfw := data.Bool("over_18")

	return Post{
		ID:          data.Str("id"),
		Title:       data.Str("title"),
		Community:   data.Str("subreddit"),
		Body:        postBody(data, permalink, opts),
		Author:      parseAuthor(data),
		Permalink:   permalink,
		Poll:        ParsePoll(data.Get("poll_data")),
		Score:       score,
		UpvoteRatio: int64(data.FloatOr("upvote_ratio", 1.0) * 100),
		PostType:    postType,
		Flair:       parseLinkFlair(data),
		Flags: Flags{
			NSFW:     nsfw,
			Stickied: data.Bool("stickied") || data.Bool("pinned"),
		},
		Thumbnail: Media{
			URL:    proxyurl.FormatURL(data.Str("thumbnail")),
			Width:  data.Int("thumbnail_width"),
			Height: data.Int("thumbnail_height"),
		},
		Media:         media,
		Domain:        data.Str("domain"),
		RelTime:       created.Relative,
		Created:       created.Absolute,
		NumDuplicates: data.Uint("num_duplicates"),
		Comments:      NewCount(data.Int("num_comments")),
		Gallery:       gallery,
		Awards:        ParseAwards(data.Array("all_awardings")),
		NSFW:          nsfw,
		WSURL:         data.Str("websocket_url"),
	}
}

// postBody prefers the rendered self text and falls back to the rendered
// comment body. Moderator-removed posts get a notice linking to the mirror.
func postBody(data rawjson.Node, permalink string, opts ParseOptions) string {
	if data.Str("removed_by_category") == "moderator" {
		return removedNotice(opts.removedFrontend(), permalink, "post")
	}
	if body := proxyurl.RewriteURLs(data.Str("selftext_html")); body != "" {
		return body
	}
	return proxyurl.RewriteURLs(data.Str("body_html"))
}

func removedNotice(frontend, path, what string) string {
	return fmt.Sprintf(`<div class="md"><p>[removed] — <a href="https://%s%s">view removed %s</a></p></div>`, frontend, path, what)
}
