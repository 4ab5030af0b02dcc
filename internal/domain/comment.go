package domain

import (
	"strings"

	"github.com/blackmichael/redproxy/internal/proxyurl"
	"github.com/blackmichael/redproxy/internal/rawjson"
)

// Comment is a normalized comment and its reply tree. Kind "more" marks a
// placeholder for replies the upstream did not include; MoreCount says how
// many.
type Comment struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	ParentID    string    `json:"parent_id"`
	ParentKind  string    `json:"parent_kind"`
	PostLink    string    `json:"post_link"`
	PostAuthor  string    `json:"post_author"`
	Body        string    `json:"body"`
	Author      Author    `json:"author"`
	Score       Count     `json:"score"`
	RelTime     string    `json:"rel_time"`
	Created     string    `json:"created"`
	Edited      Timestamp `json:"edited"`
	Replies     []Comment `json:"replies"`
	Highlighted bool      `json:"highlighted"`
	Awards      Awards    `json:"awards"`
	Collapsed   bool      `json:"collapsed"`
	IsFiltered  bool      `json:"is_filtered"`
	MoreCount   int64     `json:"more_count"`
}

// CommentOptions carries the thread context shared by every comment.
type CommentOptions struct {
	ParseOptions

	// PostLink is the permalink of the post the comments belong to.
	PostLink string
	// PostAuthor is the name of the post's author.
	PostAuthor string
	// Highlighted is the id of the comment the thread was opened at.
	Highlighted string
	// Filters holds "u_<name>" entries whose comments are filtered.
	Filters map[string]struct{}
}

// ParseComments builds the comment tree of a listing
// ({"data": {"children": [...]}}).
func ParseComments(listing rawjson.Node, opts CommentOptions) []Comment {
	children := listing.Array("data.children")
	comments := make([]Comment, 0, len(children))
	for _, child := range children {
		comments = append(comments, parseComment(child, opts))
	}
	return comments
}

func parseComment(comment rawjson.Node, opts CommentOptions) Comment {
	data := comment.Get("data")
	id := data.Str("id")

	var replies []Comment
	if r := data.Get("replies"); r.IsObject() {
		replies = ParseComments(r, opts)
	} else {
		replies = []Comment{}
	}

	var edited Timestamp
	if ts, ok := data.LookupFloat("edited"); ok {
		edited = NewTimestamp(ts)
	}

	score := NewCount(data.Int("score"))
	if data.Bool("score_hidden") {
		score = hiddenScore
	}

	parentKind, parentID := splitFullname(data.Str("parent_id"))
	author := parseAuthor(data)
	_, isFiltered := opts.Filters["u_"+author.Name]
	stickyModComment := data.Str("distinguished") == "moderator" && data.Bool("stickied")
	created := NewTimestamp(data.Float("created_utc"))

	return Comment{
		ID:          id,
		Kind:        comment.Str("kind"),
		ParentID:    parentID,
		ParentKind:  parentKind,
		PostLink:    opts.PostLink,
		PostAuthor:  opts.PostAuthor,
		Body:        commentBody(data, id, opts),
		Author:      author,
		Score:       score,
		RelTime:     created.Relative,
		Created:     created.Absolute,
		Edited:      edited,
		Replies:     replies,
		Highlighted: id != "" && id == opts.Highlighted,
		Awards:      ParseAwards(data.Array("all_awardings")),
		Collapsed:   isFiltered || stickyModComment,
		IsFiltered:  isFiltered,
		MoreCount:   data.Int("count"),
	}
}

func commentBody(data rawjson.Node, id string, opts CommentOptions) string {
	body := data.Str("body")
	removed := (data.Str("author") == "[deleted]" && body == "[removed]") || body == "[ Removed by Reddit ]"
	if removed {
		return removedNotice(opts.removedFrontend(), opts.PostLink+id, "comment")
	}
	return proxyurl.RewriteURLs(data.Str("body_html"))
}

// splitFullname splits a "t1_abc" style name into its kind and id. Names
// without a kind prefix are returned as the id.
func splitFullname(name string) (kind, id string) {
	kind, id, ok := strings.Cut(name, "_")
	if !ok {
		return "", name
	}
	return kind, id
}
