package domain

import (
	"github.com/blackmichael/redproxy/internal/proxyurl"
	"github.com/blackmichael/redproxy/internal/rawjson"
)

// Flair part kinds.
const (
	FlairPartText  = "text"
	FlairPartEmoji = "emoji"
)

// FlairPart is one rendered piece of a flair: a run of text or an emoji
// image path.
type FlairPart struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Flair is a user or post label with its colors. An empty Parts slice means
// no flair.
type Flair struct {
	Parts           []FlairPart `json:"parts"`
	Text            string      `json:"text"`
	BackgroundColor string      `json:"background_color"`
	ForegroundColor string      `json:"foreground_color"`
}

// ParseFlairParts reads the flair stored under prefix ("link_flair" or
// "author_flair") in a post or comment data object. Rich flairs are split
// into their text and emoji parts; plain flairs become a single text part.
func ParseFlairParts(data rawjson.Node, prefix string) []FlairPart {
	switch data.Str(prefix + "_type") {
	case "richtext":
		rich := data.Array(prefix + "_richtext")
		parts := make([]FlairPart, 0, len(rich))
		for _, part := range rich {
			switch kind := part.Str("e"); kind {
			case FlairPartText:
				parts = append(parts, FlairPart{Kind: kind, Value: part.Str("t")})
			case FlairPartEmoji:
				parts = append(parts, FlairPart{Kind: kind, Value: proxyurl.FormatURL(part.Str("u"))})
			}
		}
		return parts
	case "text":
		if text, ok := data.LookupStr(prefix + "_text"); ok {
			return []FlairPart{{Kind: FlairPartText, Value: text}}
		}
	}
	return []FlairPart{}
}

// parseLinkFlair builds a post flair. Its text color is black when the
// upstream marks it dark and white otherwise.
func parseLinkFlair(data rawjson.Node) Flair {
	fg := "white"
	if data.Str("link_flair_text_color") == "dark" {
		fg = "black"
	}
	return Flair{
		Parts:           ParseFlairParts(data, "link_flair"),
		Text:            data.Str("link_flair_text"),
		BackgroundColor: data.Str("link_flair_background_color"),
		ForegroundColor: fg,
	}
}

// parseAuthor builds the author of a post or comment. Author flair colors
// are kept as the upstream sends them.
func parseAuthor(data rawjson.Node) Author {
	return Author{
		Name: data.Str("author"),
		Flair: Flair{
			Parts:           ParseFlairParts(data, "author_flair"),
			Text:            data.Str("author_flair_text"),
			BackgroundColor: data.Str("author_flair_background_color"),
			ForegroundColor: data.Str("author_flair_text_color"),
		},
		Distinguished: data.Str("distinguished"),
	}
}
