package domain

import (
	"github.com/blackmichael/redproxy/internal/proxyurl"
	"github.com/blackmichael/redproxy/internal/rawjson"
)

// Post types.
const (
	PostTypeImage   = "image"
	PostTypeGIF     = "gif"
	PostTypeVideo   = "video"
	PostTypeGallery = "gallery"
	PostTypeSelf    = "self"
	PostTypeLink    = "link"
)

// imageCDN is the upstream's own image host.
const imageCDN = "i.redd.it"

// Media is the primary media of a post. Width, Height and Poster are zero
// when unknown.
type Media struct {
	URL    string `json:"url"`
	AltURL string `json:"alt_url"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
	Poster string `json:"poster"`
}

// GalleryMedia is one item of a gallery post.
type GalleryMedia struct {
	URL         string `json:"url"`
	Width       int64  `json:"width"`
	Height      int64  `json:"height"`
	Caption     string `json:"caption"`
	OutboundURL string `json:"outbound_url"`
}

// mediaSource is what a media rule extracts before URLs are canonicalized.
type mediaSource struct {
	postType string
	url      string
	altURL   string
	gallery  []GalleryMedia
}

// mediaRule is one step of the media priority chain.
type mediaRule struct {
	name    string
	match   func(data rawjson.Node) bool
	extract func(data rawjson.Node) mediaSource
}

// mediaRules are evaluated in order; the first match decides the post type.
// Posts matching none are links.
var mediaRules = []mediaRule{
	videoRule("video preview", "preview.reddit_video_preview"),
	videoRule("secure media", "secure_media.reddit_video"),
	videoRule("crosspost parent", "crosspost_parent_list.0.secure_media.reddit_video"),
	{
		name:    "image hint",
		match:   func(data rawjson.Node) bool { return data.Str("post_hint") == "image" },
		extract: extractHintedImage,
	},
	{
		name:  "self",
		match: func(data rawjson.Node) bool { return data.Bool("is_self") },
		extract: func(data rawjson.Node) mediaSource {
			return mediaSource{postType: PostTypeSelf, url: data.Str("permalink")}
		},
	},
	{
		name:  "gallery",
		match: func(data rawjson.Node) bool { return data.Bool("is_gallery") },
		extract: func(data rawjson.Node) mediaSource {
			return mediaSource{
				postType: PostTypeGallery,
				url:      data.Str("url"),
				gallery:  ParseGallery(data.Array("gallery_data.items"), data.Get("media_metadata")),
			}
		},
	},
	{
		name: "media domain image",
		match: func(data rawjson.Node) bool {
			return data.Bool("is_reddit_media_domain") && data.Str("domain") == imageCDN
		},
		extract: func(data rawjson.Node) mediaSource {
			return mediaSource{postType: PostTypeImage, url: data.Str("url")}
		},
	},
}

// videoRule matches a hosted video object at path with a non-empty fallback
// URL.
func videoRule(name, path string) mediaRule {
	return mediaRule{
		name: name,
		match: func(data rawjson.Node) bool {
			return data.Get(path).Str("fallback_url") != ""
		},
		extract: func(data rawjson.Node) mediaSource {
			video := data.Get(path)
			postType := PostTypeVideo
			if video.Bool("is_gif") {
				postType = PostTypeGIF
			}
			return mediaSource{
				postType: postType,
				url:      video.Str("fallback_url"),
				altURL:   video.Str("hls_url"),
			}
		},
	}
}

// extractHintedImage serves animated images from their mp4 variant. Still
// images come straight from the image CDN when hosted there, and from the
// preview otherwise.
func extractHintedImage(data rawjson.Node) mediaSource {
	preview := data.Get("preview.images.0")
	if mp4 := preview.Get("variants.mp4"); mp4.IsObject() {
		return mediaSource{postType: PostTypeGIF, url: mp4.Str("source.url")}
	}
	if data.Str("domain") == imageCDN {
		return mediaSource{postType: PostTypeImage, url: data.Str("url")}
	}
	return mediaSource{postType: PostTypeImage, url: preview.Str("source.url")}
}

// ResolveMedia determines the type of a post from its data object and
// returns its media and, for galleries, the gallery items. All URLs are
// canonicalized.
func ResolveMedia(data rawjson.Node) (postType string, media Media, gallery []GalleryMedia) {
	src := mediaSource{postType: PostTypeLink, url: data.Str("url")}
	for _, rule := range mediaRules {
		if rule.match(data) {
			src = rule.extract(data)
			break
		}
	}

	source := data.Get("preview.images.0.source")
	media = Media{
		URL:    proxyurl.FormatURL(src.url),
		AltURL: proxyurl.FormatURL(src.altURL),
		Width:  source.Int("width"),
		Height: source.Int("height"),
		Poster: proxyurl.FormatURL(source.Str("url")),
	}

	gallery = src.gallery
	if gallery == nil {
		gallery = []GalleryMedia{}
	}
	return src.postType, media, gallery
}

// ParseGallery resolves each gallery item against the media metadata map,
// keeping item order. Animated items use the metadata's gif URL.
func ParseGallery(items []rawjson.Node, metadata rawjson.Node) []GalleryMedia {
	gallery := make([]GalleryMedia, 0, len(items))
	for _, item := range items {
		meta := metadata.Key(item.Str("media_id"))
		image := meta.Get("s")

		url := image.Str("u")
		if meta.Str("m") == "image/gif" {
			url = image.Str("gif")
		}

		gallery = append(gallery, GalleryMedia{
			URL:         proxyurl.FormatURL(url),
			Width:       image.Int("x"),
			Height:      image.Int("y"),
			Caption:     item.Str("caption"),
			OutboundURL: item.Str("outbound_url"),
		})
	}
	return gallery
}
