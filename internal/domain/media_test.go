package domain

import (
	"testing"

	"github.com/blackmichael/redproxy/internal/rawjson"
)

func TestResolveMedia(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantType string
		wantURL  string
		wantAlt  string
	}{
		{
			name: "video preview wins over everything",
			data: `{
				"url": "https://i.redd.it/a.jpg",
				"post_hint": "image",
				"is_self": true,
				"preview": {"reddit_video_preview": {"fallback_url": "https://v.redd.it/abc/DASH_720.mp4?source=fallback", "hls_url": "https://v.redd.it/abc/HLSPlaylist.m3u8?a=1"}},
				"secure_media": {"reddit_video": {"fallback_url": "https://v.redd.it/other/DASH_360.mp4"}}
			}`,
			wantType: PostTypeVideo,
			wantURL:  "/vid/abc/720.mp4",
			wantAlt:  "/hls/abc/HLSPlaylist.m3u8?a=1",
		},
		{
			name:     "secure media video",
			data:     `{"secure_media": {"reddit_video": {"fallback_url": "https://v.redd.it/abc/DASH_1080.mp4?source=fallback"}}}`,
			wantType: PostTypeVideo,
			wantURL:  "/vid/abc/1080.mp4",
		},
		{
			name:     "secure media gif",
			data:     `{"secure_media": {"reddit_video": {"fallback_url": "https://v.redd.it/abc/DASH_480.mp4", "is_gif": true}}}`,
			wantType: PostTypeGIF,
			wantURL:  "/vid/abc/480.mp4",
		},
		{
			name:     "crosspost parent video",
			data:     `{"crosspost_parent_list": [{"secure_media": {"reddit_video": {"fallback_url": "https://v.redd.it/xp/DASH_240.mp4"}}}]}`,
			wantType: PostTypeVideo,
			wantURL:  "/vid/xp/240.mp4",
		},
		{
			name:     "empty fallback url is not a video",
			data:     `{"url": "https://example.com/page", "secure_media": {"reddit_video": {"fallback_url": ""}}}`,
			wantType: PostTypeLink,
			wantURL:  "https://example.com/page",
		},
		{
			name: "hinted animated image uses mp4 variant",
			data: `{
				"post_hint": "image",
				"domain": "i.redd.it",
				"url": "https://i.redd.it/anim.gif",
				"preview": {"images": [{"source": {"url": "https://preview.redd.it/anim.gif?s=1"}, "variants": {"mp4": {"source": {"url": "https://preview.redd.it/anim.gif?format=mp4&s=2"}}}}]}
			}`,
			wantType: PostTypeGIF,
			wantURL:  "/preview/pre/anim.gif?format=mp4&s=2",
		},
		{
			name: "hinted still image on cdn",
			data: `{
				"post_hint": "image",
				"domain": "i.redd.it",
				"url": "https://i.redd.it/still.jpg",
				"preview": {"images": [{"source": {"url": "https://preview.redd.it/still.jpg?s=1"}}]}
			}`,
			wantType: PostTypeImage,
			wantURL:  "/img/still.jpg",
		},
		{
			name: "hinted still image elsewhere uses preview",
			data: `{
				"post_hint": "image",
				"domain": "imgur.com",
				"url": "https://imgur.com/x.jpg",
				"preview": {"images": [{"source": {"url": "https://external-preview.redd.it/x.jpg?s=1"}}]}
			}`,
			wantType: PostTypeImage,
			wantURL:  "/preview/external-pre/x.jpg?s=1",
		},
		{
			name:     "self post",
			data:     `{"is_self": true, "permalink": "/r/golang/comments/abc/title/", "url": "https://www.reddit.com/r/golang/comments/abc/title/"}`,
			wantType: PostTypeSelf,
			wantURL:  "/r/golang/comments/abc/title/",
		},
		{
			name:     "media domain image",
			data:     `{"is_reddit_media_domain": true, "domain": "i.redd.it", "url": "https://i.redd.it/plain.png"}`,
			wantType: PostTypeImage,
			wantURL:  "/img/plain.png",
		},
		{
			name:     "link",
			data:     `{"url": "https://example.com/article"}`,
			wantType: PostTypeLink,
			wantURL:  "https://example.com/article",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postType, media, gallery := ResolveMedia(rawjson.MustParse(tt.data))
			if postType != tt.wantType {
				t.Errorf("type = %q, want %q", postType, tt.wantType)
			}
			if media.URL != tt.wantURL {
				t.Errorf("url = %q, want %q", media.URL, tt.wantURL)
			}
			if media.AltURL != tt.wantAlt {
				t.Errorf("alt url = %q, want %q", media.AltURL, tt.wantAlt)
			}
			if gallery == nil {
				t.Error("gallery should never be nil")
			}
		})
	}
}

func TestResolveMediaDimensions(t *testing.T) {
	data := rawjson.MustParse(`{
		"url": "https://example.com",
		"preview": {"images": [{"source": {"url": "https://preview.redd.it/p.jpg", "width": 640, "height": 480}}]}
	}`)
	_, media, _ := ResolveMedia(data)
	if media.Width != 640 || media.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", media.Width, media.Height)
	}
	if media.Poster != "/preview/pre/p.jpg" {
		t.Errorf("poster = %q", media.Poster)
	}

	_, media, _ = ResolveMedia(rawjson.MustParse(`{"url": "https://example.com"}`))
	if media.Width != 0 || media.Height != 0 || media.Poster != "" {
		t.Errorf("missing preview should give zero dimensions and no poster, got %+v", media)
	}
}

func TestResolveMediaGallery(t *testing.T) {
	data := rawjson.MustParse(`{
		"is_gallery": true,
		"url": "https://www.reddit.com/gallery/abc",
		"gallery_data": {"items": [
			{"media_id": "one", "caption": "first", "outbound_url": "https://example.com"},
			{"media_id": "two"},
			{"media_id": "missing"}
		]},
		"media_metadata": {
			"one": {"m": "image/jpg", "s": {"u": "https://preview.redd.it/one.jpg?s=1", "gif": "https://i.redd.it/ignored.gif", "x": 100, "y": 200}},
			"two": {"m": "image/gif", "s": {"u": "https://preview.redd.it/two.gif?s=1", "gif": "https://i.redd.it/two.gif", "x": 300, "y": 400}}
		}
	}`)

	postType, media, gallery := ResolveMedia(data)
	if postType != PostTypeGallery {
		t.Fatalf("type = %q, want gallery", postType)
	}
	if media.URL != "/gallery/abc" {
		t.Errorf("url = %q, want /gallery/abc", media.URL)
	}
	if len(gallery) != 3 {
		t.Fatalf("gallery len = %d, want 3", len(gallery))
	}

	want := []GalleryMedia{
		{URL: "/preview/pre/one.jpg?s=1", Width: 100, Height: 200, Caption: "first", OutboundURL: "https://example.com"},
		{URL: "/img/two.gif", Width: 300, Height: 400},
		{},
	}
	for i := range want {
		if gallery[i] != want[i] {
			t.Errorf("gallery[%d] = %+v, want %+v", i, gallery[i], want[i])
		}
	}
}
