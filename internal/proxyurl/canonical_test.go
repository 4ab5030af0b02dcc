package proxyurl

import "testing"

func TestFormatURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"self sentinel", "self", ""},
		{"default sentinel", "default", ""},
		{"nsfw sentinel", "nsfw", ""},
		{"spoiler sentinel", "spoiler", ""},
		{"image", "https://i.redd.it/foobar.jpg", "/img/foobar.jpg"},
		{"video dash", "https://v.redd.it/foo/DASH_360.mp4?source=fallback", "/vid/foo/360.mp4"},
		{"video dash without extension", "https://v.redd.it/foo/DASH_1080", "/vid/foo/1080"},
		{"video hls", "https://v.redd.it/foo/HLSPlaylist.m3u8?a=bar&v=1&f=sd", "/hls/foo/HLSPlaylist.m3u8?a=bar&v=1&f=sd"},
		{"video unknown shape", "https://v.redd.it/foo/audio.mp4", ""},
		{"thumb a", "https://a.thumbs.redditmedia.com/XYZ.jpg", "/thumb/a/XYZ.jpg"},
		{"thumb b", "https://b.thumbs.redditmedia.com/XYZ.jpg", "/thumb/b/XYZ.jpg"},
		{"emoji", "https://emoji.redditmedia.com/a/b", "/emoji/a/b"},
		{"emoji missing segment", "https://emoji.redditmedia.com/a", ""},
		{"preview", "https://preview.redd.it/qwerty.jpg?auto=webp&s=asdf", "/preview/pre/qwerty.jpg?auto=webp&s=asdf"},
		{"external preview", "https://external-preview.redd.it/foo.jpg?auto=webp&s=bar", "/preview/external-pre/foo.jpg?auto=webp&s=bar"},
		{"styles", "https://styles.redditmedia.com/t5_2qh1i/styles/communityIcon.png", "/style/t5_2qh1i/styles/communityIcon.png"},
		{"static", "https://www.redditstatic.com/gold/awards/icon/icon.png", "/static/gold/awards/icon/icon.png"},
		{"static emote", "https://www.redditstatic.com/marketplace-assets/v1/core/emotes/snoomoji_emotes/free_emotes_pack/shrug.gif", "/static/marketplace-assets/v1/core/emotes/snoomoji_emotes/free_emotes_pack/shrug.gif"},
		{"www site", "https://www.reddit.com/r/golang/comments/abc/title/", "/r/golang/comments/abc/title/"},
		{"old site", "https://old.reddit.com/r/golang", "/r/golang"},
		{"np site", "http://np.reddit.com/u/someone", "/u/someone"},
		{"bare site", "https://reddit.com/r/golang", "/r/golang"},
		{"external passthrough", "https://example.com/a.png", "https://example.com/a.png"},
		{"relative passthrough", "/r/golang", "/r/golang"},
		{"bad escape on proxied host", "https://i.redd.it/%zz", "/img/%zz"},
		{"stray percent on proxied host", "https://i.redd.it/100%.jpg", "/img/100%.jpg"},
		{"stray percent after video", "https://v.redd.it/abc/DASH_720.mp4%", "/vid/abc/720.mp4"},
		{"bad escape on proxied host without known shape", "https://emoji.redditmedia.com/%zz", ""},
		{"bad escape on external host", "https://example.com/%zz", "https://example.com/%zz"},
		{"bad escape without host", "%zz", "%zz"},
		{"host is case insensitive", "https://I.REDD.IT/foobar.jpg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatURL(tt.in); got != tt.want {
				t.Errorf("FormatURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsProxiedHost(t *testing.T) {
	if !IsProxiedHost("v.redd.it") {
		t.Error("v.redd.it should be proxied")
	}
	if IsProxiedHost("example.com") {
		t.Error("example.com should not be proxied")
	}
}
