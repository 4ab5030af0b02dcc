// Package proxyurl rewrites upstream media and link URLs into local proxy
// paths so that no third-party host is ever handed to the client.
package proxyurl

import (
	"net/url"
	"regexp"
	"strings"
)

// rule maps one URL shape on a proxied domain to a local path prefix. The
// captured groups are appended to the prefix, joined by "/".
type rule struct {
	pattern *regexp.Regexp
	prefix  string
	groups  int
}

func (r rule) apply(raw string) string {
	m := r.pattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	switch r.groups {
	case 1:
		return r.prefix + m[1]
	case 2:
		return r.prefix + m[1] + "/" + m[2]
	default:
		return ""
	}
}

// domainRules is keyed by lowercase host. Rules for a host are tried in
// order and the first non-empty rewrite wins.
var domainRules = map[string][]rule{
	"www.reddit.com": {{regexp.MustCompile(`https?://www\.reddit\.com/(.*)`), "/", 1}},
	"old.reddit.com": {{regexp.MustCompile(`https?://old\.reddit\.com/(.*)`), "/", 1}},
	"np.reddit.com":  {{regexp.MustCompile(`https?://np\.reddit\.com/(.*)`), "/", 1}},
	"reddit.com":     {{regexp.MustCompile(`https?://reddit\.com/(.*)`), "/", 1}},
	"v.redd.it": {
		{regexp.MustCompile(`https?://v\.redd\.it/(.*)/DASH_([0-9]{2,4}(\.mp4|$|\?source=fallback))`), "/vid/", 2},
		{regexp.MustCompile(`https?://v\.redd\.it/(.+)/(HLSPlaylist\.m3u8.*)$`), "/hls/", 2},
	},
	"i.redd.it":                {{regexp.MustCompile(`https?://i\.redd\.it/(.*)`), "/img/", 1}},
	"a.thumbs.redditmedia.com": {{regexp.MustCompile(`https?://a\.thumbs\.redditmedia\.com/(.*)`), "/thumb/a/", 1}},
	"b.thumbs.redditmedia.com": {{regexp.MustCompile(`https?://b\.thumbs\.redditmedia\.com/(.*)`), "/thumb/b/", 1}},
	"emoji.redditmedia.com":    {{regexp.MustCompile(`https?://emoji\.redditmedia\.com/(.*)/(.*)`), "/emoji/", 2}},
	"preview.redd.it":          {{regexp.MustCompile(`https?://preview\.redd\.it/(.*)`), "/preview/pre/", 1}},
	"external-preview.redd.it": {{regexp.MustCompile(`https?://external-preview\.redd\.it/(.*)`), "/preview/external-pre/", 1}},
	"styles.redditmedia.com":   {{regexp.MustCompile(`https?://styles\.redditmedia\.com/(.*)`), "/style/", 1}},
	"www.redditstatic.com":     {{regexp.MustCompile(`https?://www\.redditstatic\.com/(.*)`), "/static/", 1}},
}

// hostPrefix reads the host of absolute URLs that url.Parse rejects, such
// as paths containing a stray "%".
var hostPrefix = regexp.MustCompile(`^(?i)https?://([^/?#:@]+)`)

// hostOf returns the host of raw. ok is false when no host can be found.
func hostOf(raw string) (host string, ok bool) {
	if u, err := url.Parse(raw); err == nil {
		return u.Hostname(), true
	}
	if m := hostPrefix.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	return "", false
}

// FormatURL maps an upstream URL to its local proxy path.
//
// Empty input and the sentinels "self", "default", "nsfw" and "spoiler"
// yield "". URLs on hosts that are not proxied, and strings with no
// readable host, are returned unchanged. A URL on a proxied host that
// matches none of that host's known shapes yields "" so the upstream host
// never leaks, even when the rest of the URL is malformed.
func FormatURL(raw string) string {
	switch raw {
	case "", "self", "default", "nsfw", "spoiler":
		return ""
	}

	host, ok := hostOf(raw)
	if !ok || !IsProxiedHost(host) {
		return raw
	}
	for _, r := range domainRules[strings.ToLower(host)] {
		if out := r.apply(raw); out != "" {
			return out
		}
	}
	return ""
}

// IsProxiedHost reports whether URLs on host are rewritten by FormatURL.
func IsProxiedHost(host string) bool {
	_, ok := domainRules[strings.ToLower(host)]
	return ok
}
