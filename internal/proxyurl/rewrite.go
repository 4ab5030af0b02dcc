package proxyurl

import (
	"regexp"
	"strings"
)

var (
	// siteLinkPattern matches anchors pointing at the upstream site itself.
	siteLinkPattern = regexp.MustCompile(`href="(https|http|)://(www\.|old\.|np\.|amp\.|new\.|)(reddit\.com|redd\.it)/`)

	staticAssetPattern = regexp.MustCompile(`https?://(?:www\.)?redditstatic\.com/[^\s"'<>]*`)

	// linkTokenPattern matches href attribute values and bare URLs, the only
	// spans in which escaped backslashes are stripped.
	linkTokenPattern = regexp.MustCompile(`href="[^"]*"|https?://[^\s"'<>]+`)

	previewPattern = regexp.MustCompile(`https?://(?:external-)?preview\.redd\.it/[^\s"'<>]*`)
)

// RewriteURLs rewrites the links and embedded media inside an HTML body:
// anchors to the upstream site become root-relative, static assets and
// media previews are routed through FormatURL, and the escaped backslashes
// the upstream inserts into link text are removed. Text outside link spans
// is left untouched.
func RewriteURLs(body string) string {
	if body == "" {
		return ""
	}

	out := siteLinkPattern.ReplaceAllLiteralString(body, `href="/`)
	out = staticAssetPattern.ReplaceAllStringFunc(out, FormatURL)
	out = linkTokenPattern.ReplaceAllStringFunc(out, unescapeLink)
	out = previewPattern.ReplaceAllStringFunc(out, FormatURL)
	return out
}

func unescapeLink(s string) string {
	s = strings.ReplaceAll(s, "%5C", "")
	return strings.ReplaceAll(s, `\_`, "_")
}
