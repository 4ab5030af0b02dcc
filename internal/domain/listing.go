package domain

import (
	"net/url"
	"strings"
)

// ListingParams are the query parameters forwarded to an upstream listing.
type ListingParams struct {
	// Sort is the listing order (hot, new, top, rising, controversial).
	Sort string
	// T is the time range for top and controversial listings.
	T string
	// After and Before are pagination cursors.
	After  string
	Before string
}

var validSorts = map[string]bool{
	"hot": true, "new": true, "top": true, "rising": true, "controversial": true, "best": true,
}

// ValidSort reports whether sort names a listing order the upstream serves.
func ValidSort(sort string) bool {
	return validSorts[sort]
}

// Path builds the upstream JSON path for the listing rooted at base
// ("" for the front page, "/r/golang", "/user/someone/submitted").
func (p ListingParams) Path(base string) string {
	base = strings.TrimSuffix(base, "/")

	q := url.Values{}
	var path string
	if strings.HasPrefix(base, "/user/") {
		// user listings take the sort order as a parameter
		path = base + ".json"
		if validSorts[p.Sort] {
			q.Set("sort", p.Sort)
		}
	} else {
		sort := p.Sort
		if !validSorts[sort] {
			sort = "hot"
		}
		path = base + "/" + sort + ".json"
	}

	if p.T != "" {
		q.Set("t", p.T)
	}
	if p.After != "" {
		q.Set("after", p.After)
	}
	if p.Before != "" {
		q.Set("before", p.Before)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// WithAfter sets the after cursor on an upstream path, replacing any
// existing one. An empty cursor removes it.
func WithAfter(path, after string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	if after == "" {
		q.Del("after")
	} else {
		q.Set("after", after)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
