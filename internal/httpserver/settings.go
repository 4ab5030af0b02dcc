package httpserver

import (
	"net/http"
	"net/url"

	"github.com/blackmichael/redproxy/internal/config"
)

// requestSettings resolves preferences from the request's cookies, falling
// back to the instance defaults.
type requestSettings struct {
	r *http.Request
}

func (s requestSettings) LookupSetting(name string) (string, bool) {
	if c, err := s.r.Cookie(name); err == nil && c.Value != "" {
		if v, err := url.PathUnescape(c.Value); err == nil {
			return v, true
		}
		return c.Value, true
	}
	return config.DefaultSetting(name)
}
