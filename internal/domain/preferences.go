package domain

import "strings"

// Preferences are the per-request display settings. They are rebuilt from
// the request on every call and never written back.
type Preferences struct {
	Theme                          string   `json:"theme"`
	FrontPage                      string   `json:"front_page"`
	Layout                         string   `json:"layout"`
	Wide                           string   `json:"wide"`
	ShowNSFW                       string   `json:"show_nsfw"`
	BlurNSFW                       string   `json:"blur_nsfw"`
	HideHLSNotification            string   `json:"hide_hls_notification"`
	UseHLS                         string   `json:"use_hls"`
	AutoplayVideos                 string   `json:"autoplay_videos"`
	FixedNavbar                    string   `json:"fixed_navbar"`
	DisableVisitRedditConfirmation string   `json:"disable_visit_reddit_confirmation"`
	CommentSort                    string   `json:"comment_sort"`
	PostSort                       string   `json:"post_sort"`
	Subscriptions                  []string `json:"subscriptions"`
	Filters                        []string `json:"filters"`
	HideAwards                     string   `json:"hide_awards"`
	HideScore                      string   `json:"hide_score"`
}

// NewPreferences reads every preference through lookup. Absent settings are
// empty, except fixed_navbar which defaults to "on".
func NewPreferences(lookup SettingsLookup) Preferences {
	get := func(name string) string {
		v, _ := lookup.LookupSetting(name)
		return v
	}

	fixedNavbar := get("fixed_navbar")
	if fixedNavbar == "" {
		fixedNavbar = "on"
	}

	return Preferences{
		Theme:                          get("theme"),
		FrontPage:                      get("front_page"),
		Layout:                         get("layout"),
		Wide:                           get("wide"),
		ShowNSFW:                       get("show_nsfw"),
		BlurNSFW:                       get("blur_nsfw"),
		HideHLSNotification:            get("hide_hls_notification"),
		UseHLS:                         get("use_hls"),
		AutoplayVideos:                 get("autoplay_videos"),
		FixedNavbar:                    fixedNavbar,
		DisableVisitRedditConfirmation: get("disable_visit_reddit_confirmation"),
		CommentSort:                    get("comment_sort"),
		PostSort:                       get("post_sort"),
		Subscriptions:                  splitList(get("subscriptions")),
		Filters:                        splitList(get("filters")),
		HideAwards:                     get("hide_awards"),
		HideScore:                      get("hide_score"),
	}
}

// FilterSet returns the filters as a set for FilterPosts and
// CommentOptions.
func (p Preferences) FilterSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Filters))
	for _, f := range p.Filters {
		set[f] = struct{}{}
	}
	return set
}

// splitList splits a "+"-joined setting, dropping empty entries.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, "+") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
