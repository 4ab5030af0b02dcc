package domain

import (
	"slices"
	"testing"
)

type mapSettings map[string]string

func (m mapSettings) LookupSetting(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func TestNewPreferences(t *testing.T) {
	prefs := NewPreferences(mapSettings{
		"theme":         "dark",
		"subscriptions": "golang+rust++linux",
		"filters":       "u_troll+memes",
		"hide_score":    "on",
	})

	if prefs.Theme != "dark" || prefs.HideScore != "on" {
		t.Errorf("prefs = %+v", prefs)
	}
	if prefs.FixedNavbar != "on" {
		t.Errorf("fixed_navbar = %q, want on by default", prefs.FixedNavbar)
	}
	if want := []string{"golang", "rust", "linux"}; !slices.Equal(prefs.Subscriptions, want) {
		t.Errorf("subscriptions = %v, want %v", prefs.Subscriptions, want)
	}

	set := prefs.FilterSet()
	if _, ok := set["u_troll"]; !ok || len(set) != 2 {
		t.Errorf("filter set = %v", set)
	}
}

func TestNewPreferencesEmpty(t *testing.T) {
	prefs := NewPreferences(mapSettings{"fixed_navbar": "off"})
	if prefs.FixedNavbar != "off" {
		t.Errorf("fixed_navbar = %q, want off", prefs.FixedNavbar)
	}
	if prefs.Subscriptions == nil || len(prefs.Subscriptions) != 0 {
		t.Errorf("subscriptions = %#v, want empty", prefs.Subscriptions)
	}
	if len(prefs.FilterSet()) != 0 {
		t.Error("filter set should be empty")
	}
}
