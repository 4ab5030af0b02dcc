package domain

import "context"

// Fetcher retrieves raw JSON from the upstream API. Retries and timeouts are
// the implementation's concern.
type Fetcher interface {
	// FetchJSON fetches path (e.g. "/r/golang/hot.json"). When
	// bypassRestriction is set, quarantined and gated communities are
	// opted into.
	FetchJSON(ctx context.Context, path string, bypassRestriction bool) ([]byte, error)
}

// SettingsLookup resolves a named preference for the current request.
type SettingsLookup interface {
	// LookupSetting returns the value of name and whether it was set.
	LookupSetting(name string) (string, bool)
}

// CursorRepository persists listing pagination cursors so a crawl can
// resume where it stopped.
type CursorRepository interface {
	// GetCursor returns the saved cursor for listing, or "" if none.
	GetCursor(ctx context.Context, listing string) (string, error)

	// UpdateCursor saves the cursor for listing.
	UpdateCursor(ctx context.Context, listing, cursor string) error

	// DeleteCursor forgets the cursor for listing.
	DeleteCursor(ctx context.Context, listing string) error
}
