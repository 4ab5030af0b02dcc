package live

import (
	"fmt"

	"github.com/blackmichael/redproxy/internal/format"
	"github.com/blackmichael/redproxy/internal/rawjson"
)

// Update kinds.
const (
	KindScore    = "score"
	KindComments = "comments"
)

// Update is a live change to a post's counters, formatted for display.
type Update struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Exact string `json:"exact"`
}

// eventFields maps upstream event types to the update kind and the payload
// field holding the new value.
var eventFields = map[string]struct {
	kind  string
	field string
}{
	"score":         {KindScore, "score"},
	"comment_count": {KindComments, "comment_count"},
	"num_comments":  {KindComments, "num_comments"},
}

// parseEvent decodes a {"type": ..., "payload": {...}} frame. ok is false
// for event types that carry no counter.
func parseEvent(data []byte) (update Update, ok bool, err error) {
	event, err := rawjson.Parse(data)
	if err != nil {
		return Update{}, false, fmt.Errorf("parse event: %w", err)
	}

	f, known := eventFields[event.Str("type")]
	if !known {
		return Update{}, false, nil
	}
	n, present := event.Get("payload").LookupInt(f.field)
	if !present {
		return Update{}, false, nil
	}

	short, exact := format.Count(n)
	return Update{Kind: f.kind, Value: short, Exact: exact}, true, nil
}
