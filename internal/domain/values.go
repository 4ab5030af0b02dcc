package domain

import "github.com/blackmichael/redproxy/internal/format"

// Count is a number rendered for display: an abbreviated form ("1.2k") and
// the exact decimal form ("1234").
type Count struct {
	Short string `json:"short"`
	Exact string `json:"exact"`
}

// NewCount formats n for display.
func NewCount(n int64) Count {
	short, exact := format.Count(n)
	return Count{Short: short, Exact: exact}
}

// hiddenScore is shown when the upstream withholds a score.
var hiddenScore = Count{Short: "•", Exact: "Hidden"}

// Timestamp is a point in time rendered relative to now ("3h ago") and as an
// absolute UTC date.
type Timestamp struct {
	Relative string `json:"relative"`
	Absolute string `json:"absolute"`
}

// NewTimestamp formats fractional UNIX seconds for display.
func NewTimestamp(unixSeconds float64) Timestamp {
	rel, abs := format.Time(unixSeconds)
	return Timestamp{Relative: rel, Absolute: abs}
}
