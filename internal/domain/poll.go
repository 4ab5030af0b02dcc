package domain

import (
	"strconv"

	"github.com/blackmichael/redproxy/internal/rawjson"
)

// Poll is a post poll.
type Poll struct {
	Options        []PollOption `json:"options"`
	VotingEnd      Timestamp    `json:"voting_end"`
	TotalVoteCount uint64       `json:"total_vote_count"`
}

// PollOption is one choice of a poll. VoteCount is nil while results are
// hidden.
type PollOption struct {
	ID        uint64  `json:"id"`
	Text      string  `json:"text"`
	VoteCount *uint64 `json:"vote_count,omitempty"`
}

// MostVotes returns the highest vote count among the options, or 0 when no
// counts are visible.
func (p *Poll) MostVotes() uint64 {
	var most uint64
	for _, o := range p.Options {
		if o.VoteCount != nil && *o.VoteCount > most {
			most = *o.VoteCount
		}
	}
	return most
}

// ParsePoll reads a poll_data object. It returns nil when the object is
// missing or lacks the total vote count, end timestamp or options array.
func ParsePoll(pollData rawjson.Node) *Poll {
	if !pollData.IsObject() {
		return nil
	}
	total, ok := pollData.LookupUint("total_vote_count")
	if !ok {
		return nil
	}
	// voting_end_timestamp is in milliseconds.
	endMillis, ok := pollData.LookupFloat("voting_end_timestamp")
	if !ok {
		return nil
	}
	if !pollData.Get("options").IsArray() {
		return nil
	}

	return &Poll{
		Options:        parsePollOptions(pollData.Array("options")),
		VotingEnd:      NewTimestamp(endMillis / 1000),
		TotalVoteCount: total,
	}
}

// parsePollOptions skips options without a numeric string id or text.
func parsePollOptions(options []rawjson.Node) []PollOption {
	out := make([]PollOption, 0, len(options))
	for _, option := range options {
		id, err := strconv.ParseUint(option.Str("id"), 10, 64)
		if err != nil {
			continue
		}
		text, ok := option.LookupStr("text")
		if !ok {
			continue
		}

		o := PollOption{ID: id, Text: text}
		if votes, ok := option.LookupUint("vote_count"); ok {
			o.VoteCount = &votes
		}
		out = append(out, o)
	}
	return out
}
