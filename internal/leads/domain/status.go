package domain

// Status is the lead lifecycle state.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusQualifying Status = "QUALIFYING"
	StatusQuoted     Status = "QUOTED"
	StatusWon        Status = "WON"
	StatusLost       Status = "LOST"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:        {},
	StatusQualifying: {},
	StatusQuoted:     {},
	StatusWon:        {},
	StatusLost:       {},
}

// IsKnownStatus reports whether s is one of the lifecycle states.
func IsKnownStatus(s Status) bool {
	_, ok := knownStatuses[s]
	return ok
}

// IsTerminal returns true for states no follow-up should be sent in.
func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}

// AfterQuote is the status a lead moves to when a quote or proposal is generated.
// Only NEW advances; every other state is kept.
func (s Status) AfterQuote() Status {
	if s == StatusNew {
		return StatusQuoted
	}
	return s
}
