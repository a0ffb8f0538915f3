package domain

import "time"

// EntryType constants identify the nature of a history entry.
const (
	EntryLeadCreated      = "LEAD_CREATED"
	EntryQuoteCreated     = "QUOTE_CREATED"
	EntryProposalCreated  = "PROPOSAL_CREATED"
	EntryFollowUpsCreated = "FOLLOWUPS_CREATED"
	EntryMessageDrafted   = "MESSAGE_DRAFTED"
	EntryMessageSent      = "MESSAGE_SENT"
)

// Actor constants identify who produced a history entry.
const (
	ActorSystem = "system" // automatic orchestration
	ActorUser   = "user"   // the operator, through the API or CLI
)

// HistoryEntry is one event in a lead's append-only log.
type HistoryEntry struct {
	At     time.Time      `json:"at"`
	Type   string         `json:"type"`
	By     string         `json:"by"`
	Detail map[string]any `json:"detail,omitempty"`
}

// IsQuoteEvent reports whether the entry records a generated quote or proposal.
func (e HistoryEntry) IsQuoteEvent() bool {
	return e.Type == EntryQuoteCreated || e.Type == EntryProposalCreated
}

// Apply folds entry into lead and returns the new projection. lead is not modified.
//
// The entry is appended to History, UpdatedAt advances to entry.At (or by one
// millisecond when the clock has not moved past the previous value) and quote
// events latch NEW to QUOTED.
func Apply(lead Lead, entry HistoryEntry) Lead {
	next := lead
	next.History = make([]HistoryEntry, len(lead.History), len(lead.History)+1)
	copy(next.History, lead.History)

	if entry.Type == EntryLeadCreated && len(lead.History) == 0 {
		next.CreatedAt = entry.At
		next.UpdatedAt = entry.At
	} else {
		next.UpdatedAt = advance(lead.UpdatedAt, entry.At)
	}
	entry.At = next.UpdatedAt
	next.History = append(next.History, entry)

	if entry.IsQuoteEvent() {
		next.Status = next.Status.AfterQuote()
	}
	return next
}

// Replay rebuilds a projection by applying entries to base in order.
func Replay(base Lead, entries []HistoryEntry) Lead {
	lead := base
	lead.History = nil
	for _, e := range entries {
		lead = Apply(lead, e)
	}
	return lead
}

func advance(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}
