package domain

import (
	"sort"
	"time"

	"filmleads_backend/internal/settings"
)

// CurrentVersion is written on every database.
const CurrentVersion = 1

// Database is the single persisted document holding all lead desk state.
type Database struct {
	Version  int                `json:"version"`
	Settings *settings.Settings `json:"settings"`
	Leads    []Lead             `json:"leads"`
	Tasks    []Task             `json:"tasks"`
	Quotes   []Quote            `json:"quotes"`
	Messages []Message          `json:"messages"`
}

// Normalize fills absent parts with defaults so callers never see nil collections.
func (db *Database) Normalize() {
	if db.Version == 0 {
		db.Version = CurrentVersion
	}
	if db.Settings == nil {
		db.Settings = settings.Default()
	}
	if db.Leads == nil {
		db.Leads = []Lead{}
	}
	if db.Tasks == nil {
		db.Tasks = []Task{}
	}
	if db.Quotes == nil {
		db.Quotes = []Quote{}
	}
	if db.Messages == nil {
		db.Messages = []Message{}
	}
	for i := range db.Leads {
		l := &db.Leads[i]
		if l.Status == "" {
			l.Status = StatusNew
		}
		if l.JobType == "" {
			l.JobType = JobBoth
		}
		if l.FilmCategory == "" {
			l.FilmCategory = "unsure"
		}
		if l.Goals == nil {
			l.Goals = []string{}
		}
		if l.Tags == nil {
			l.Tags = []string{}
		}
		if l.History == nil {
			l.History = []HistoryEntry{}
		}
		if l.UpdatedAt.Before(l.CreatedAt) {
			l.UpdatedAt = l.CreatedAt
		}
	}
}

// LeadIndex returns the position of the lead with id, or -1.
func (db *Database) LeadIndex(id string) int {
	for i := range db.Leads {
		if db.Leads[i].ID == id {
			return i
		}
	}
	return -1
}

// MessageIndex returns the position of the message with id, or -1.
func (db *Database) MessageIndex(id string) int {
	for i := range db.Messages {
		if db.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// QuoteByID returns the quote with id.
func (db *Database) QuoteByID(id string) (Quote, bool) {
	for _, q := range db.Quotes {
		if q.ID == id {
			return q, true
		}
	}
	return Quote{}, false
}

// LeadsByRecency returns a copy of the leads, most recently updated first.
// Ties keep id order so the listing is stable.
func (db *Database) LeadsByRecency() []Lead {
	out := make([]Lead, len(db.Leads))
	copy(out, db.Leads)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TasksFor returns the lead's tasks by due time, earliest first.
func (db *Database) TasksFor(leadID string) []Task {
	out := make([]Task, 0)
	for _, t := range db.Tasks {
		if t.LeadID == leadID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out
}

// QuotesFor returns the lead's quotes by creation time, oldest first.
func (db *Database) QuotesFor(leadID string) []Quote {
	out := make([]Quote, 0)
	for _, q := range db.Quotes {
		if q.LeadID == leadID {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// MessagesFor returns the lead's messages by creation time, oldest first.
func (db *Database) MessagesFor(leadID string) []Message {
	out := make([]Message, 0)
	for _, m := range db.Messages {
		if m.LeadID == leadID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// TaskTypesFor returns the set of task types already present for the lead.
func (db *Database) TaskTypesFor(leadID string) map[string]struct{} {
	types := make(map[string]struct{})
	for _, t := range db.Tasks {
		if t.LeadID == leadID {
			types[t.Type] = struct{}{}
		}
	}
	return types
}

// Seed returns the starter database used when nothing usable is stored.
func Seed() *Database {
	created1 := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	created2 := time.Date(2026, 2, 10, 12, 5, 0, 0, time.UTC)

	db := &Database{
		Version:  CurrentVersion,
		Settings: settings.Default(),
		Leads: []Lead{
			{
				ID:            "lead_seed_1",
				CreatedAt:     created1,
				UpdatedAt:     created1,
				Status:        StatusNew,
				Source:        SourceWeb,
				Contact:       Contact{Name: str("Avery Johnson"), Phone: str("+14105550123"), Email: str("avery@example.com")},
				Location:      Location{Address: str("123 Harbor Ave"), City: str("Baltimore"), State: str("MD")},
				JobType:       JobResidential,
				SqftEstimate:  num(180),
				FilmCategory:  "solar_interior",
				Goals:         []string{"heat", "glare"},
				Glass:         Glass{Notes: str("Not sure if low-e. Wants daytime privacy too.")},
				RemovalNeeded: flag(false),
				Access:        str("ground + step ladder"),
				Notes:         str("Wants a quick ballpark today; prefers text."),
				Tags:          []string{"hot_lead"},
				History: []HistoryEntry{
					{At: created1, Type: EntryLeadCreated, By: ActorSystem, Detail: map[string]any{"source": SourceWeb}},
				},
			},
			{
				ID:           "lead_seed_2",
				CreatedAt:    created2,
				UpdatedAt:    created2,
				Status:       StatusQualifying,
				Source:       SourcePhone,
				Contact:      Contact{Name: str("Morgan Facilities"), Phone: str("+14435550199"), Email: str("fm@morganfacilities.com")},
				Location:     Location{Address: str("500 Market St"), City: str("Columbia"), State: str("MD")},
				JobType:      JobCommercial,
				FilmCategory: "unsure",
				Goals:        []string{"heat", "uv"},
				Glass:        Glass{Notes: str("Office building, 2nd floor. Needs COI.")},
				Access:       str("interior access, ladder likely"),
				Notes:        str("Needs options and estimated payback; schedule site walk."),
				Tags:         []string{"commercial"},
				History: []HistoryEntry{
					{At: created2, Type: EntryLeadCreated, By: ActorSystem, Detail: map[string]any{"source": SourcePhone}},
				},
			},
		},
	}
	db.Normalize()
	return db
}

func str(s string) *string { return &s }

func num(v float64) *float64 { return &v }

func flag(v bool) *bool { return &v }
