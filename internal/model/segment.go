package model

import "time"

// Segment is a user-loyalty bucket. Assignment priority is fixed:
// vip before fedeli before ghost before occasionali, so a loyal user
// who never converts still lands in fedeli, not ghost.
type Segment string

const (
	SegmentVIP         Segment = "vip"
	SegmentFedeli      Segment = "fedeli"
	SegmentOccasionali Segment = "occasionali"
	SegmentGhost       Segment = "ghost"
)

// UserStats aggregates one unique attendee across all of their records.
type UserStats struct {
	FullName          string     `json:"full_name"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	Gender            string     `json:"gender,omitempty"`
	TotalRegs         int        `json:"total_regs"`
	TotalParticipated int        `json:"total_participated"`
	EventCount        int        `json:"event_count"` // distinct (brand, edition) pairs
	Conversion        float64    `json:"conversion"`  // participated/regs*100
	Segment           Segment    `json:"segment"`
}

// RegisteredUser is an attendee already registered for the target
// edition, deduplicated by email (else full name) with the most
// complete contact fields seen.
type RegisteredUser struct {
	FullName  string     `json:"full_name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    string     `json:"gender,omitempty"`
	Attended  bool       `json:"attended"`
}

// RetargetUser attended a different edition of the same brand and is
// an outreach candidate for the target edition.
type RetargetUser struct {
	FullName      string     `json:"full_name"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	PastEditions  []string   `json:"past_editions"`
	LastEventDate *time.Time `json:"last_event_date,omitempty"`
}

// Contactable reports whether the user can be reached by phone.
func (u RetargetUser) Contactable() bool { return u.Phone != "" }

// EditionUserLists partitions a brand's historical attendees relative
// to one target edition.
type EditionUserLists struct {
	Target     EditionKey       `json:"target"`
	Registered []RegisteredUser `json:"registered"`
	Retarget   []RetargetUser   `json:"retarget"`
}
