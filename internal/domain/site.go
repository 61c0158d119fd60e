package domain

import "time"

// Status represents the publication state of a wedding site.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Event represents an action that triggers a publication state transition.
type Event string

const (
	EventProvisioned Event = "provisioned"
	EventPublish     Event = "publish"
	EventUnpublish   Event = "unpublish"
)

// Transition defines a valid state change: an event moves a site from Src to Dst.
type Transition struct {
	Event Event
	Src   Status
	Dst   Status
}

// Transitions defines all valid publication state changes.
// Same-state entries make publish and unpublish idempotent: repeating an
// operation re-stamps its timestamp instead of failing.
// This is domain knowledge consumed by the FSM adapter.
var Transitions = []Transition{
	{Event: EventPublish, Src: StatusDraft, Dst: StatusPublished},
	{Event: EventPublish, Src: StatusPublished, Dst: StatusPublished},
	{Event: EventUnpublish, Src: StatusPublished, Dst: StatusDraft},
	{Event: EventUnpublish, Src: StatusDraft, Dst: StatusDraft},
}

// DefaultFeatures gates the content sections a freshly provisioned site
// shows once published. Keys are read by the public resolver payload.
func DefaultFeatures() map[string]bool {
	return map[string]bool{
		"rsvp":    true,
		"gallery": true,
		"story":   true,
		"faq":     true,
	}
}

// Site is the core domain entity: one couple's wedding configuration and
// the settings of its public microsite.
type Site struct {
	ID            string
	Subdomain     string
	PrimaryName   string
	SecondaryName string
	Published     bool
	PublishedAt   *time.Time
	UnpublishedAt *time.Time
	Features      map[string]bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewSite creates a site in the initial draft state.
func NewSite(id, subdomain, primaryName, secondaryName string) Site {
	now := time.Now().UTC()
	return Site{
		ID:            id,
		Subdomain:     subdomain,
		PrimaryName:   primaryName,
		SecondaryName: secondaryName,
		Published:     false,
		Features:      DefaultFeatures(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Status derives the publication state. A site is always exactly one of
// draft or published; there is no third state.
func (s Site) Status() Status {
	if s.Published {
		return StatusPublished
	}
	return StatusDraft
}
