package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/lunaria-app/lunaria/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// SiteEventArgs carries the data needed to process a site lifecycle event
// asynchronously. River serializes this as JSON into its job queue table.
// It includes a snapshot of the site at the time the event was published,
// so the worker never needs to query the database.
type SiteEventArgs struct {
	Event         string `json:"event"`
	SiteID        string `json:"site_id"`
	Subdomain     string `json:"subdomain"`
	PrimaryName   string `json:"primary_name"`
	SecondaryName string `json:"secondary_name"`
	Published     bool   `json:"published"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (SiteEventArgs) Kind() string { return "site.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a site lifecycle event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.Event, site domain.Site) error {
	_, err := p.client.Insert(ctx, SiteEventArgs{
		Event:         string(event),
		SiteID:        site.ID,
		Subdomain:     site.Subdomain,
		PrimaryName:   site.PrimaryName,
		SecondaryName: site.SecondaryName,
		Published:     site.Published,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing site event job: %w", err)
	}
	return nil
}
