package domain

import (
	"context"
	"time"
)

// SiteRepository defines the persistence contract for wedding sites.
//
// Create is an atomic insert guarded by the store's uniqueness constraint
// on subdomain; it returns *SubdomainConflictError when the constraint
// fires. GetBySubdomain doubles as the advisory availability check during
// provisioning: the read is best-effort and never assumed linearizable
// with a subsequent Create.
type SiteRepository interface {
	Create(ctx context.Context, site Site) error
	GetByID(ctx context.Context, id string) (Site, error)
	GetBySubdomain(ctx context.Context, subdomain string) (Site, error)
	List(ctx context.Context, filter ListFilter) ([]Site, error)
	Update(ctx context.Context, site Site) error
	SetPublication(ctx context.Context, id string, published bool, at time.Time) (Site, error)
}

// ListFilter holds optional criteria for listing sites.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// EventPublisher defines the contract for emitting domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, site Site) error
}

// TransitionValidator checks a publication event against the current
// state and returns the destination state.
type TransitionValidator interface {
	Apply(ctx context.Context, current Status, event Event) (Status, error)
}

// Identity is an authenticated caller as supplied by the authentication
// collaborator. The zero value means anonymous.
type Identity struct {
	UserID string
	SiteID string
}

// Anonymous reports whether the identity carries no authenticated caller.
func (i Identity) Anonymous() bool {
	return i.UserID == "" && i.SiteID == ""
}

// Owns reports whether the identity is the owner of the given site.
func (i Identity) Owns(site Site) bool {
	return !i.Anonymous() && i.SiteID == site.ID
}

// Authenticator resolves an opaque credential to an identity. It is a
// pass/fail gate: any failure means the caller stays anonymous.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}
