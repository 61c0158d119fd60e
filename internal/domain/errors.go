package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrSiteNotFound = errors.New("site not found")

	// ErrNameEmpty is returned when a display name normalizes to an
	// empty slug and no subdomain can be derived from it.
	ErrNameEmpty = errors.New("name normalizes to an empty subdomain")

	// ErrSubdomainExhausted is returned when every provisioning attempt
	// collided with an existing subdomain.
	ErrSubdomainExhausted = errors.New("unable to generate unique subdomain")

	// ErrSubdomainInvalid is returned when a caller-supplied subdomain
	// fails the syntax or length constraints.
	ErrSubdomainInvalid = errors.New("subdomain does not satisfy syntax constraints")

	// ErrSubdomainLocked is returned when a subdomain change is refused
	// because the site has already been published once; existing public
	// links must keep working.
	ErrSubdomainLocked = errors.New("subdomain is immutable after first publish")
)

// SubdomainConflictError is returned when a subdomain is already in use.
// The provisioner treats it as "candidate taken, try the next one";
// everything else coming out of the store is a transport failure.
type SubdomainConflictError struct {
	Subdomain string
}

func (e *SubdomainConflictError) Error() string {
	return fmt.Sprintf("subdomain %q is already in use", e.Subdomain)
}

// TransitionError is returned when a publication event is not allowed
// from the current state.
type TransitionError struct {
	Event   Event
	Current Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}
