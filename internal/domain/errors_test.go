package domain_test

import (
	"testing"

	"github.com/lunaria-app/lunaria/internal/domain"
)

func TestSubdomainConflictError_Error(t *testing.T) {
	err := &domain.SubdomainConflictError{Subdomain: "john-mary"}
	want := `subdomain "john-mary" is already in use`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTransitionError_Error(t *testing.T) {
	err := &domain.TransitionError{
		Event:   domain.EventPublish,
		Current: domain.StatusPublished,
	}
	want := `event "publish" is not valid from state "published"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
