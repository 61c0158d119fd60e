package domain_test

import (
	"testing"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain"
)

func TestNewSite(t *testing.T) {
	before := time.Now().UTC()
	site := domain.NewSite("id-1", "john-mary", "John", "Mary")
	after := time.Now().UTC()

	if site.ID != "id-1" {
		t.Errorf("ID = %q, want %q", site.ID, "id-1")
	}
	if site.Subdomain != "john-mary" {
		t.Errorf("Subdomain = %q, want %q", site.Subdomain, "john-mary")
	}
	if site.PrimaryName != "John" {
		t.Errorf("PrimaryName = %q, want %q", site.PrimaryName, "John")
	}
	if site.SecondaryName != "Mary" {
		t.Errorf("SecondaryName = %q, want %q", site.SecondaryName, "Mary")
	}
	if site.Published {
		t.Error("new site must start as a draft")
	}
	if site.PublishedAt != nil || site.UnpublishedAt != nil {
		t.Error("publication timestamps must be unset at creation")
	}
	if site.CreatedAt.Before(before) || site.CreatedAt.After(after) {
		t.Errorf("CreatedAt = %v, want between %v and %v", site.CreatedAt, before, after)
	}
	if site.UpdatedAt != site.CreatedAt {
		t.Errorf("UpdatedAt should equal CreatedAt on new site")
	}
}

func TestNewSite_DefaultFeatures(t *testing.T) {
	site := domain.NewSite("id-1", "john-mary", "John", "Mary")

	for _, key := range []string{"rsvp", "gallery", "story", "faq"} {
		if !site.Features[key] {
			t.Errorf("feature %q should be enabled by default", key)
		}
	}
}

func TestSite_Status(t *testing.T) {
	site := domain.NewSite("id-1", "john-mary", "John", "Mary")
	if site.Status() != domain.StatusDraft {
		t.Errorf("Status() = %q, want %q", site.Status(), domain.StatusDraft)
	}

	site.Published = true
	if site.Status() != domain.StatusPublished {
		t.Errorf("Status() = %q, want %q", site.Status(), domain.StatusPublished)
	}
}

func TestTransitions_PublishIsReversible(t *testing.T) {
	cases := []struct {
		event domain.Event
		src   domain.Status
		dst   domain.Status
	}{
		{domain.EventPublish, domain.StatusDraft, domain.StatusPublished},
		{domain.EventUnpublish, domain.StatusPublished, domain.StatusDraft},
		// Idempotent repeats.
		{domain.EventPublish, domain.StatusPublished, domain.StatusPublished},
		{domain.EventUnpublish, domain.StatusDraft, domain.StatusDraft},
	}

	for _, tc := range cases {
		found := false
		for _, tr := range domain.Transitions {
			if tr.Event == tc.event && tr.Src == tc.src && tr.Dst == tc.dst {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing transition: %q from %q → %q", tc.event, tc.src, tc.dst)
		}
	}
}

func TestTransitions_NoCrossStateSurprises(t *testing.T) {
	// A publish never lands on draft and an unpublish never lands on
	// published.
	for _, tr := range domain.Transitions {
		if tr.Event == domain.EventPublish && tr.Dst != domain.StatusPublished {
			t.Errorf("publish from %q lands on %q", tr.Src, tr.Dst)
		}
		if tr.Event == domain.EventUnpublish && tr.Dst != domain.StatusDraft {
			t.Errorf("unpublish from %q lands on %q", tr.Src, tr.Dst)
		}
	}
}
