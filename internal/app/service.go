package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain"
)

// provisionAttempts bounds the retry loop against subdomain collisions.
const provisionAttempts = 5

// SiteService orchestrates site provisioning and the publication lifecycle.
type SiteService struct {
	repo      domain.SiteRepository
	publisher domain.EventPublisher
	validator domain.TransitionValidator
	now       func() time.Time
}

// NewSiteService creates a service with the given adapters.
func NewSiteService(repo domain.SiteRepository, publisher domain.EventPublisher, validator domain.TransitionValidator) *SiteService {
	return &SiteService{
		repo:      repo,
		publisher: publisher,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Provision creates a new draft site with a collision-free subdomain
// derived from the couple's names.
//
// Each attempt generates a candidate, checks availability, and then
// inserts. The availability check is advisory only: a concurrent caller
// can win the candidate between the read and the write, in which case
// the store's uniqueness constraint rejects the insert and the loop
// moves on to the next candidate. A storage failure on the check also
// consumes the attempt; it surfaces as a transport error, never as
// exhaustion, once the budget runs out. Only the final outcome crosses
// this boundary; intermediate collisions never do.
func (s *SiteService) Provision(ctx context.Context, primaryName, secondaryName string) (domain.Site, error) {
	var transportErr error
	for attempt := range provisionAttempts {
		candidate, err := domain.GenerateSubdomain(primaryName, secondaryName, attempt)
		if err != nil {
			return domain.Site{}, err
		}

		taken, err := s.taken(ctx, candidate)
		if err != nil {
			transportErr = fmt.Errorf("checking subdomain availability: %w", err)
			continue
		}
		if taken {
			continue
		}

		site := domain.NewSite(generateID(), candidate, primaryName, secondaryName)

		err = s.repo.Create(ctx, site)
		var conflict *domain.SubdomainConflictError
		if errors.As(err, &conflict) {
			// Lost the race for this candidate; treat like "taken".
			continue
		}
		if err != nil {
			return domain.Site{}, fmt.Errorf("creating site: %w", err)
		}

		if err := s.publisher.Publish(ctx, domain.EventProvisioned, site); err != nil {
			return domain.Site{}, fmt.Errorf("publishing provisioned event: %w", err)
		}

		return site, nil
	}

	if transportErr != nil {
		return domain.Site{}, transportErr
	}
	return domain.Site{}, domain.ErrSubdomainExhausted
}

// taken reports whether a candidate subdomain is already in use. A
// not-found read means available; anything else is a transport failure,
// never folded into "taken".
func (s *SiteService) taken(ctx context.Context, candidate string) (bool, error) {
	_, err := s.repo.GetBySubdomain(ctx, candidate)
	if errors.Is(err, domain.ErrSiteNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID returns a site by its unique identifier.
func (s *SiteService) GetByID(ctx context.Context, id string) (domain.Site, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns sites matching the given filter.
func (s *SiteService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Site, error) {
	return s.repo.List(ctx, filter)
}

// Publish makes a site publicly visible and stamps PublishedAt.
// Publishing an already-published site succeeds and re-stamps the
// timestamp.
func (s *SiteService) Publish(ctx context.Context, id string) (domain.Site, error) {
	return s.setPublication(ctx, id, domain.EventPublish, true)
}

// Unpublish hides a site from the public and stamps UnpublishedAt.
// Unpublishing a draft succeeds without error.
func (s *SiteService) Unpublish(ctx context.Context, id string) (domain.Site, error) {
	return s.setPublication(ctx, id, domain.EventUnpublish, false)
}

func (s *SiteService) setPublication(ctx context.Context, id string, event domain.Event, published bool) (domain.Site, error) {
	site, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Site{}, err
	}

	if _, err := s.validator.Apply(ctx, site.Status(), event); err != nil {
		return domain.Site{}, err
	}

	site, err = s.repo.SetPublication(ctx, id, published, s.now())
	if err != nil {
		return domain.Site{}, fmt.Errorf("updating publication state: %w", err)
	}

	if err := s.publisher.Publish(ctx, event, site); err != nil {
		return domain.Site{}, fmt.Errorf("publishing event %q: %w", event, err)
	}

	return site, nil
}

// UpdateNames changes the couple's display names. The subdomain is left
// untouched: it stays stable once minted, and is immutable outright after
// the first publish so existing public links keep working.
func (s *SiteService) UpdateNames(ctx context.Context, id, primaryName, secondaryName string) (domain.Site, error) {
	site, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Site{}, err
	}

	site.PrimaryName = primaryName
	site.SecondaryName = secondaryName

	if err := s.repo.Update(ctx, site); err != nil {
		return domain.Site{}, fmt.Errorf("updating site: %w", err)
	}

	return site, nil
}

// ChangeSubdomain re-assigns a site's subdomain before first publish.
// Once a site has been published, the subdomain is locked: re-assigning
// it would break links already shared with guests.
func (s *SiteService) ChangeSubdomain(ctx context.Context, id, subdomain string) (domain.Site, error) {
	if !domain.ValidSubdomain(subdomain) {
		return domain.Site{}, domain.ErrSubdomainInvalid
	}

	site, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Site{}, err
	}

	if site.PublishedAt != nil {
		return domain.Site{}, domain.ErrSubdomainLocked
	}

	site.Subdomain = subdomain

	if err := s.repo.Update(ctx, site); err != nil {
		return domain.Site{}, err
	}

	return site, nil
}

// SetFeature toggles visibility of one content section.
func (s *SiteService) SetFeature(ctx context.Context, id, key string, enabled bool) (domain.Site, error) {
	site, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Site{}, err
	}

	if site.Features == nil {
		site.Features = make(map[string]bool)
	}
	site.Features[key] = enabled

	if err := s.repo.Update(ctx, site); err != nil {
		return domain.Site{}, fmt.Errorf("updating site: %w", err)
	}

	return site, nil
}
