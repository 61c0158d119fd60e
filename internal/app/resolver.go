package app

import (
	"context"
	"strings"

	"github.com/lunaria-app/lunaria/internal/domain"
)

// DefaultReservedSubdomains are labels that never map to a tenant site.
func DefaultReservedSubdomains() []string {
	return []string{"www", "admin"}
}

// Resolver maps an inbound request's host header to a site configuration.
//
// The host header is the sole tenant-identity signal for public traffic;
// nothing a caller supplies elsewhere in the request can override the
// resolved site. Every failure mode degrades to ErrSiteNotFound so the
// response never reveals whether a subdomain exists.
type Resolver struct {
	repo       domain.SiteRepository
	baseDomain string
	reserved   map[string]struct{}
}

// NewResolver creates a resolver serving subdomains of baseDomain, with
// the given reserved label set. The bare base domain itself never maps
// to a tenant, even when a site happens to hold its leftmost label.
func NewResolver(repo domain.SiteRepository, baseDomain string, reserved []string) *Resolver {
	set := make(map[string]struct{}, len(reserved))
	for _, label := range reserved {
		set[strings.ToLower(label)] = struct{}{}
	}
	return &Resolver{
		repo:       repo,
		baseDomain: strings.ToLower(strings.TrimSpace(baseDomain)),
		reserved:   set,
	}
}

// Resolve returns the site for the given host header, as seen by viewer.
// Drafts are invisible to everyone but their own authenticated owner.
func (r *Resolver) Resolve(ctx context.Context, host string, viewer domain.Identity) (domain.Site, error) {
	label, ok := r.subdomainLabel(host)
	if !ok {
		return domain.Site{}, domain.ErrSiteNotFound
	}

	site, err := r.repo.GetBySubdomain(ctx, label)
	if err != nil {
		// Transport failures degrade to not-found as well: resolution
		// must not leak site existence through error side channels.
		return domain.Site{}, domain.ErrSiteNotFound
	}

	if !site.Published && !viewer.Owns(site) {
		return domain.Site{}, domain.ErrSiteNotFound
	}

	return site, nil
}

// subdomainLabel extracts the leftmost host label. The base domain
// itself, hosts without a dot, and reserved labels carry no tenant
// identity.
func (r *Resolver) subdomainLabel(host string) (string, bool) {
	host = strings.ToLower(strings.TrimSpace(host))

	// Strip a port if present; IPv6 literals never resolve anyway.
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}

	if host == r.baseDomain {
		return "", false
	}

	label, rest, found := strings.Cut(host, ".")
	if !found || label == "" || rest == "" {
		return "", false
	}

	if _, isReserved := r.reserved[label]; isReserved {
		return "", false
	}

	return label, true
}
