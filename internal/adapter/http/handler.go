package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lunaria-app/lunaria/internal/app"
	"github.com/lunaria-app/lunaria/internal/domain"
)

const timeFormat = time.RFC3339

// SiteResponse is the admin API representation of a site.
type SiteResponse struct {
	ID            string          `json:"id" doc:"Unique identifier"`
	Subdomain     string          `json:"subdomain" doc:"Routing token for the public hostname"`
	PrimaryName   string          `json:"primary_name" doc:"First partner's display name"`
	SecondaryName string          `json:"secondary_name" doc:"Second partner's display name"`
	Status        string          `json:"status" doc:"Publication state (draft or published)"`
	PublishedAt   string          `json:"published_at,omitempty" doc:"Last publish timestamp (RFC 3339)"`
	UnpublishedAt string          `json:"unpublished_at,omitempty" doc:"Last unpublish timestamp (RFC 3339)"`
	Features      map[string]bool `json:"features" doc:"Content section visibility flags"`
	CreatedAt     string          `json:"created_at" doc:"Creation timestamp (RFC 3339)"`
}

func toSiteResponse(s domain.Site) SiteResponse {
	return SiteResponse{
		ID:            s.ID,
		Subdomain:     s.Subdomain,
		PrimaryName:   s.PrimaryName,
		SecondaryName: s.SecondaryName,
		Status:        string(s.Status()),
		PublishedAt:   formatTime(s.PublishedAt),
		UnpublishedAt: formatTime(s.UnpublishedAt),
		Features:      s.Features,
		CreatedAt:     s.CreatedAt.Format(timeFormat),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeFormat)
}

// --- Create Site ---

type CreateSiteInput struct {
	Body struct {
		PrimaryName   string `json:"primary_name" minLength:"1" maxLength:"255" doc:"First partner's display name"`
		SecondaryName string `json:"secondary_name" minLength:"1" maxLength:"255" doc:"Second partner's display name"`
	}
}

type CreateSiteOutput struct {
	Body SiteResponse
}

// --- Get Site ---

type GetSiteInput struct {
	ID string `path:"id" doc:"Site ID"`
}

type GetSiteOutput struct {
	Body SiteResponse
}

// --- List Sites ---

type ListSitesInput struct {
	Status string `query:"status" required:"false" doc:"Filter by publication state (draft or published)"`
	Limit  int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListSitesOutput struct {
	Body []SiteResponse
}

// --- Publish / Unpublish ---

type PublicationInput struct {
	ID            string `path:"id" doc:"Site ID"`
	Authorization string `header:"Authorization" doc:"Owner credential (Bearer token)"`
}

type PublishOutput struct {
	Body struct {
		IsPublished bool   `json:"is_published"`
		PublishedAt string `json:"published_at" doc:"Publish timestamp (RFC 3339)"`
		WeddingURL  string `json:"wedding_url" doc:"Public URL of the wedding site"`
	}
}

type UnpublishOutput struct {
	Body struct {
		IsPublished   bool   `json:"is_published"`
		UnpublishedAt string `json:"unpublished_at" doc:"Unpublish timestamp (RFC 3339)"`
	}
}

// Handler registers the admin API routes.
type Handler struct {
	svc        *app.SiteService
	auth       domain.Authenticator
	baseDomain string
}

// NewHandler creates the admin API handler. baseDomain is the apex under
// which tenant subdomains live (e.g. "example.com").
func NewHandler(svc *app.SiteService, auth domain.Authenticator, baseDomain string) *Handler {
	return &Handler{svc: svc, auth: auth, baseDomain: baseDomain}
}

// WeddingURL derives the public URL for a site's subdomain.
func (h *Handler) WeddingURL(subdomain string) string {
	return "https://" + subdomain + "." + h.baseDomain
}

// requireOwner resolves the Authorization header to an identity and
// checks it owns the target site. Failures come back as 404: isolation
// means an outsider learns nothing about another tenant, not even that
// it exists.
func (h *Handler) requireOwner(ctx context.Context, authorization, siteID string) error {
	identity, err := h.auth.Authenticate(ctx, TrimBearer(authorization))
	if err != nil || identity.SiteID != siteID {
		return huma.Error404NotFound("site not found")
	}
	return nil
}

// Register adds all site API routes to the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-site",
		Method:      http.MethodPost,
		Path:        "/api/v1/sites",
		Summary:     "Provision a new wedding site",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, input *CreateSiteInput) (*CreateSiteOutput, error) {
		site, err := h.svc.Provision(ctx, input.Body.PrimaryName, input.Body.SecondaryName)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateSiteOutput{Body: toSiteResponse(site)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-site",
		Method:      http.MethodGet,
		Path:        "/api/v1/sites/{id}",
		Summary:     "Get a site by ID",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, input *GetSiteInput) (*GetSiteOutput, error) {
		site, err := h.svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetSiteOutput{Body: toSiteResponse(site)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sites",
		Method:      http.MethodGet,
		Path:        "/api/v1/sites",
		Summary:     "List sites",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, input *ListSitesInput) (*ListSitesOutput, error) {
		filter := domain.ListFilter{
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		sites, err := h.svc.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]SiteResponse, len(sites))
		for i, s := range sites {
			resp[i] = toSiteResponse(s)
		}
		return &ListSitesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "publish-site",
		Method:      http.MethodPost,
		Path:        "/api/v1/sites/{id}/publish",
		Summary:     "Publish a site, making it publicly visible",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, input *PublicationInput) (*PublishOutput, error) {
		if err := h.requireOwner(ctx, input.Authorization, input.ID); err != nil {
			return nil, err
		}

		site, err := h.svc.Publish(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &PublishOutput{}
		out.Body.IsPublished = site.Published
		out.Body.PublishedAt = formatTime(site.PublishedAt)
		out.Body.WeddingURL = h.WeddingURL(site.Subdomain)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "unpublish-site",
		Method:      http.MethodPost,
		Path:        "/api/v1/sites/{id}/unpublish",
		Summary:     "Unpublish a site, hiding it from the public",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, input *PublicationInput) (*UnpublishOutput, error) {
		if err := h.requireOwner(ctx, input.Authorization, input.ID); err != nil {
			return nil, err
		}

		site, err := h.svc.Unpublish(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &UnpublishOutput{}
		out.Body.IsPublished = site.Published
		out.Body.UnpublishedAt = formatTime(site.UnpublishedAt)
		return out, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrSiteNotFound) {
		return huma.Error404NotFound("site not found")
	}

	if errors.Is(err, domain.ErrNameEmpty) || errors.Is(err, domain.ErrSubdomainInvalid) {
		return huma.Error422UnprocessableEntity(err.Error())
	}

	if errors.Is(err, domain.ErrSubdomainExhausted) || errors.Is(err, domain.ErrSubdomainLocked) {
		return huma.Error409Conflict(err.Error())
	}

	var conflictErr *domain.SubdomainConflictError
	if errors.As(err, &conflictErr) {
		return huma.Error409Conflict(conflictErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
