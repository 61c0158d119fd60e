package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lunaria-app/lunaria/internal/app"
	"github.com/lunaria-app/lunaria/internal/domain"
)

// PublicSiteResponse is the payload served on a tenant's public hostname.
type PublicSiteResponse struct {
	Subdomain     string          `json:"subdomain"`
	PrimaryName   string          `json:"primary_name"`
	SecondaryName string          `json:"secondary_name"`
	Features      map[string]bool `json:"features"`
	PublishedAt   string          `json:"published_at,omitempty"`
}

// PublicHandler serves the public-facing site endpoint. The request's
// Host header decides which tenant is served; nothing else does.
type PublicHandler struct {
	resolver *app.Resolver
	auth     domain.Authenticator
}

// NewPublicHandler creates the host-based public handler.
func NewPublicHandler(resolver *app.Resolver, auth domain.Authenticator) *PublicHandler {
	return &PublicHandler{resolver: resolver, auth: auth}
}

func (h *PublicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// A bearer token, if present and valid, enables owner draft preview.
	// Invalid or absent credentials just mean an anonymous viewer.
	var viewer domain.Identity
	if token := TrimBearer(r.Header.Get("Authorization")); token != "" {
		if identity, err := h.auth.Authenticate(r.Context(), token); err == nil {
			viewer = identity
		}
	}

	site, err := h.resolver.Resolve(r.Context(), r.Host, viewer)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	writeJSON(w, http.StatusOK, PublicSiteResponse{
		Subdomain:     site.Subdomain,
		PrimaryName:   site.PrimaryName,
		SecondaryName: site.SecondaryName,
		Features:      site.Features,
		PublishedAt:   formatTime(site.PublishedAt),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// TrimBearer strips an optional "Bearer " prefix from an Authorization
// header value.
func TrimBearer(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
