package http

import (
	"context"
	"errors"
	"strings"

	"github.com/lunaria-app/lunaria/internal/domain"
)

// errUnknownToken deliberately carries no detail about why a credential
// failed.
var errUnknownToken = errors.New("unknown token")

// StaticAuthenticator resolves tokens from a fixed in-memory table. It
// stands in for a real session service behind the domain.Authenticator
// port; the rest of the system only sees pass/fail plus an identity.
type StaticAuthenticator struct {
	tokens map[string]domain.Identity
}

// Compile-time check: StaticAuthenticator implements domain.Authenticator.
var _ domain.Authenticator = (*StaticAuthenticator)(nil)

// NewStaticAuthenticator creates an authenticator from a token table.
func NewStaticAuthenticator(tokens map[string]domain.Identity) *StaticAuthenticator {
	if tokens == nil {
		tokens = make(map[string]domain.Identity)
	}
	return &StaticAuthenticator{tokens: tokens}
}

// Grant registers a token for an identity. Used at boot and in tests.
func (a *StaticAuthenticator) Grant(token string, identity domain.Identity) {
	a.tokens[token] = identity
}

// Authenticate resolves a token to an identity, or fails.
func (a *StaticAuthenticator) Authenticate(_ context.Context, token string) (domain.Identity, error) {
	identity, ok := a.tokens[token]
	if !ok {
		return domain.Identity{}, errUnknownToken
	}
	return identity, nil
}

// ParseTokenTable parses the AUTH_TOKENS env format:
// "token:userID:siteID" entries separated by commas. Malformed entries
// are skipped.
func ParseTokenTable(raw string) map[string]domain.Identity {
	tokens := make(map[string]domain.Identity)
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 || parts[0] == "" {
			continue
		}
		tokens[parts[0]] = domain.Identity{UserID: parts[1], SiteID: parts[2]}
	}
	return tokens
}
