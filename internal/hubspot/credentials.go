package hubspot

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenProvider yields the access token used for a tenant's CRM calls.
// Acquiring and refreshing tokens is the provider's business; the client
// only checks that the token it gets is usable.
type TokenProvider interface {
	Token(ctx context.Context, customerID string) (*oauth2.Token, error)
}

// TokenSources maps tenants to oauth2 token sources, falling back to
// Default for tenants without their own.
type TokenSources struct {
	Default oauth2.TokenSource
	Tenants map[string]oauth2.TokenSource
}

// StaticTokens builds TokenSources from fixed access tokens. Empty tokens
// are ignored.
func StaticTokens(defaultToken string, tenants map[string]string) *TokenSources {
	ts := &TokenSources{Tenants: make(map[string]oauth2.TokenSource, len(tenants))}
	if defaultToken != "" {
		ts.Default = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: defaultToken, TokenType: "Bearer"})
	}
	for customerID, tok := range tenants {
		if tok == "" {
			continue
		}
		ts.Tenants[customerID] = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
	}
	return ts
}

// Token implements TokenProvider.
func (s *TokenSources) Token(_ context.Context, customerID string) (*oauth2.Token, error) {
	src, ok := s.Tenants[customerID]
	if !ok {
		src = s.Default
	}
	if src == nil {
		return nil, fmt.Errorf("no token for customer %q: %w", customerID, ErrAuth)
	}
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("token for customer %q: %v: %w", customerID, err, ErrAuth)
	}
	return tok, nil
}
