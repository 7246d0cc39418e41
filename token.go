package oauthaccess

import (
	"fmt"
	"net/url"
)

// Credentials is the consumer key/secret pair registered with a provider.
type Credentials struct {
	Key    string
	Secret string
}

// RequestToken is the temporary OAuth1 credential pair obtained in step 1.
// It exists only to obtain user authorization and is consumed by the
// access-token exchange.
type RequestToken struct {
	Token  string
	Secret string
}

// Token is the final access credential. OAuth1 flows populate Token and
// Secret, which together form the signing key for API calls. OAuth2 flows
// populate Token and optionally Refresh and ExpiresIn; ExpiresIn is the raw
// seconds value as the provider reported it, never converted to an instant.
type Token struct {
	Token     string
	Secret    string
	Refresh   string
	ExpiresIn int64
}

// String serializes the token in the url-encoded wire form used by OAuth1
// providers, suitable for stashing in session storage across the redirect.
func (t *Token) String() string {
	v := url.Values{"oauth_token": {t.Token}}
	if t.Secret != "" {
		v.Set("oauth_token_secret", t.Secret)
	}
	return v.Encode()
}

// ParseToken parses the url-encoded oauth_token/oauth_token_secret form
// produced by String and by OAuth1 access-token endpoints.
func ParseToken(s string) (*Token, error) {
	vals, err := url.ParseQuery(s)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	tok := vals.Get("oauth_token")
	if tok == "" {
		return nil, fmt.Errorf("parse token: %w", ErrMissingToken)
	}
	return &Token{Token: tok, Secret: vals.Get("oauth_token_secret")}, nil
}
