package oauthaccess

import (
	"fmt"
	"net/url"
	"strings"
)

// Config carries the fixed per-provider endpoints and optional overrides for
// a flow. The restore fields (RequestToken, Verifier, Code, AccessToken) let
// a flow be rebuilt on the far side of the authorization redirect from
// whatever the caller persisted in its session.
type Config struct {
	RequestTokenURL string // OAuth1 step-1 endpoint
	AccessTokenURL  string
	AuthorizeURL    string
	CallbackURL     string

	Scopes          []string
	ExtraAuthParams url.Values
	UserAgent       string // sent on the OAuth2 code exchange when set

	// Transport executes HTTP requests. Defaults to cleanhttp's client.
	Transport Doer

	RequestToken *RequestToken
	Verifier     string
	Code         string
	AccessToken  *Token
}

func (c Config) validateOAuth1() error {
	if c.RequestTokenURL == "" {
		return fmt.Errorf("oauthaccess: request token URL is required")
	}
	if c.AccessTokenURL == "" {
		return fmt.Errorf("oauthaccess: access token URL is required")
	}
	if c.AuthorizeURL == "" {
		return fmt.Errorf("oauthaccess: authorize URL is required")
	}
	if c.CallbackURL == "" {
		return fmt.Errorf("oauthaccess: callback URL is required")
	}
	return nil
}

func (c Config) validateOAuth2() error {
	if c.AccessTokenURL == "" {
		return fmt.Errorf("oauthaccess: access token URL is required")
	}
	if c.AuthorizeURL == "" {
		return fmt.Errorf("oauthaccess: authorize URL is required")
	}
	if c.CallbackURL == "" {
		return fmt.Errorf("oauthaccess: callback URL is required")
	}
	return nil
}

// applyScope folds the configured scope list into params as a single
// space-joined value.
func (c Config) applyScope(params url.Values) url.Values {
	if len(c.Scopes) > 0 {
		params.Set("scope", strings.Join(c.Scopes, " "))
	}
	return params
}

// mergeValues copies src into dst, replacing keys that collide.
func mergeValues(dst, src url.Values) url.Values {
	for key, vals := range src {
		dst[key] = append([]string(nil), vals...)
	}
	return dst
}
