package oauthaccess

import "golang.org/x/oauth2"

// OAuth2Token converts the bundle into an x/oauth2 token. ExpiresIn is
// carried through exactly as reported; no expiry instant is computed.
func (t *Token) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.Token,
		RefreshToken: t.Refresh,
		ExpiresIn:    t.ExpiresIn,
	}
}

// TokenSource exposes the stored access token to x/oauth2-based clients. It
// returns nil before a successful exchange. The source is static: this
// library never refreshes tokens.
func (f *OAuth2Flow) TokenSource() oauth2.TokenSource {
	if f.accessToken == nil {
		return nil
	}
	return oauth2.StaticTokenSource(f.accessToken.OAuth2Token())
}

// OAuth2Endpoint maps the configured URLs onto an x/oauth2 endpoint.
func (c Config) OAuth2Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:  c.AuthorizeURL,
		TokenURL: c.AccessTokenURL,
	}
}
