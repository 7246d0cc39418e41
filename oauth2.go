package oauthaccess

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
)

// authCodeParams is the authorize-redirect query for the code grant.
type authCodeParams struct {
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	ResponseType string `url:"response_type"`
}

// exchangeParams is the form body POSTed to the access-token endpoint.
type exchangeParams struct {
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	ClientSecret string `url:"client_secret"`
	Code         string `url:"code"`
	GrantType    string `url:"grant_type"`
}

// OAuth2Flow implements the authorization-code grant. There is no
// request-token step; FetchRequestToken exists only to satisfy the Flow
// contract. API calls send the token bearer-style, as an access_token
// parameter rather than a signed header.
//
// Instances are not safe for concurrent use.
type OAuth2Flow struct {
	creds     Credentials
	cfg       Config
	transport Doer

	code        string
	accessToken *Token
}

var _ Flow = (*OAuth2Flow)(nil)

// NewOAuth2Flow builds a flow for the given client credentials. The
// authorize, access-token, and callback URLs are required.
func NewOAuth2Flow(consumerKey, consumerSecret string, cfg Config) (*OAuth2Flow, error) {
	if consumerKey == "" {
		return nil, fmt.Errorf("oauthaccess: consumer key is required")
	}
	if err := cfg.validateOAuth2(); err != nil {
		return nil, err
	}
	transport := cfg.Transport
	if transport == nil {
		transport = defaultTransport()
	}
	return &OAuth2Flow{
		creds:       Credentials{Key: consumerKey, Secret: consumerSecret},
		cfg:         cfg,
		transport:   transport,
		code:        cfg.Code,
		accessToken: cfg.AccessToken,
	}, nil
}

// AuthParams returns the code-grant parameters merged with any extra auth
// params.
func (f *OAuth2Flow) AuthParams() url.Values {
	vals, _ := query.Values(authCodeParams{
		ClientID:     f.creds.Key,
		RedirectURI:  f.cfg.CallbackURL,
		ResponseType: "code",
	})
	return mergeValues(vals, f.cfg.ExtraAuthParams)
}

// FetchRequestToken is a no-op: the code grant has no request-token step.
func (f *OAuth2Flow) FetchRequestToken(ctx context.Context) (*RequestToken, error) {
	return nil, nil
}

// AuthURL is pure URL construction: the authorize endpoint plus the encoded
// auth params. No signing, no network call.
func (f *OAuth2Flow) AuthURL() (string, error) {
	params := f.cfg.applyScope(f.AuthParams())
	return f.cfg.AuthorizeURL + "?" + params.Encode(), nil
}

// SetAuthorizationCode supplies the single-use code returned with the
// callback redirect.
func (f *OAuth2Flow) SetAuthorizationCode(code string) {
	f.code = code
}

// ReceiveAccessToken exchanges the authorization code for the access-token
// bundle. Without a code the flow is not ready yet and
// ErrAuthorizationPending is returned; no token state changes. A response
// that is not 200 or carries no access_token fails with ErrMissingToken.
func (f *OAuth2Flow) ReceiveAccessToken(ctx context.Context) (*Token, error) {
	if f.code == "" {
		return nil, ErrAuthorizationPending
	}

	vals, err := query.Values(exchangeParams{
		ClientID:     f.creds.Key,
		RedirectURI:  f.cfg.CallbackURL,
		ClientSecret: f.creds.Secret,
		Code:         f.code,
		GrantType:    "authorization_code",
	})
	if err != nil {
		return nil, fmt.Errorf("encode exchange body: %w", err)
	}
	body := f.cfg.applyScope(vals)

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	if f.cfg.UserAgent != "" {
		header.Set("User-Agent", f.cfg.UserAgent)
	}

	status, content, err := send(ctx, f.transport, http.MethodPost, f.cfg.AccessTokenURL, header, []byte(body.Encode()))
	if err != nil {
		exchangeFailure.WithLabelValues(protocolOAuth2).Inc()
		return nil, err
	}

	fields := decodeTokenResponse(content)
	access, _ := fields["access_token"].(string)
	if status != http.StatusOK || access == "" {
		exchangeFailure.WithLabelValues(protocolOAuth2).Inc()
		return nil, fmt.Errorf("token exchange status %d: %w", status, ErrMissingToken)
	}

	expires, err := expirySeconds(fields["expires_in"])
	if err != nil {
		exchangeFailure.WithLabelValues(protocolOAuth2).Inc()
		return nil, err
	}
	token := &Token{Token: access, ExpiresIn: expires}
	if refresh, ok := fields["refresh_token"].(string); ok {
		token.Refresh = refresh
	}
	f.accessToken = token
	exchangeSuccess.WithLabelValues(protocolOAuth2).Inc()
	return token, nil
}

// CallAPI dispatches a bearer-style API request and decodes the response as
// kind.
func (f *OAuth2Flow) CallAPI(ctx context.Context, kind Kind, req Request) (*Payload, error) {
	return callAPI(ctx, f, f.accessToken, kind, req)
}

// AccessToken returns the stored access token, nil before a successful
// exchange.
func (f *OAuth2Flow) AccessToken() *Token {
	return f.accessToken
}

func (f *OAuth2Flow) protocol() string { return protocolOAuth2 }

func (f *OAuth2Flow) dispatch(ctx context.Context, req Request, token *Token) (int, []byte, error) {
	params := url.Values{"access_token": {token.Token}}
	for key, vals := range req.Params {
		for _, v := range vals {
			params.Add(key, v)
		}
	}

	header := http.Header{}
	for key, vals := range req.Headers {
		for _, v := range vals {
			header.Add(key, v)
		}
	}

	method := req.method()
	if method == http.MethodPost {
		if len(req.Files) > 0 {
			contentType, body, err := encodeMultipart(params, req.Files)
			if err != nil {
				return 0, nil, err
			}
			header.Set("Content-Type", contentType)
			return send(ctx, f.transport, method, req.URL, header, body)
		}
		header.Set("Content-Type", "application/x-www-form-urlencoded")
		return send(ctx, f.transport, method, req.URL, header, []byte(params.Encode()))
	}

	sep := "?"
	if strings.Contains(req.URL, "?") {
		sep = "&"
	}
	return send(ctx, f.transport, method, req.URL+sep+params.Encode(), header, nil)
}
