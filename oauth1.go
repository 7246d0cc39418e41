package oauthaccess

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gomodule/oauth1/oauth"
)

// OAuth1Flow implements the 3-legged OAuth 1.0a dance. HMAC-SHA1 signing is
// delegated to the oauth1 client, and every signed request carries an
// explicit Authorization header, which the stricter providers require.
//
// A flow moves through three states: unauthenticated, request token
// obtained, access token obtained. Steps guard against running out of
// order. Instances are not safe for concurrent use.
type OAuth1Flow struct {
	creds     Credentials
	cfg       Config
	signer    *oauth.Client
	transport Doer

	requestToken *RequestToken
	verifier     string
	accessToken  *Token
}

var _ Flow = (*OAuth1Flow)(nil)

// NewOAuth1Flow builds a flow for the given consumer credentials. All four
// endpoint URLs are required; restore fields in cfg seed the flow state for
// use after the redirect.
func NewOAuth1Flow(consumerKey, consumerSecret string, cfg Config) (*OAuth1Flow, error) {
	if consumerKey == "" || consumerSecret == "" {
		return nil, fmt.Errorf("oauthaccess: consumer key and secret are required")
	}
	if err := cfg.validateOAuth1(); err != nil {
		return nil, err
	}
	transport := cfg.Transport
	if transport == nil {
		transport = defaultTransport()
	}
	return &OAuth1Flow{
		creds: Credentials{Key: consumerKey, Secret: consumerSecret},
		cfg:   cfg,
		signer: &oauth.Client{
			Credentials:                   oauth.Credentials{Token: consumerKey, Secret: consumerSecret},
			TemporaryCredentialRequestURI: cfg.RequestTokenURL,
			ResourceOwnerAuthorizationURI: cfg.AuthorizeURL,
			TokenRequestURI:               cfg.AccessTokenURL,
			SignatureMethod:               oauth.HMACSHA1,
		},
		transport:    transport,
		requestToken: cfg.RequestToken,
		verifier:     cfg.Verifier,
		accessToken:  cfg.AccessToken,
	}, nil
}

// AuthParams returns the step-1 parameters: the configured callback merged
// with any extra auth params.
func (f *OAuth1Flow) AuthParams() url.Values {
	params := url.Values{"oauth_callback": {f.cfg.CallbackURL}}
	return mergeValues(params, f.cfg.ExtraAuthParams)
}

// FetchRequestToken performs step 1: a signed GET to the request-token
// endpoint using consumer credentials only. The returned temporary pair is
// stored on the flow for the authorize and exchange steps.
func (f *OAuth1Flow) FetchRequestToken(ctx context.Context) (*RequestToken, error) {
	endpoint, err := url.Parse(f.cfg.RequestTokenURL)
	if err != nil {
		return nil, fmt.Errorf("parse request token URL: %w", err)
	}

	form := f.cfg.applyScope(f.AuthParams())
	header := http.Header{}
	if err := f.signer.SetAuthorizationHeader(header, nil, http.MethodGet, endpoint, form); err != nil {
		return nil, fmt.Errorf("sign request token call: %w", err)
	}

	status, content, err := send(ctx, f.transport, http.MethodGet, f.cfg.RequestTokenURL+"?"+form.Encode(), header, nil)
	if err != nil {
		requestTokenFailure.Inc()
		return nil, err
	}
	if status != http.StatusOK {
		requestTokenFailure.Inc()
		return nil, StatusError{Status: status, Body: content}
	}

	vals, err := url.ParseQuery(string(content))
	if err != nil {
		requestTokenFailure.Inc()
		return nil, ServiceFailError{Reason: "request token parse error", Content: content}
	}
	f.requestToken = &RequestToken{
		Token:  vals.Get("oauth_token"),
		Secret: vals.Get("oauth_token_secret"),
	}
	requestTokenSuccess.Inc()
	return f.requestToken, nil
}

// AuthURL builds the signed redirect URL for the authorize endpoint. The
// signature covers the current request token; no network call is made.
func (f *OAuth1Flow) AuthURL() (string, error) {
	if f.requestToken == nil {
		return "", fmt.Errorf("oauthaccess: no request token; call FetchRequestToken first")
	}
	form := url.Values{}
	token := &oauth.Credentials{Token: f.requestToken.Token, Secret: f.requestToken.Secret}
	if err := f.signer.SignForm(token, http.MethodGet, f.cfg.AuthorizeURL, form); err != nil {
		return "", fmt.Errorf("sign authorize URL: %w", err)
	}
	return f.cfg.AuthorizeURL + "?" + form.Encode(), nil
}

// SetVerifier supplies the proof-of-authorization string returned with the
// callback redirect.
func (f *OAuth1Flow) SetVerifier(verifier string) {
	f.verifier = verifier
}

// ReceiveAccessToken performs step 3: a signed GET to the access-token
// endpoint carrying the verifier, signed with the consumer plus the request
// token. The resulting pair becomes the flow's access token.
func (f *OAuth1Flow) ReceiveAccessToken(ctx context.Context) (*Token, error) {
	if f.requestToken == nil {
		return nil, fmt.Errorf("oauthaccess: no request token; call FetchRequestToken first")
	}
	endpoint, err := url.Parse(f.cfg.AccessTokenURL)
	if err != nil {
		return nil, fmt.Errorf("parse access token URL: %w", err)
	}

	form := url.Values{}
	if f.verifier != "" {
		form.Set("oauth_verifier", f.verifier)
	}
	header := http.Header{}
	token := &oauth.Credentials{Token: f.requestToken.Token, Secret: f.requestToken.Secret}
	if err := f.signer.SetAuthorizationHeader(header, token, http.MethodGet, endpoint, form); err != nil {
		return nil, fmt.Errorf("sign access token call: %w", err)
	}

	requestURL := f.cfg.AccessTokenURL
	if len(form) > 0 {
		requestURL += "?" + form.Encode()
	}
	status, content, err := send(ctx, f.transport, http.MethodGet, requestURL, header, nil)
	if err != nil {
		exchangeFailure.WithLabelValues(protocolOAuth1).Inc()
		return nil, err
	}
	if status != http.StatusOK {
		exchangeFailure.WithLabelValues(protocolOAuth1).Inc()
		return nil, StatusError{Status: status, Body: content}
	}

	access, err := ParseToken(string(content))
	if err != nil {
		exchangeFailure.WithLabelValues(protocolOAuth1).Inc()
		return nil, err
	}
	f.accessToken = access
	exchangeSuccess.WithLabelValues(protocolOAuth1).Inc()
	return access, nil
}

// CallAPI dispatches a signed API request and decodes the response as kind.
func (f *OAuth1Flow) CallAPI(ctx context.Context, kind Kind, req Request) (*Payload, error) {
	return callAPI(ctx, f, f.accessToken, kind, req)
}

// AccessToken returns the stored access token, nil before a successful
// exchange.
func (f *OAuth1Flow) AccessToken() *Token {
	return f.accessToken
}

func (f *OAuth1Flow) protocol() string { return protocolOAuth1 }

func (f *OAuth1Flow) dispatch(ctx context.Context, req Request, token *Token) (int, []byte, error) {
	endpoint, err := url.Parse(req.URL)
	if err != nil {
		return 0, nil, fmt.Errorf("parse URL: %w", err)
	}

	params := url.Values{}
	for key, vals := range req.Params {
		for _, v := range vals {
			params.Add(key, v)
		}
	}
	// The signature base string must cover every request parameter, so any
	// query already on the URL is folded into the signed set.
	if endpoint.RawQuery != "" {
		qs, err := url.ParseQuery(endpoint.RawQuery)
		if err != nil {
			return 0, nil, fmt.Errorf("parse URL query: %w", err)
		}
		for key, vals := range qs {
			for _, v := range vals {
				params.Add(key, v)
			}
		}
		endpoint.RawQuery = ""
	}

	header := http.Header{}
	for key, vals := range req.Headers {
		for _, v := range vals {
			header.Add(key, v)
		}
	}

	method := req.method()
	creds := &oauth.Credentials{Token: token.Token, Secret: token.Secret}
	if err := f.signer.SetAuthorizationHeader(header, creds, method, endpoint, params); err != nil {
		return 0, nil, fmt.Errorf("sign API call: %w", err)
	}

	if method == http.MethodPost {
		header.Set("Content-Type", "application/x-www-form-urlencoded")
		return send(ctx, f.transport, method, endpoint.String(), header, []byte(params.Encode()))
	}

	requestURL := endpoint.String()
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}
	return send(ctx, f.transport, method, requestURL, header, nil)
}
