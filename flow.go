// Package oauthaccess implements the three-step OAuth dance (request-token
// acquisition, user authorization redirect, access-token exchange) against
// third-party providers, exposing OAuth 1.0a and OAuth 2.0 behind one flow
// contract.
//
// A flow holds the state of a single authorization attempt. Callers run the
// steps synchronously and persist intermediate state (request token,
// verifier or code) across the redirect boundary themselves, typically in
// session storage; the Config restore fields rebuild a flow from it.
package oauthaccess

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/beevik/etree"
)

// Kind selects how an API response body is decoded.
type Kind string

const (
	KindRaw  Kind = "raw"
	KindJSON Kind = "json"
	KindXML  Kind = "xml"
)

// Request describes one authenticated API call.
type Request struct {
	Method  string // GET or POST; empty means GET
	URL     string
	Params  url.Values
	Headers http.Header
	Files   []File // OAuth2 POST only; switches the body to multipart
	Token   *Token // overrides the token stored on the flow
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// Payload is a decoded API response. Raw always holds the original bytes;
// JSON or XML is populated according to Kind.
type Payload struct {
	Kind Kind
	Raw  []byte
	JSON any
	XML  *etree.Document
}

// Flow is the shared lifecycle of both protocol variants: fetch a request
// token (OAuth1 only), send the user to AuthURL, feed the redirect result
// back in, exchange it for an access token, then call APIs with it.
type Flow interface {
	// AuthParams returns the protocol's authorization parameters merged with
	// any configured extras.
	AuthParams() url.Values

	// FetchRequestToken performs OAuth1 step 1. OAuth2 flows have no such
	// step and return (nil, nil).
	FetchRequestToken(ctx context.Context) (*RequestToken, error)

	// AuthURL builds the URL the user must be redirected to. It never makes
	// a network call.
	AuthURL() (string, error)

	// ReceiveAccessToken exchanges the redirect result (verifier or code)
	// for the final access token and stores it on the flow.
	ReceiveAccessToken(ctx context.Context) (*Token, error)

	// CallAPI dispatches an authenticated request and decodes the response
	// as kind.
	CallAPI(ctx context.Context, kind Kind, req Request) (*Payload, error)
}

// dispatcher is the per-variant transport hook behind CallAPI.
type dispatcher interface {
	protocol() string
	dispatch(ctx context.Context, req Request, token *Token) (status int, content []byte, err error)
}

// callAPI is the single normalization point shared by both variants: resolve
// the effective token, dispatch, then classify status, emptiness, and the
// requested decode kind, in that order.
func callAPI(ctx context.Context, d dispatcher, stored *Token, kind Kind, req Request) (*Payload, error) {
	token := req.Token
	if token == nil {
		token = stored
	}
	if token == nil {
		return nil, fmt.Errorf("no token for API call: %w", ErrMissingToken)
	}

	status, content, err := d.dispatch(ctx, req, token)
	if err != nil {
		apiCalls.WithLabelValues(d.protocol(), outcomeError).Inc()
		return nil, err
	}
	if status == http.StatusUnauthorized {
		apiCalls.WithLabelValues(d.protocol(), outcomeNotAuthorized).Inc()
		return nil, ErrNotAuthorized
	}
	if len(content) == 0 {
		apiCalls.WithLabelValues(d.protocol(), outcomeServiceFail).Inc()
		return nil, ServiceFailError{Reason: "no content"}
	}

	payload, err := decodePayload(kind, content)
	if err != nil {
		apiCalls.WithLabelValues(d.protocol(), outcomeServiceFail).Inc()
		return nil, err
	}
	apiCalls.WithLabelValues(d.protocol(), outcomeOK).Inc()
	return payload, nil
}
