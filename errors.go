package oauthaccess

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthorized is returned when an authenticated call comes back with
	// HTTP 401: the access token is invalid or expired and the user must
	// re-authenticate.
	ErrNotAuthorized = errors.New("oauthaccess: not authorized")

	// ErrMissingToken is returned when a token exchange completed without a
	// usable access token, or when an API call has no token to send.
	ErrMissingToken = errors.New("oauthaccess: missing access token")

	// ErrAuthorizationPending is returned by OAuth2 ReceiveAccessToken when no
	// authorization code has been supplied yet. It marks a flow that is not
	// ready, not one that failed.
	ErrAuthorizationPending = errors.New("oauthaccess: authorization code not supplied")

	// ErrUnsupportedKind is returned for payload kinds the library does not
	// know how to decode. This is caller misuse, not a provider condition.
	ErrUnsupportedKind = errors.New("oauthaccess: unsupported payload kind")
)

// ServiceFailError reports a provider response that was delivered but
// unusable: an empty body, or one that could not be decoded in the requested
// kind. Content holds the original response body when there was one.
type ServiceFailError struct {
	Reason  string
	Content []byte
}

func (e ServiceFailError) Error() string {
	return fmt.Sprintf("oauthaccess: service fail: %s", e.Reason)
}

// StatusError reports an unexpected HTTP status from a token endpoint.
type StatusError struct {
	Status int
	Body   []byte
}

func (e StatusError) Error() string {
	return fmt.Sprintf("oauthaccess: invalid response %d", e.Status)
}
