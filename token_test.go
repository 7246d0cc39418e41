package oauthaccess

import (
	"errors"
	"testing"
)

func TestTokenWireFormRoundTrip(t *testing.T) {
	token := &Token{Token: "at", Secret: "ats"}
	s := token.String()
	if s != "oauth_token=at&oauth_token_secret=ats" {
		t.Fatalf("unexpected wire form: %q", s)
	}

	parsed, err := ParseToken(s)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parsed.Token != "at" || parsed.Secret != "ats" {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}
}

func TestTokenStringOmitsEmptySecret(t *testing.T) {
	token := &Token{Token: "bearer-only"}
	if got := token.String(); got != "oauth_token=bearer-only" {
		t.Fatalf("unexpected wire form: %q", got)
	}
}

func TestParseTokenErrors(t *testing.T) {
	if _, err := ParseToken("%zz"); err == nil {
		t.Fatal("malformed encoding should fail")
	}
	if _, err := ParseToken("foo=bar"); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestOAuth2TokenConversion(t *testing.T) {
	token := &Token{Token: "tok", Refresh: "ref", ExpiresIn: 3600}
	converted := token.OAuth2Token()
	if converted.AccessToken != "tok" || converted.RefreshToken != "ref" || converted.ExpiresIn != 3600 {
		t.Fatalf("unexpected conversion: %+v", converted)
	}
	if !converted.Expiry.IsZero() {
		t.Fatal("no expiry instant should be computed")
	}
}

func TestTokenSource(t *testing.T) {
	cfg := oauth2Config("https://p.example")
	cfg.Transport = noNetwork{t}
	flow, err := NewOAuth2Flow("abc", "shh", cfg)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	if flow.TokenSource() != nil {
		t.Fatal("token source should be nil before the exchange")
	}

	cfg.AccessToken = &Token{Token: "tok"}
	flow, err = NewOAuth2Flow("abc", "shh", cfg)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	source := flow.TokenSource()
	if source == nil {
		t.Fatal("token source missing after restore")
	}
	got, err := source.Token()
	if err != nil {
		t.Fatalf("source token: %v", err)
	}
	if got.AccessToken != "tok" {
		t.Fatalf("unexpected access token: %q", got.AccessToken)
	}
}

func TestOAuth2EndpointMapping(t *testing.T) {
	cfg := oauth2Config("https://p.example")
	endpoint := cfg.OAuth2Endpoint()
	if endpoint.AuthURL != "https://p.example/auth" || endpoint.TokenURL != "https://p.example/token" {
		t.Fatalf("unexpected endpoint: %+v", endpoint)
	}
}
