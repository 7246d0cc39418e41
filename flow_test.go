package oauthaccess

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

type stubDispatcher struct {
	status  int
	content []byte
	err     error
}

func (s *stubDispatcher) protocol() string { return "stub" }

func (s *stubDispatcher) dispatch(context.Context, Request, *Token) (int, []byte, error) {
	return s.status, s.content, s.err
}

func stubCall(t *testing.T, d dispatcher, kind Kind) (*Payload, error) {
	t.Helper()
	return callAPI(context.Background(), d, &Token{Token: "tok"}, kind, Request{URL: "https://api.example/x"})
}

func TestCallAPINoToken(t *testing.T) {
	d := &stubDispatcher{status: 200, content: []byte("{}")}
	_, err := callAPI(context.Background(), d, nil, KindJSON, Request{URL: "https://api.example/x"})
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestCallAPIExplicitTokenOverridesStored(t *testing.T) {
	d := &stubDispatcher{status: 200, content: []byte("ok")}
	req := Request{URL: "https://api.example/x", Token: &Token{Token: "explicit"}}
	if _, err := callAPI(context.Background(), d, nil, KindRaw, req); err != nil {
		t.Fatalf("call with explicit token: %v", err)
	}
}

func TestCallAPIUnauthorizedWinsOverKind(t *testing.T) {
	d := &stubDispatcher{status: 401, content: []byte(`{"ok":true}`)}
	for _, kind := range []Kind{KindRaw, KindJSON, KindXML, Kind("yaml")} {
		if _, err := stubCall(t, d, kind); !errors.Is(err, ErrNotAuthorized) {
			t.Fatalf("kind %s: expected ErrNotAuthorized, got %v", kind, err)
		}
	}
}

func TestCallAPIEmptyBody(t *testing.T) {
	d := &stubDispatcher{status: 200, content: nil}
	_, err := stubCall(t, d, KindJSON)
	var sf ServiceFailError
	if !errors.As(err, &sf) {
		t.Fatalf("expected ServiceFailError, got %v", err)
	}
	if sf.Reason != "no content" {
		t.Fatalf("unexpected reason: %q", sf.Reason)
	}
}

func TestCallAPIJSONParseError(t *testing.T) {
	body := []byte("<html>definitely not json</html>")
	d := &stubDispatcher{status: 200, content: body}
	_, err := stubCall(t, d, KindJSON)
	var sf ServiceFailError
	if !errors.As(err, &sf) {
		t.Fatalf("expected ServiceFailError, got %v", err)
	}
	if sf.Reason != "JSON parse error" {
		t.Fatalf("unexpected reason: %q", sf.Reason)
	}
	if !bytes.Equal(sf.Content, body) {
		t.Fatalf("error should carry the original content, got %q", sf.Content)
	}
}

func TestCallAPIRawPassthrough(t *testing.T) {
	body := []byte{0x89, 'P', 'N', 'G'}
	d := &stubDispatcher{status: 200, content: body}
	payload, err := stubCall(t, d, KindRaw)
	if err != nil {
		t.Fatalf("raw call: %v", err)
	}
	if !bytes.Equal(payload.Raw, body) {
		t.Fatalf("raw bytes modified: %q", payload.Raw)
	}
}

func TestCallAPIJSON(t *testing.T) {
	d := &stubDispatcher{status: 200, content: []byte(`{"count":2}`)}
	payload, err := stubCall(t, d, KindJSON)
	if err != nil {
		t.Fatalf("json call: %v", err)
	}
	obj, ok := payload.JSON.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", payload.JSON)
	}
	if obj["count"] != float64(2) {
		t.Fatalf("unexpected count: %v", obj["count"])
	}
}

func TestCallAPIXML(t *testing.T) {
	d := &stubDispatcher{status: 200, content: []byte(`<status><id>7</id></status>`)}
	payload, err := stubCall(t, d, KindXML)
	if err != nil {
		t.Fatalf("xml call: %v", err)
	}
	root := payload.XML.Root()
	if root == nil || root.Tag != "status" {
		t.Fatalf("unexpected root: %+v", root)
	}
	if got := root.SelectElement("id").Text(); got != "7" {
		t.Fatalf("unexpected id: %q", got)
	}
}

func TestCallAPIXMLParseError(t *testing.T) {
	for _, body := range []string{"not xml at all", "<a><b></a>"} {
		d := &stubDispatcher{status: 200, content: []byte(body)}
		_, err := stubCall(t, d, KindXML)
		var sf ServiceFailError
		if !errors.As(err, &sf) {
			t.Fatalf("body %q: expected ServiceFailError, got %v", body, err)
		}
		if sf.Reason != "XML parse error" {
			t.Fatalf("body %q: unexpected reason: %q", body, sf.Reason)
		}
	}
}

func TestCallAPIUnsupportedKind(t *testing.T) {
	d := &stubDispatcher{status: 200, content: []byte("x")}
	if _, err := stubCall(t, d, Kind("yaml")); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestCallAPIDispatchError(t *testing.T) {
	d := &stubDispatcher{err: errors.New("connection refused")}
	if _, err := stubCall(t, d, KindRaw); err == nil {
		t.Fatal("expected dispatch error to propagate")
	}
}
