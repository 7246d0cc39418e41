package oauthaccess

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/beevik/etree"
)

func decodePayload(kind Kind, content []byte) (*Payload, error) {
	switch kind {
	case KindRaw:
		return &Payload{Kind: KindRaw, Raw: content}, nil
	case KindJSON:
		var v any
		if err := json.Unmarshal(content, &v); err != nil {
			return nil, ServiceFailError{Reason: "JSON parse error", Content: content}
		}
		return &Payload{Kind: KindJSON, Raw: content, JSON: v}, nil
	case KindXML:
		doc := etree.NewDocument()
		// etree accepts rootless character data, so a missing root element is
		// treated as a parse failure too.
		if err := doc.ReadFromBytes(content); err != nil || doc.Root() == nil {
			return nil, ServiceFailError{Reason: "XML parse error", Content: content}
		}
		return &Payload{Kind: KindXML, Raw: content, XML: doc}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedKind, string(kind))
	}
}

// decodeTokenResponse parses an OAuth2 token endpoint body. Providers send
// either JSON or a url-encoded form; some report the expiry under expires
// instead of expires_in, so that field is renamed here.
func decodeTokenResponse(content []byte) map[string]any {
	fields := map[string]any{}
	if err := json.Unmarshal(content, &fields); err != nil {
		fields = map[string]any{}
		if vals, err := url.ParseQuery(string(content)); err == nil {
			for key := range vals {
				fields[key] = vals.Get(key)
			}
		}
	}
	if v, ok := fields["expires"]; ok {
		fields["expires_in"] = v
		delete(fields, "expires")
	}
	return fields
}

// expirySeconds coerces the expires_in field, which arrives as a JSON number
// or a form string, into raw seconds. nil means the provider sent nothing.
func expirySeconds(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return int64(x), nil
	case string:
		if x == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse expires_in: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("parse expires_in: unexpected type %T", v)
	}
}
