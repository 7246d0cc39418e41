package oauthaccess

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// Doer executes a single blocking HTTP request. *http.Client satisfies it;
// the library never manages connections, timeouts, or retries itself.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

func defaultTransport() Doer {
	return cleanhttp.DefaultClient()
}

// send issues one request and returns the status code with the full response
// body. A non-2xx status is not an error at this level; classification is
// the caller's job.
func send(ctx context.Context, t Doer, method, urlStr string, header http.Header, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	for key, vals := range header {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}
	resp, err := t.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, content, nil
}
