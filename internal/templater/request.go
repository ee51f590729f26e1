package templater

import (
	"context"
	"net/http"
	"strings"
)

// NewRequest builds a GET request for a resolved target. Targets that
// net/url rejects, such as a path holding a bare '%', are sent with the
// path and query bytes exactly as written.
func NewRequest(ctx context.Context, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err == nil {
		return req, nil
	}

	scheme, rest, ok := strings.Cut(target, "://")
	if !ok {
		return nil, err
	}
	host, raw := rest, "/"
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		host, raw = rest[:i], rest[i:]
		if raw[0] == '?' {
			raw = "/" + raw
		}
	}
	req, rawErr := http.NewRequestWithContext(ctx, http.MethodGet, scheme+"://"+host+"/", nil)
	if rawErr != nil {
		return nil, err
	}
	req.URL.Path = ""
	req.URL.RawPath = ""
	req.URL.Opaque = "//" + req.URL.Host + raw
	return req, nil
}
