package fingerprint

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	wappalyzer "github.com/projectdiscovery/wappalyzergo"
)

const maxBodySize = 4 << 20

// Wappalyzer detects technologies in-process from one GET of the target.
type Wappalyzer struct {
	client *http.Client

	once   sync.Once
	engine *wappalyzer.Wappalyze
	err    error
}

// NewWappalyzer creates a prober that fetches with client.
func NewWappalyzer(client *http.Client) *Wappalyzer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Wappalyzer{client: client}
}

func (w *Wappalyzer) Name() string { return "wappalyzer" }

// Probe returns the detected technologies, sorted and comma separated.
func (w *Wappalyzer) Probe(ctx context.Context, target string) (string, error) {
	w.once.Do(func() {
		w.engine, w.err = wappalyzer.New()
	})
	if w.err != nil {
		return "", fmt.Errorf("init wappalyzer: %w", w.err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", target, err)
	}

	techs := make([]string, 0)
	for tech := range w.engine.Fingerprint(resp.Header, body) {
		techs = append(techs, tech)
	}
	sort.Strings(techs)
	if len(techs) == 0 {
		return "no technologies detected", nil
	}
	return strings.Join(techs, ", "), nil
}
