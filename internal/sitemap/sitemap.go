// Package sitemap seeds the path wordlist with entries discovered in the
// target's robots.txt and sitemap.xml.
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"robotfuzz/internal/templater"
	"robotfuzz/internal/utils"
)

// ErrSitemapStatus is returned when sitemap.xml answers with a non-2xx status.
var ErrSitemapStatus = errors.New("unexpected sitemap status")

var locPattern = regexp.MustCompile(`(?i)<loc>(.*?)</loc>`)

// Fetcher downloads robots.txt and sitemap.xml for a URL template.
type Fetcher struct {
	client  *http.Client
	headers http.Header
}

func NewFetcher(client *http.Client, headers http.Header) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, headers: headers}
}

// Fetch returns the path+query of every URL listed in sitemap.xml. A failed
// robots.txt fetch is only logged; a failed sitemap.xml fetch is returned.
func (f *Fetcher) Fetch(ctx context.Context, template string) ([]string, error) {
	robots, status, err := f.get(ctx, templater.Resolve(template, "robots.txt", ""))
	switch {
	case err != nil:
		utils.PrintWarning(fmt.Sprintf("Failed to fetch robots.txt: %v", err))
	case status < 200 || status > 299:
		utils.PrintWarning(fmt.Sprintf("Failed to fetch robots.txt: Status %d", status))
	default:
		utils.PrintInfo(fmt.Sprintf("Robot Wordlist: %v", RobotsWords(robots)))
	}

	sitemapURL := templater.Resolve(template, "sitemap.xml", "")
	body, status, err := f.get(ctx, sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap.xml: %w", err)
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w %d for %s", ErrSitemapStatus, status, sitemapURL)
	}
	return ExtractPaths(body), nil
}

func (f *Fetcher) get(ctx context.Context, target string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", 0, err
	}
	for key, values := range f.headers {
		req.Header[key] = values
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(body), resp.StatusCode, nil
}

// ExtractPaths returns path[?query] for every <loc> URL in text. URLs that
// share everything before the query collapse to their first occurrence.
func ExtractPaths(text string) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, match := range locPattern.FindAllStringSubmatch(text, -1) {
		u, err := url.Parse(strings.TrimSpace(match[1]))
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		key := u.Scheme + "://" + u.Host + u.EscapedPath()
		if seen[key] {
			continue
		}
		seen[key] = true
		path := u.EscapedPath()
		if path == "" {
			path = "/"
		}
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		paths = append(paths, path)
	}
	return paths
}

// RobotsWords lower-cases and de-duplicates the whitespace separated words of a
// robots.txt body, keeping first-seen order.
func RobotsWords(text string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, word := range strings.Fields(text) {
		word = strings.ToLower(word)
		if seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	return words
}

// Merge strips leading slashes from paths and returns the ordered union of
// wordlist and paths.
func Merge(wordlist, paths []string) []string {
	seen := make(map[string]bool, len(wordlist)+len(paths))
	merged := make([]string, 0, len(wordlist)+len(paths))
	add := func(entry string) {
		if seen[entry] {
			return
		}
		seen[entry] = true
		merged = append(merged, entry)
	}
	for _, entry := range wordlist {
		add(entry)
	}
	for _, p := range paths {
		add(strings.TrimLeft(p, "/"))
	}
	return merged
}
