// Package templater turns URL templates into concrete request URLs.
package templater

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// Primary is the placeholder replaced by entries of the first wordlist.
	Primary = "FUZZ"
	// Secondary is the placeholder replaced by entries of the second wordlist.
	Secondary = "FUZ2Z"
	// VhostLabel is the host label the vhost driver swaps for each candidate.
	VhostLabel = "fuzz."
)

// Resolve substitutes payload for every Primary token and payload2 for every
// Secondary token. Payloads are inserted verbatim, without URL encoding.
func Resolve(template, payload, payload2 string) string {
	resolved := strings.ReplaceAll(template, Primary, payload)
	return strings.ReplaceAll(resolved, Secondary, payload2)
}

// VhostURL replaces the leading VhostLabel of base with payload followed by a dot.
func VhostURL(base, payload string) string {
	return strings.Replace(base, VhostLabel, payload+".", 1)
}

// BaseURL returns scheme://host[:port] of the template with the host lower-cased.
func BaseURL(template string) (string, error) {
	u, err := url.Parse(template)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", template, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q has no scheme or host", template)
	}
	return u.Scheme + "://" + strings.ToLower(u.Host), nil
}

func HasPrimary(template string) bool {
	return strings.Contains(template, Primary)
}

func HasSecondary(template string) bool {
	return strings.Contains(template, Secondary)
}
