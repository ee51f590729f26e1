package templater

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		payload  string
		payload2 string
		want     string
	}{
		{"single", "https://x/FUZZ", "admin", "", "https://x/admin"},
		{"both", "https://x/FUZZ?id=FUZ2ZFUZZ", "a", "b", "https://x/a?id=ba"},
		{"secondary without payload", "https://x/FUZZ/FUZ2Z", "a", "", "https://x/a/"},
		{"repeated primary", "https://x/FUZZ/FUZZ", "a", "", "https://x/a/a"},
		{"no placeholder", "https://x/static", "a", "b", "https://x/static"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.template, tt.payload, tt.payload2))
		})
	}
}

// Payloads are inserted without encoding so raw traversal strings reach the server as written.
func TestResolveDoesNotEncodePayload(t *testing.T) {
	assert.Equal(t, "https://x/../etc/passwd?a=1 2#frag", Resolve("https://x/FUZZ", "../etc/passwd?a=1 2#frag", ""))
	assert.Equal(t, "https://x/this path does not exist", Resolve("https://x/FUZZ", "this path does not exist", ""))
}

func TestVhostURL(t *testing.T) {
	assert.Equal(t, "https://admin.example.com", VhostURL("https://fuzz.example.com", "admin"))
	assert.Equal(t, "http://dev.fuzz.example.com:8080", VhostURL("http://fuzz.fuzz.example.com:8080", "dev"))
}

func TestBaseURL(t *testing.T) {
	base, err := BaseURL("https://FUZZ.Example.com:8443/path/FUZZ?q=1")
	require.NoError(t, err)
	assert.Equal(t, "https://fuzz.example.com:8443", base)

	_, err = BaseURL("not a url")
	assert.Error(t, err)
}

func TestPlaceholderDetection(t *testing.T) {
	assert.True(t, HasPrimary("https://x/FUZZ"))
	assert.False(t, HasPrimary("https://x/fuzz"))
	assert.True(t, HasSecondary("https://x/FUZZ?f=FUZ2Z"))
	assert.False(t, HasSecondary("https://x/FUZZ"))
}

func TestNewRequestKeepsBarePercent(t *testing.T) {
	tests := []struct {
		target string
		uri    string
	}{
		{"http://example.li/100%", "http://example.li/100%"},
		{"http://example.li:8080/files/..%%32%66etc", "http://example.li:8080/files/..%%32%66etc"},
		{"http://example.li/%zz?q=1", "http://example.li/%zz?q=1"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req, err := NewRequest(context.Background(), tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.uri, req.URL.RequestURI())
			assert.Equal(t, tt.uri, req.URL.String())
			assert.Equal(t, req.URL.Host, req.Host)
		})
	}
}

func TestNewRequestParsesValidTargets(t *testing.T) {
	req, err := NewRequest(context.Background(), "https://example.li/a%20b?x=1")
	require.NoError(t, err)
	assert.Empty(t, req.URL.Opaque)
	assert.Equal(t, "/a%20b?x=1", req.URL.RequestURI())

	_, err = NewRequest(context.Background(), "no-scheme/100%")
	assert.Error(t, err)
}
