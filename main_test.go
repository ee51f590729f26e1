package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"robotfuzz/internal/config"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		url      string
		wantMode mode
		wantBase string
	}{
		{"https://FUZZ.example.li/", modeVhost, "https://fuzz.example.li"},
		{"https://fuzz.example.li:8443/ignored", modeVhost, "https://fuzz.example.li:8443"},
		{"https://example.li/FUZZ", modePath, "https://example.li/FUZZ"},
		{"https://example.li/editor?fileurl=FUZ2ZFUZZ", modePath, "https://example.li/editor?fileurl=FUZ2ZFUZZ"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			m, base, err := detectMode(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, m)
			assert.Equal(t, tt.wantBase, base)
		})
	}

	_, _, err := detectMode("https://example.li/#FUZZ")
	assert.ErrorIs(t, err, errNoFuzzLocation)
}

type fakeFlags map[string]interface{}

func (f fakeFlags) IsSet(name string) bool {
	_, ok := f[name]
	return ok
}

func (f fakeFlags) String(name string) string {
	v, _ := f[name].(string)
	return v
}

func (f fakeFlags) Int(name string) int {
	v, _ := f[name].(int)
	return v
}

func (f fakeFlags) Bool(name string) bool {
	v, _ := f[name].(bool)
	return v
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robotfuzz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: https://file/FUZZ\nthreads: 7\ncookies: from=file\nno_bar: true\n"), 0o644))

	cfg, err := loadConfig(fakeFlags{"config": path, "threads": 3, "curl": true})
	require.NoError(t, err)
	assert.Equal(t, "https://file/FUZZ", cfg.URL)
	assert.Equal(t, 3, cfg.Threads)
	assert.Equal(t, "from=file", cfg.Cookies)
	assert.True(t, cfg.NoBar)
	assert.True(t, cfg.ShowCurl)
	assert.Equal(t, config.DefaultWordlist, cfg.Wordlist)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(fakeFlags{"url": "https://x/FUZZ"})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultThreads, cfg.Threads)
	assert.Equal(t, config.DefaultFingerprint, cfg.Fingerprint)
}

func TestBuildHeaders(t *testing.T) {
	headers := buildHeaders(config.Config{Cookies: "sid=1", UserAgent: "ua"})
	assert.Equal(t, "sid=1", headers.Get("Cookie"))
	assert.Equal(t, "ua", headers.Get("User-Agent"))
	assert.Empty(t, buildHeaders(config.Config{}))
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"robotfuzz"}, args...))
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder), "expected an exit error, got %v", err)
	return coder.ExitCode()
}

func TestAppRejectsURLWithoutPlaceholder(t *testing.T) {
	_, err := runApp(t, "-u", "https://example.com/admin")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "FUZZ")
}

func TestAppRejectsUnreadableWordlist(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }))
	defer server.Close()

	_, err := runApp(t, "-u", server.URL+"/FUZZ", "-w", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 1, exitCode(t, err))
	assert.Zero(t, hits.Load())
}

func TestAppPathFuzz(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/backup" && r.Header.Get("Cookie") == "sid=9" {
			fmt.Fprint(w, strings.Repeat("secret data line\n", 12))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "<html>not here</html>")
	}))
	defer server.Close()

	wordlist := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(wordlist, []byte("admin\nbackup\nlogin\n"), 0o644))

	out, err := runApp(t,
		"-u", server.URL+"/FUZZ",
		"-w", wordlist,
		"-c", "sid=9",
		"--fingerprint", "none",
		"--no-sitemap",
		"--no-bar",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Target URL: "+server.URL+"/FUZZ")
	assert.Contains(t, out, "000002     200")
	assert.Contains(t, out, "Processed Requests: 3")
	assert.Contains(t, out, "Filtered Requests: 2")
}
