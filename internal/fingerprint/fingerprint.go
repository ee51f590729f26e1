// Package fingerprint identifies the technologies behind a target before
// fuzzing. Results are informational only.
package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsupported is returned by probers that cannot run on this platform.
var ErrUnsupported = errors.New("fingerprinting is not supported on this platform")

// ErrNotInstalled is returned when an external tool is missing.
var ErrNotInstalled = errors.New("fingerprinting tool is not installed")

// Prober inspects a base URL and returns a human-readable report.
type Prober interface {
	Name() string
	Probe(ctx context.Context, target string) (string, error)
}

// Names lists the accepted prober names.
var Names = []string{"whatweb", "wappalyzer", "none"}

// New returns the prober registered under name.
func New(name string, client *http.Client) (Prober, error) {
	switch name {
	case "whatweb":
		return &WhatWeb{Binary: "whatweb"}, nil
	case "wappalyzer":
		return NewWappalyzer(client), nil
	case "none", "":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown fingerprint tool %q", name)
	}
}

// None never probes.
type None struct{}

func (None) Name() string { return "none" }

func (None) Probe(context.Context, string) (string, error) { return "", nil }
