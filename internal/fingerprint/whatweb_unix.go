//go:build unix

package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Probe checks that whatweb is callable, then returns its stdout for target.
func (w *WhatWeb) Probe(ctx context.Context, target string) (string, error) {
	if err := exec.CommandContext(ctx, w.binary(), "--version").Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrNotInstalled
		}
		return "", fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}
	out, err := exec.CommandContext(ctx, w.binary(), target).Output()
	if err != nil {
		return "", fmt.Errorf("run whatweb: %w", err)
	}
	return string(out), nil
}
