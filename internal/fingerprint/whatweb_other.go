//go:build !unix

package fingerprint

import "context"

func (w *WhatWeb) Probe(context.Context, string) (string, error) {
	return "", ErrUnsupported
}
