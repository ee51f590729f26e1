// Package calibration learns what the target's generic error pages look like
// before fuzzing starts.
package calibration

import (
	"context"
	"io"
	"net/http"

	"robotfuzz/internal/signature"
	"robotfuzz/internal/templater"
)

// Probes are payloads that should not exist on any target. They cover plain
// words, nested paths, spaces, common extensions and encoded characters.
var Probes = []string{
	"thispathdoesnotexist",
	"this/path/does/not/exist",
	"this path does not exist",
	"thisfiledoesnotexist.txt",
	"thisfiledoesnotexist.php",
	"thisfiledoesnotexist.xml",
	"http%3A%2F%2Fwww",
	"########",
	"%20",
}

// Calibrator performs baseline detection against a URL template.
type Calibrator struct {
	client  *http.Client
	headers http.Header
	probes  []string
}

// NewCalibrator creates a calibrator that sends headers with every probe.
func NewCalibrator(client *http.Client, headers http.Header) *Calibrator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Calibrator{client: client, headers: headers, probes: Probes}
}

// Calibrate requests every probe in order and returns the signatures of the
// responses it received. Any status code is measured; probes that fail to
// send or whose body cannot be read are skipped.
func (c *Calibrator) Calibrate(ctx context.Context, template string) signature.Baseline {
	var builder signature.BaselineBuilder
	for _, probe := range c.probes {
		sig, ok := c.measure(ctx, templater.Resolve(template, probe, ""))
		if !ok {
			continue
		}
		builder.Add(sig)
	}
	return builder.Freeze()
}

func (c *Calibrator) measure(ctx context.Context, target string) (signature.Signature, bool) {
	req, err := templater.NewRequest(ctx, target)
	if err != nil {
		return signature.Signature{}, false
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return signature.Signature{}, false
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return signature.Signature{}, false
	}
	return signature.FromBody(body), true
}
