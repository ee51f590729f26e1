package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"robotfuzz/internal/calibration"
	"robotfuzz/internal/fingerprint"
	"robotfuzz/internal/templater"
	"robotfuzz/internal/utils"
)

// pathLimitFactor multiplies the thread count into the path-mode admission bound.
const pathLimitFactor = 4

// PathOptions configure a path/parameter fuzzing run.
type PathOptions struct {
	Template  string
	Wordlist  []string
	Wordlist2 []string
	Threads   int
	Headers   http.Header
	Limiter   *rate.Limiter
	ShowCurl  bool
	// Out receives the results table. BarOut receives the progress bar; nil disables it.
	Out    io.Writer
	BarOut io.Writer
}

// Summary is what a driver reports once every task has completed.
type Summary struct {
	Processed int64
	Filtered  int64
	Elapsed   time.Duration
}

// PathFuzzer substitutes wordlist entries into the template and suppresses
// responses that look like the calibrated error pages.
type PathFuzzer struct {
	client *http.Client
	prober fingerprint.Prober
	opts   PathOptions
}

// NewPathFuzzer creates a path driver. prober may be nil.
func NewPathFuzzer(client *http.Client, prober fingerprint.Prober, opts PathOptions) *PathFuzzer {
	if prober == nil {
		prober = fingerprint.None{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &PathFuzzer{client: client, prober: prober, opts: opts}
}

// Run fingerprints the target, calibrates, then fuzzes every task.
func (f *PathFuzzer) Run(ctx context.Context) Summary {
	f.fingerprint(ctx)

	baseline := calibration.NewCalibrator(f.client, f.opts.Headers).Calibrate(ctx, f.opts.Template)
	utils.PrintInfo(fmt.Sprintf("Calibrated %d baseline signature(s)", baseline.Len()))

	tasks := BuildTasks(f.opts.Template, f.opts.Wordlist, f.opts.Wordlist2)
	total := TotalRequests(f.opts.Wordlist, f.opts.Wordlist2)

	PrintHeader(f.opts.Out)
	progress := NewProgress(total, f.opts.Out, f.opts.BarOut)
	scheduler := NewScheduler(f.client, Options{
		Limit:    f.opts.Threads * pathLimitFactor,
		Headers:  f.opts.Headers,
		Limiter:  f.opts.Limiter,
		Classify: true,
		Baseline: baseline,
		ShowCurl: f.opts.ShowCurl,
	}, progress)

	started := time.Now()
	scheduler.Run(ctx, tasks)
	progress.Finish()

	summary := Summary{
		Processed: scheduler.Counters().Processed.Load(),
		Filtered:  scheduler.Counters().Filtered.Load(),
		Elapsed:   time.Since(started),
	}
	fmt.Fprintf(f.opts.Out, "\nFuzzing completed in %s\n", summary.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(f.opts.Out, "Processed Requests: %d\n", summary.Processed)
	fmt.Fprintf(f.opts.Out, "Filtered Requests: %d\n", summary.Filtered)
	return summary
}

func (f *PathFuzzer) fingerprint(ctx context.Context) {
	if _, ok := f.prober.(fingerprint.None); ok {
		return
	}
	base, err := templater.BaseURL(f.opts.Template)
	if err != nil {
		utils.PrintWarning(fmt.Sprintf("Skipping fingerprinting: %v", err))
		return
	}
	report, err := f.prober.Probe(ctx, base)
	switch {
	case errors.Is(err, fingerprint.ErrUnsupported):
		utils.PrintWarning(fmt.Sprintf("%s is not available on this platform", f.prober.Name()))
	case errors.Is(err, fingerprint.ErrNotInstalled):
		utils.PrintWarning(fmt.Sprintf("%s is not installed", f.prober.Name()))
	case err != nil:
		utils.PrintWarning(fmt.Sprintf("Failed to execute %s: %v", f.prober.Name(), err))
	default:
		utils.PrintInfo(fmt.Sprintf("%s: %s", f.prober.Name(), strings.TrimSpace(report)))
	}
}
