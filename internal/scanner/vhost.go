package scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// VhostTimeout bounds every virtual-host request.
const VhostTimeout = 10 * time.Second

// VhostOptions configure a virtual-host run.
type VhostOptions struct {
	// Base is scheme://fuzz.host[:port]; the fuzz label is replaced per candidate.
	Base         string
	Wordlist     []string
	WordlistPath string
	// IP is only displayed. Requests are resolved through normal DNS.
	IP      string
	Threads int
	Headers http.Header
	Limiter *rate.Limiter
	// Timeout overrides VhostTimeout when non-zero.
	Timeout time.Duration
	Out     io.Writer
	BarOut  io.Writer
}

// VhostFuzzer probes candidate subdomains and prints every response.
type VhostFuzzer struct {
	client *http.Client
	opts   VhostOptions
}

func NewVhostFuzzer(client *http.Client, opts VhostOptions) *VhostFuzzer {
	if opts.Timeout <= 0 {
		opts.Timeout = VhostTimeout
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &VhostFuzzer{client: client, opts: opts}
}

func (f *VhostFuzzer) Run(ctx context.Context) Summary {
	out := f.opts.Out
	if f.opts.IP != "" {
		fmt.Fprintf(out, "IP Address specified: %s\n", f.opts.IP)
	} else {
		fmt.Fprintln(out, "No IP Address specified.")
	}
	fmt.Fprintf(out, "url_template: %s\n", f.opts.Base)
	fmt.Fprintf(out, "wordlist_path: %s\n", f.opts.WordlistPath)
	fmt.Fprintf(out, "thread_count: %d\n\n", f.opts.Threads)

	tasks := BuildVhostTasks(f.opts.Base, f.opts.Wordlist)

	PrintHeader(out)
	progress := NewProgress(len(tasks), out, f.opts.BarOut)
	scheduler := NewScheduler(f.client, Options{
		Limit:   f.opts.Threads,
		Timeout: f.opts.Timeout,
		Headers: f.opts.Headers,
		Limiter: f.opts.Limiter,
	}, progress)

	started := time.Now()
	scheduler.Run(ctx, tasks)
	progress.Finish()

	summary := Summary{
		Processed: scheduler.Counters().Processed.Load(),
		Elapsed:   time.Since(started),
	}
	fmt.Fprintf(out, "\nScan completed in %s\n", summary.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "Processed Requests: %d\n", summary.Processed)
	return summary
}
