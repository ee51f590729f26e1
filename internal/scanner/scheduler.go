package scanner

import (
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"robotfuzz/internal/signature"
	"robotfuzz/internal/templater"
	"robotfuzz/internal/utils"
)

// Counters are shared by every task of a run.
type Counters struct {
	Processed atomic.Int64
	Filtered  atomic.Int64
}

// Options configure a Scheduler.
type Options struct {
	// Limit is the number of requests allowed in flight at once.
	Limit int
	// Timeout bounds each request including the body read. Zero means no limit.
	Timeout time.Duration
	Headers http.Header
	Limiter *rate.Limiter
	// Classify enables noise suppression against Baseline.
	Classify bool
	Baseline signature.Baseline
	ShowCurl bool
}

// Outcome is the measured response of one task.
type Outcome struct {
	Task       Task
	StatusCode int
	Signature  signature.Signature
	Request    *http.Request
}

// Scheduler fans tasks out over a shared HTTP client with bounded concurrency.
type Scheduler struct {
	client   *http.Client
	opts     Options
	progress *Progress
	counters *Counters
}

// NewScheduler creates a scheduler reporting through progress.
func NewScheduler(client *http.Client, opts Options, progress *Progress) *Scheduler {
	if opts.Limit < 1 {
		opts.Limit = 1
	}
	if progress == nil {
		progress = NewProgress(0, io.Discard, nil)
	}
	return &Scheduler{
		client:   client,
		opts:     opts,
		progress: progress,
		counters: &Counters{},
	}
}

// Counters returns the run counters.
func (s *Scheduler) Counters() *Counters {
	return s.counters
}

// Run executes every task and returns once all admitted tasks have completed.
// Completion order is unspecified. Tasks whose request fails are counted as
// processed and produce no output. If ctx is cancelled, tasks not yet admitted
// are skipped.
func (s *Scheduler) Run(ctx context.Context, tasks []Task) {
	gate := semaphore.NewWeighted(int64(s.opts.Limit))
	started := time.Now()

	var wg sync.WaitGroup
	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		if err := gate.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			outcome, err := s.fetch(ctx, task)
			gate.Release(1)
			s.complete(outcome, err, started)
		}(task)
	}
	wg.Wait()
}

func (s *Scheduler) complete(outcome *Outcome, err error, started time.Time) {
	if err == nil {
		if s.opts.Classify && signature.IsNoise(outcome.Signature, s.opts.Baseline) {
			s.counters.Filtered.Add(1)
		} else {
			s.report(outcome)
		}
	}
	completed := s.counters.Processed.Add(1)
	s.progress.Update(completed, time.Since(started))
}

func (s *Scheduler) report(o *Outcome) {
	line := ColorRow(o.StatusCode, FormatRow(o.Task.ID, o.StatusCode, o.Signature, o.Task.Display()))
	if s.opts.ShowCurl {
		line += "\n  └── " + utils.GenerateCurlCommand(o.Request)
	}
	s.progress.Println(line)
}

func (s *Scheduler) fetch(ctx context.Context, task Task) (*Outcome, error) {
	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	req, err := templater.NewRequest(ctx, task.URL)
	if err != nil {
		return nil, err
	}
	for key, values := range s.opts.Headers {
		req.Header[key] = values
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Task:       task,
		StatusCode: resp.StatusCode,
		Signature:  signature.FromBody(body),
		Request:    req,
	}, nil
}
