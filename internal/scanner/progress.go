package scanner

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress owns the live progress bar and serialises result lines with it.
// A Progress without a bar only prints lines.
type Progress struct {
	mu    sync.Mutex
	out   io.Writer
	bar   *progressbar.ProgressBar
	total int
}

// NewProgress creates a tracker for total requests. Result lines go to out;
// the bar is drawn on barOut, or not at all when barOut is nil.
func NewProgress(total int, out, barOut io.Writer) *Progress {
	p := &Progress{out: out, total: total}
	if barOut != nil && total > 0 {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(barOut),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan]Fuzzing...[reset]"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]#[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: "-",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}
	return p
}

// Println prints a result line above the bar.
func (p *Progress) Println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Clear()
	}
	fmt.Fprintln(p.out, line)
}

// Update moves the bar to completed and refreshes the ETA/RPS message.
func (p *Progress) Update(completed int64, elapsed time.Duration) {
	if p.bar == nil {
		return
	}
	eta, rps := Estimate(completed, p.total, elapsed)
	msg := fmt.Sprintf("ETA: %s, RPS: %.2f", eta.Round(time.Second), rps)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar.Describe(msg)
	_ = p.bar.Set64(completed)
}

// Finish completes the bar.
func (p *Progress) Finish() {
	if p.bar == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar.Describe("Fuzzing completed")
	_ = p.bar.Finish()
}

// Estimate returns the remaining time, extrapolated linearly from the
// completed fraction, and the observed requests per second.
func Estimate(completed int64, total int, elapsed time.Duration) (time.Duration, float64) {
	var rps float64
	if secs := elapsed.Seconds(); secs > 0 {
		rps = float64(completed) / secs
	}
	if completed <= 0 || total <= 0 {
		return 0, rps
	}
	fraction := float64(completed) / float64(total)
	remaining := elapsed.Seconds()/fraction - elapsed.Seconds()
	if remaining < 0 {
		remaining = 0
	}
	return time.Duration(remaining * float64(time.Second)), rps
}
