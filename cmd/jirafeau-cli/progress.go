package main

import (
	"fmt"
	"io"
	"time"
)

var spinner = []rune{'|', '/', '-', '\\'}

// progress draws a single-line byte counter. The server does not announce
// sizes, so it spins instead of showing a percentage.
type progress struct {
	w        io.Writer
	written  int64
	spinIdx  int
	lastTick time.Time
	drawn    bool
}

func newProgress(w io.Writer) *progress {
	return &progress{w: w}
}

func (p *progress) update(written int64) {
	p.written = written
	p.render(false)
}

func (p *progress) render(force bool) {
	// at most ten redraws a second
	if !force && time.Since(p.lastTick) < 100*time.Millisecond {
		return
	}
	p.lastTick = time.Now()
	p.drawn = true

	ch := spinner[p.spinIdx%len(spinner)]
	p.spinIdx++
	_, _ = fmt.Fprintf(p.w, "\rDownloading: [%c] %s   ", ch, humanSize(p.written))
}

// done draws the final count and ends the line. Safe on a nil progress.
func (p *progress) done() {
	if p == nil || !p.drawn {
		return
	}
	p.render(true)
	_, _ = fmt.Fprintln(p.w)
}

func humanSize(n int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)
	switch {
	case n >= GB:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(GB))
	case n >= MB:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%.2f KB", float64(n)/float64(KB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
