package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const progressWidth = 30

// ProgressReporter tracks a batch of policy files being validated.
type ProgressReporter interface {
	Start(total int64)
	Increment()
	Finish()
	Error(err error)
}

// SimpleProgress redraws a single line with \r. Write it to stderr so
// it stays out of formatted command output.
type SimpleProgress struct {
	mu         sync.Mutex
	w          io.Writer
	label      string
	done, size int64
	since      time.Time
}

// NewProgressReporter returns a SimpleProgress writing to w, or to
// stderr when w is nil.
func NewProgressReporter(w io.Writer, label string) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{w: w, label: label}
}

func (p *SimpleProgress) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.size, p.done, p.since = total, 0, time.Now()
	p.draw()
}

func (p *SimpleProgress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = min(p.done+1, p.size)
	p.draw()
}

func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = p.size
	p.draw()
	if p.size > 0 {
		io.WriteString(p.w, "\n")
	}
}

func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\n✗ Error: %v\n", err)
}

// draw is a no-op until a positive total is known.
func (p *SimpleProgress) draw() {
	if p.size <= 0 {
		return
	}
	n := int(p.done * progressWidth / p.size)
	fmt.Fprintf(p.w, "\r%s: [%s%s] %d/%d (%s)", p.label,
		strings.Repeat("█", n), strings.Repeat("░", progressWidth-n),
		p.done, p.size, time.Since(p.since).Round(time.Millisecond))
}
