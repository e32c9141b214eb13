package editor

import (
	"sync"
	"time"

	"github.com/jagadeeshD3/portfolio/internal/clock"
	"github.com/jagadeeshD3/portfolio/internal/debounce"
)

// DefaultQuietPeriod is how long typing must pause before an edit is
// committed.
const DefaultQuietPeriod = 300 * time.Millisecond

// Pane identifies one side of the editor.
type Pane string

const (
	InputPane  Pane = "input"
	OutputPane Pane = "output"
)

// Panes is the input/output text area pair. Input echoes keystrokes at once
// and commits them after the quiet period. Both panes share one scroll offset.
type Panes struct {
	mu       sync.Mutex
	input    string
	output   string
	scroll   int
	debounce *debounce.Debouncer[string]
}

// NewPanes calls commit with the settled input text.
func NewPanes(clk clock.Clock, quiet time.Duration, commit func(string)) *Panes {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Panes{debounce: debounce.New(clk, quiet, commit)}
}

// Type records a keystroke and schedules the commit.
func (p *Panes) Type(text string) {
	p.mu.Lock()
	p.input = text
	p.mu.Unlock()
	p.debounce.Trigger(text)
}

// Load replaces the input without debouncing, dropping any pending edit.
func (p *Panes) Load(text string) {
	p.mu.Lock()
	p.input = text
	p.mu.Unlock()
	p.debounce.Trigger(text)
	p.debounce.Flush()
}

func (p *Panes) SetOutput(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = text
}

// Scroll moves both panes to offset, whichever pane scrolled.
func (p *Panes) Scroll(_ Pane, offset int) int {
	if offset < 0 {
		offset = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scroll = offset
	return p.scroll
}

// ScrollTop returns the offset of pane.
func (p *Panes) ScrollTop(_ Pane) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scroll
}

func (p *Panes) Input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

func (p *Panes) Output() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.output
}

// Reset clears both panes and drops any pending commit without committing.
func (p *Panes) Reset() {
	p.mu.Lock()
	p.input, p.output, p.scroll = "", "", 0
	p.mu.Unlock()
	p.debounce.Cancel()
}

// Flush commits a pending edit now.
func (p *Panes) Flush() {
	p.debounce.Flush()
}

// Close drops the pending commit.
func (p *Panes) Close() {
	p.debounce.Stop()
}
