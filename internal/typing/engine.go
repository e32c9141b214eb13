// Package typing drives a tagline through type, pause and delete cycles.
package typing

import (
	"sync"
	"time"

	"github.com/jagadeeshD3/portfolio/internal/clock"
)

// Mode is the phase of the animation cycle.
type Mode int

const (
	Typing Mode = iota
	Pausing
	Deleting
)

func (m Mode) String() string {
	switch m {
	case Typing:
		return "typing"
	case Pausing:
		return "pausing"
	case Deleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// Config holds the animation delays.
type Config struct {
	TypeInterval   time.Duration `yaml:"type_interval"`
	DeleteInterval time.Duration `yaml:"delete_interval"`
	Pause          time.Duration `yaml:"pause"`
}

// DefaultConfig returns the delays used by the site header.
func DefaultConfig() Config {
	return Config{
		TypeInterval:   100 * time.Millisecond,
		DeleteInterval: 50 * time.Millisecond,
		Pause:          3 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TypeInterval <= 0 {
		c.TypeInterval = def.TypeInterval
	}
	if c.DeleteInterval <= 0 {
		c.DeleteInterval = def.DeleteInterval
	}
	if c.Pause <= 0 {
		c.Pause = def.Pause
	}
	return c
}

// Snapshot is a consistent view of the engine state.
type Snapshot struct {
	FullText  string
	Index     int
	Mode      Mode
	Suspended bool
	Text      string
}

// Engine owns one animated string. All methods are safe for concurrent use.
// onChange is invoked with the displayed text after every visible change,
// outside the engine lock.
type Engine struct {
	mu       sync.Mutex
	clock    clock.Clock
	cfg      Config
	onChange func(string)

	full      []rune
	index     int
	mode      Mode
	suspended bool
	disposed  bool

	timer clock.Timer
	// gen invalidates callbacks whose timer lost the race with Stop.
	gen uint64
}

// New creates an idle engine. Call Start to begin animating.
func New(clk clock.Clock, cfg Config, onChange func(string)) *Engine {
	if clk == nil {
		clk = clock.Real()
	}
	if onChange == nil {
		onChange = func(string) {}
	}
	return &Engine{clock: clk, cfg: cfg.withDefaults(), onChange: onChange}
}

// Start begins the cycle for text from an empty display.
func (e *Engine) Start(text string) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.full = []rune(text)
	e.suspended = false
	e.resetLocked()
	e.scheduleLocked(e.cfg.TypeInterval)
	shown := e.textLocked()
	e.mu.Unlock()

	e.onChange(shown)
}

// SetText replaces the animated string. A different string restarts the cycle
// so stale text is never finished.
func (e *Engine) SetText(text string) {
	e.mu.Lock()
	if e.disposed || string(e.full) == text {
		e.mu.Unlock()
		return
	}
	e.full = []rune(text)
	e.resetLocked()
	e.cancelLocked()
	if !e.suspended {
		e.scheduleLocked(e.cfg.TypeInterval)
	}
	shown := e.textLocked()
	e.mu.Unlock()

	e.onChange(shown)
}

// Suspend freezes the animation and shows the full text.
func (e *Engine) Suspend() {
	e.mu.Lock()
	if e.disposed || e.suspended {
		e.mu.Unlock()
		return
	}
	e.suspended = true
	e.cancelLocked()
	shown := e.textLocked()
	e.mu.Unlock()

	e.onChange(shown)
}

// Resume restarts the cycle from an empty display.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.suspended = false
	e.resetLocked()
	e.scheduleLocked(e.cfg.TypeInterval)
	shown := e.textLocked()
	e.mu.Unlock()

	e.onChange(shown)
}

// Dispose cancels the pending tick. The engine is inert afterwards.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	e.disposed = true
}

// Text returns the currently displayed text.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.textLocked()
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		FullText:  string(e.full),
		Index:     e.index,
		Mode:      e.mode,
		Suspended: e.suspended,
		Text:      e.textLocked(),
	}
}

func (e *Engine) textLocked() string {
	if e.suspended {
		return string(e.full)
	}
	return string(e.full[:e.index])
}

func (e *Engine) resetLocked() {
	e.index = 0
	e.mode = Typing
}

func (e *Engine) cancelLocked() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) scheduleLocked(d time.Duration) {
	e.cancelLocked()
	gen := e.gen
	e.timer = e.clock.AfterFunc(d, func() { e.fire(gen) })
}

func (e *Engine) fire(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.disposed || e.suspended {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	before := e.index
	e.scheduleLocked(e.stepLocked())
	changed := e.index != before
	shown := e.textLocked()
	e.mu.Unlock()

	if changed {
		e.onChange(shown)
	}
}

// stepLocked applies one transition and returns the delay until the next tick.
func (e *Engine) stepLocked() time.Duration {
	n := len(e.full)
	switch e.mode {
	case Typing:
		if e.index < n {
			e.index++
		}
		if e.index == n {
			e.mode = Pausing
			return e.cfg.Pause
		}
		return e.cfg.TypeInterval
	case Pausing:
		e.mode = Deleting
		return e.deleteLocked()
	default:
		return e.deleteLocked()
	}
}

func (e *Engine) deleteLocked() time.Duration {
	if e.index > 0 {
		e.index--
	}
	if e.index == 0 {
		e.mode = Typing
		return e.cfg.TypeInterval
	}
	return e.cfg.DeleteInterval
}
