// Package editor implements the ChainSafe online editor: a debounced
// input/output pane pair, the transformation call, the diff toggle and the
// animated header tagline.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jagadeeshD3/portfolio/internal/clock"
	"github.com/jagadeeshD3/portfolio/internal/diff"
	"github.com/jagadeeshD3/portfolio/internal/transform"
	"github.com/jagadeeshD3/portfolio/internal/typing"
)

// User-facing messages.
const (
	MsgEmptyInput      = "No code to process. Makes my life easy! Cheers 😉"
	MsgInvalidCode     = "Invalid code provided. Can't help you. 😅"
	MsgUnsupportedFile = "Please upload a valid JavaScript or TypeScript file (.js, .ts, .tsx)"
	MsgReadFailed      = "Error reading file. Make sure it's a valid text file."
	MsgCopyFailed      = "Failed to copy to clipboard"
)

// ErrBusy is returned by Process while a transformation is outstanding.
var ErrBusy = errors.New("transformation already in progress")

// DefaultCopyReset is how long a "Copied!" badge stays up.
const DefaultCopyReset = 2 * time.Second

// Snapshot is the rendered state of the editor.
type Snapshot struct {
	Input        string     `json:"input"`
	Output       string     `json:"output"`
	Loading      bool       `json:"loading"`
	Error        string     `json:"error,omitempty"`
	ShowError    bool       `json:"show_error"`
	ShowDiff     bool       `json:"show_diff"`
	CopiedInput  bool       `json:"copied_input"`
	CopiedOutput bool       `json:"copied_output"`
	ScrollTop    int        `json:"scroll_top"`
	Tagline      string     `json:"tagline"`
	Diff         []diff.Row `json:"diff,omitempty"`
}

type Options struct {
	Clock       clock.Clock
	Transformer transform.Transformer
	QuietPeriod time.Duration
	CopyReset   time.Duration
	Typing      typing.Config
	Tagline     string
	Logger      zerolog.Logger
	// OnChange receives a snapshot after every state change.
	OnChange func(Snapshot)
	// OnTagline receives every frame of the header animation.
	OnTagline func(string)
}

// Controller owns one editor session.
type Controller struct {
	mu   sync.Mutex
	opts Options
	log  zerolog.Logger

	panes  *Panes
	typing *typing.Engine

	input     string
	output    string
	loading   bool
	errMsg    string
	showError bool
	showDiff  bool
	copied    map[Pane]bool
	copyTimer map[Pane]clock.Timer
	copyGen   map[Pane]uint64
	closed    bool

	diffKey  [2]string
	diffRows []diff.Row
}

// NewController creates a session and starts the tagline animation.
func NewController(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.CopyReset <= 0 {
		opts.CopyReset = DefaultCopyReset
	}
	if opts.OnChange == nil {
		opts.OnChange = func(Snapshot) {}
	}
	if opts.OnTagline == nil {
		opts.OnTagline = func(string) {}
	}

	c := &Controller{
		opts:      opts,
		log:       opts.Logger.With().Str("component", "editor").Logger(),
		showError: true,
		copied:    make(map[Pane]bool),
		copyTimer: make(map[Pane]clock.Timer),
		copyGen:   make(map[Pane]uint64),
	}
	c.panes = NewPanes(opts.Clock, opts.QuietPeriod, c.commit)
	c.typing = typing.New(opts.Clock, opts.Typing, opts.OnTagline)
	c.typing.Start(opts.Tagline)
	return c
}

// Type echoes a keystroke; the controller sees it after the quiet period.
func (c *Controller) Type(text string) {
	c.panes.Type(text)
	c.publish()
}

func (c *Controller) commit(text string) {
	c.mu.Lock()
	c.input = text
	c.errMsg = ""
	c.mu.Unlock()
	c.publish()
}

// Scroll keeps both panes at one offset.
func (c *Controller) Scroll(pane Pane, offset int) {
	c.panes.Scroll(pane, offset)
	c.publish()
}

// DropFile loads a dropped or selected file into the input pane. Rejected
// files leave the input unchanged.
func (c *Controller) DropFile(name, contentType string, data []byte) error {
	if err := ValidateFile(name, contentType, data); err != nil {
		c.setError(MsgUnsupportedFile)
		return err
	}

	c.panes.Load(string(data))
	c.panes.SetOutput("")
	c.mu.Lock()
	c.output = ""
	c.errMsg = ""
	c.mu.Unlock()
	c.publish()
	return nil
}

// ReadFailed reports a file that could not be read.
func (c *Controller) ReadFailed() {
	c.setError(MsgReadFailed)
}

// Process runs the transformation on the committed input. Whitespace-only
// input is rejected without calling the transformer. On success the diff view
// is turned on.
func (c *Controller) Process(ctx context.Context) error {
	c.panes.Flush()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return context.Canceled
	}
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	src := c.input
	if strings.TrimSpace(src) == "" {
		c.mu.Unlock()
		c.setError(MsgEmptyInput)
		return transform.ErrEmptyInput
	}
	c.loading = true
	c.mu.Unlock()
	c.publish()

	out, err := transform.Invoke(ctx, c.opts.Transformer, src)

	c.mu.Lock()
	c.loading = false
	enteredDiff := false
	if err != nil {
		c.errMsg = MsgInvalidCode
		c.showError = true
	} else {
		c.output = out
		c.errMsg = ""
		enteredDiff = !c.showDiff
		c.showDiff = true
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn().Err(err).Int("input_bytes", len(src)).Msg("Transformation failed")
	} else {
		c.panes.SetOutput(out)
	}
	if enteredDiff {
		c.typing.Suspend()
	}
	c.publish()
	return err
}

// ToggleDiff shows or hides the diff view. The tagline animation is frozen
// while the diff is visible.
func (c *Controller) ToggleDiff() {
	c.mu.Lock()
	c.showDiff = !c.showDiff
	show := c.showDiff
	c.mu.Unlock()

	if show {
		c.typing.Suspend()
	} else {
		c.typing.Resume()
	}
	c.publish()
}

// Clear empties both panes and leaves the diff view.
func (c *Controller) Clear() {
	c.mu.Lock()
	wasDiff := c.showDiff
	c.input, c.output, c.errMsg = "", "", ""
	c.showDiff = false
	for pane := range c.copied {
		c.resetCopyLocked(pane)
	}
	c.mu.Unlock()

	c.panes.Reset()
	if wasDiff {
		c.typing.Resume()
	}
	c.publish()
}

func (c *Controller) HideError() {
	c.mu.Lock()
	c.showError = false
	c.mu.Unlock()
	c.publish()
}

// Copied marks pane as copied for the copy-reset period.
func (c *Controller) Copied(pane Pane) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.resetCopyLocked(pane)
	c.copied[pane] = true
	gen := c.copyGen[pane]
	c.copyTimer[pane] = c.opts.Clock.AfterFunc(c.opts.CopyReset, func() {
		c.mu.Lock()
		if c.closed || c.copyGen[pane] != gen {
			c.mu.Unlock()
			return
		}
		c.copied[pane] = false
		delete(c.copyTimer, pane)
		c.mu.Unlock()
		c.publish()
	})
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) resetCopyLocked(pane Pane) {
	c.copyGen[pane]++
	if t, ok := c.copyTimer[pane]; ok {
		t.Stop()
		delete(c.copyTimer, pane)
	}
	c.copied[pane] = false
}

func (c *Controller) CopyFailed() {
	c.setError(MsgCopyFailed)
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.showError = true
	c.mu.Unlock()
	c.publish()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Input:        c.panes.Input(),
		Output:       c.output,
		Loading:      c.loading,
		Error:        c.errMsg,
		ShowError:    c.showError && c.errMsg != "",
		ShowDiff:     c.showDiff,
		CopiedInput:  c.copied[InputPane],
		CopiedOutput: c.copied[OutputPane],
		ScrollTop:    c.panes.ScrollTop(InputPane),
		Tagline:      c.typing.Text(),
	}
	if c.showDiff && c.input != "" && c.output != "" {
		key := [2]string{c.input, c.output}
		if key != c.diffKey || c.diffRows == nil {
			c.diffKey = key
			c.diffRows = diff.SplitView(c.input, c.output)
		}
		snap.Diff = c.diffRows
	}
	return snap
}

func (c *Controller) publish() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.opts.OnChange(snap)
}

// Close cancels every timer owned by the session.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for pane := range c.copyTimer {
		c.resetCopyLocked(pane)
	}
	c.mu.Unlock()

	c.panes.Close()
	c.typing.Dispose()
}
