// Package transform is the boundary to the external ChainSafe transformer,
// which rewrites JavaScript/TypeScript source to use optional chaining.
package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var (
	ErrEmptyInput     = errors.New("no source to transform")
	ErrInvalidSource  = errors.New("source could not be transformed")
	ErrNotConfigured  = errors.New("transformer command not configured")
	ErrTransformPanic = errors.New("transformer panicked")
)

// Transformer turns source text into source text with optional chaining.
type Transformer interface {
	Transform(ctx context.Context, source string) (string, error)
}

// Func adapts a plain function to Transformer.
type Func func(ctx context.Context, source string) (string, error)

func (f Func) Transform(ctx context.Context, source string) (string, error) {
	return f(ctx, source)
}

// Invoke validates source and calls t. Empty or whitespace-only source is
// rejected without calling t. Panics inside t are converted to errors.
func Invoke(ctx context.Context, t Transformer, source string) (out string, err error) {
	if strings.TrimSpace(source) == "" {
		return "", ErrEmptyInput
	}
	if t == nil {
		return "", ErrNotConfigured
	}
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("%w: %v", ErrTransformPanic, r)
		}
	}()
	return t.Transform(ctx, source)
}

// Command runs an external CLI that reads source on stdin and writes the
// transformed source on stdout.
type Command struct {
	Argv    []string
	Timeout time.Duration
	Dir     string
}

func (c *Command) Transform(ctx context.Context, source string) (string, error) {
	if len(c.Argv) == 0 {
		return "", ErrNotConfigured
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdin = strings.NewReader(source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("transformer %s: %w", c.Argv[0], ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s", ErrInvalidSource, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("failed to run transformer %s: %w", c.Argv[0], err)
	}
	return stdout.String(), nil
}
