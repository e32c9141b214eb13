package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jagadeeshD3/portfolio/internal/clock"
)

func TestPanesCommitAfterQuietPeriod(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	var commits []string
	p := NewPanes(fake, 0, func(s string) { commits = append(commits, s) })
	defer p.Close()

	p.Type("f")
	fake.Advance(50 * time.Millisecond)
	p.Type("fo")
	fake.Advance(50 * time.Millisecond)
	p.Type("foo")
	assert.Equal(t, "foo", p.Input())
	assert.Empty(t, commits)

	fake.Advance(DefaultQuietPeriod)
	assert.Equal(t, []string{"foo"}, commits)
}

func TestPanesLoadCommitsImmediately(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	var commits []string
	p := NewPanes(fake, time.Second, func(s string) { commits = append(commits, s) })

	p.Type("typed")
	p.Load("loaded")
	assert.Equal(t, []string{"loaded"}, commits)

	fake.Advance(time.Minute)
	assert.Equal(t, []string{"loaded"}, commits)
}

func TestPanesResetDropsPending(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	var commits []string
	p := NewPanes(fake, time.Second, func(s string) { commits = append(commits, s) })

	p.Type("typed")
	p.SetOutput("out")
	p.Scroll(InputPane, 40)
	p.Reset()

	fake.Advance(time.Minute)
	assert.Empty(t, commits)
	assert.Empty(t, p.Input())
	assert.Empty(t, p.Output())
	assert.Equal(t, 0, p.ScrollTop(OutputPane))
}
