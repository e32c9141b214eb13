package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagadeeshD3/portfolio/internal/config"
)

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	router, cleanup, err := buildRouter(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/developer", nil)
	req.Header.Set("DNT", "1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRouterRejectsBadSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Retention.Schedule = "every blue moon"

	_, _, err := buildRouter(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}

// firstNow fires once immediately, then not again for a day.
type firstNow struct{ fired atomic.Bool }

func (s *firstNow) Next(t time.Time) time.Time {
	if s.fired.Swap(true) {
		return t.Add(24 * time.Hour)
	}
	return t
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestStopStorageWaitsForRunningJob(t *testing.T) {
	var (
		mu        sync.Mutex
		closed    bool
		sawClosed bool
	)
	started := make(chan struct{})

	c := cron.New()
	c.Schedule(&firstNow{}, cron.FuncJob(func() {
		close(started)
		time.Sleep(100 * time.Millisecond)
		mu.Lock()
		sawClosed = closed
		mu.Unlock()
	}))
	c.Start()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("retention job never started")
	}

	require.NoError(t, stopStorage(c, closerFunc(func() error {
		mu.Lock()
		closed = true
		mu.Unlock()
		return nil
	})))

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, closed)
	assert.False(t, sawClosed, "database closed while the retention job was running")
}
