package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.do(postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"secret"}}))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		if c.Name == adminCookie {
			return c
		}
	}
	t.Fatal("no admin cookie set")
	return nil
}

func TestAdminRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/admin/dashboard")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.AddCookie(&http.Cookie{Name: adminCookie, Value: "forged"})
	assert.Equal(t, http.StatusFound, env.do(req).Code)

	rec = env.do(postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestAdminPages(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	for _, path := range []string{"/admin/dashboard", "/admin/visitors", "/admin/messages", "/admin/api/stats"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		rec := env.do(req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/export/stats", nil)
	req.AddCookie(cookie)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=admin-stats.json", rec.Header().Get("Content-Disposition"))

	req = httptest.NewRequest(http.MethodPost, "/admin/privacy/cleanup", nil)
	req.AddCookie(cookie)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["removed"])
}

func TestAdminWithoutConfiguredCredentials(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Config.Release = true
		d.Config.Admin.Password = ""
	})
	rec := env.do(postForm("/admin/login", url.Values{"username": {"admin"}, "password": {""}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVisitorTracking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.get("/developer")
	env.get("/chainsafe")
	env.get("/static/app.css")

	dnt := httptest.NewRequest(http.MethodGet, "/resume", nil)
	dnt.Header.Set("DNT", "1")
	env.do(dnt)

	require.Eventually(t, func() bool {
		stats, err := env.db.Stats(ctx)
		return err == nil && stats.TotalVisitors == 2
	}, 2*time.Second, 10*time.Millisecond)

	// Give a stray write a moment to land before checking nothing else did.
	time.Sleep(50 * time.Millisecond)
	visitors, err := env.db.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 2)

	paths := []string{visitors[0].Path, visitors[1].Path}
	assert.ElementsMatch(t, []string{"/developer", "/chainsafe"}, paths)
	assert.Len(t, visitors[0].HashedIP, 16)
	assert.Equal(t, visitors[0].HashedIP, visitors[1].HashedIP)
}
