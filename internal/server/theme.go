package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jagadeeshD3/portfolio/internal/theme"
)

const themeContextKey = "theme"

// themeCookieAge keeps the preference for a year.
const themeCookieAge = 365 * 24 * 3600

// cookieStore persists the theme preference in a cookie on the visitor's
// browser.
type cookieStore struct {
	c *gin.Context
}

func (s cookieStore) Get(key string) (string, bool) {
	v, err := s.c.Cookie(key)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (s cookieStore) Set(key, value string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, themeCookieAge, "/", "", false, false)
	return nil
}

// prefersDark reads the Sec-CH-Prefers-Color-Scheme client hint.
func prefersDark(c *gin.Context) bool {
	return c.GetHeader("Sec-CH-Prefers-Color-Scheme") == "dark"
}

func themeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
		c.Set(themeContextKey, theme.Load(cookieStore{c: c}, prefersDark(c)))
		c.Next()
	}
}

func themeFrom(c *gin.Context) *theme.State {
	if v, ok := c.Get(themeContextKey); ok {
		if st, ok := v.(*theme.State); ok {
			return st
		}
	}
	return theme.Load(cookieStore{c: c}, prefersDark(c))
}

func isDark(c *gin.Context) bool {
	return themeFrom(c).IsDark()
}

func toggleTheme(c *gin.Context) {
	pref, err := themeFrom(c).Toggle()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.GetHeader("HX-Request") != "" || c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEJSON {
		c.JSON(http.StatusOK, gin.H{"theme": pref})
		return
	}
	// Only the path of the referer is kept so the redirect stays on site.
	back := "/developer"
	if u, err := url.Parse(c.Request.Referer()); err == nil && strings.HasPrefix(u.Path, "/") && !strings.HasPrefix(u.Path, "//") {
		back = u.Path
	}
	c.Redirect(http.StatusSeeOther, back)
}
