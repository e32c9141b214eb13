package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jagadeeshD3/portfolio/internal/config"
	"github.com/jagadeeshD3/portfolio/internal/store"
)

const adminCookie = "admin_token"

// adminAuth holds the per-process session token and the salt used to hash
// visitor IPs. Both are regenerated on every start.
type adminAuth struct {
	token    string
	salt     string
	username string
	password string
}

func newAdminAuth(cfg config.Admin, dev bool, log zerolog.Logger) *adminAuth {
	a := &adminAuth{
		token:    randomHex(),
		salt:     randomHex(),
		username: cfg.Username,
		password: cfg.Password,
	}

	// Default credentials for development only
	if a.username == "" && dev {
		a.username = "admin"
		log.Warn().Msg("Using default admin username. Set ADMIN_USERNAME environment variable.")
	}
	if a.password == "" && dev {
		a.password = "admin123"
		log.Warn().Msg("Using default admin password. Set ADMIN_PASSWORD environment variable.")
	}
	if dev {
		log.Debug().Str("token", a.token).Msg("Admin token (dev only)")
	}
	return a
}

func randomHex() string {
	b := make([]byte, 32)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// hashIP is consistent per IP for the life of the process.
func (a *adminAuth) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	// Without configured credentials nobody can log in.
	if a.username == "" || a.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Paths that are never recorded as visits.
var untrackedPrefixes = []string{
	"/static/", "/images/", "/admin/", "/favicon", "/privacy", "/api/", "/documents/", "/theme/",
	"/chainsafe/app/ws", "/developer/tab/",
}

// visitorTrackingMiddleware records page views with hashed IPs. Do Not Track
// is honoured.
func (s *Server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if s.db == nil || c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		hashed := s.admin.hashIP(c.ClientIP())
		ua := c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.db.RecordVisit(ctx, hashed, ua, path); err != nil {
				s.log.Error().Err(err).Msg("Error recording visitor")
			}
		}()
		c.Next()
	}
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", s.view(c, "Admin Login", nil))
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", s.cfg.Release, true)
			s.log.Info().Str("from", s.admin.hashIP(c.ClientIP())).Msg("Admin login successful")
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		s.log.Warn().Str("from", s.admin.hashIP(c.ClientIP())).Msg("Failed admin login attempt")
		c.HTML(http.StatusUnauthorized, "admin-login.html", s.view(c, "Admin Login", gin.H{
			"error": "Invalid credentials",
		}))
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.cfg.Release, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.admin.middleware(), s.requireStore)

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.db.Stats(c.Request.Context())
		if err != nil {
			s.adminError(c, err, "Failed to load statistics")
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", s.view(c, "Dashboard", gin.H{"stats": stats}))
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.db.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.db.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			s.adminError(c, err, "Failed to load visitors")
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", s.view(c, "Visitors", gin.H{"visitors": visitors}))
	})

	admin.GET("/messages", func(c *gin.Context) {
		messages, err := s.db.RecentContacts(c.Request.Context(), 200)
		if err != nil {
			s.adminError(c, err, "Failed to load messages")
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", s.view(c, "Messages", gin.H{"messages": messages}))
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.db.CleanupVisitors(c.Request.Context(), store.VisitorRetention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.db.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.log.Info().Str("by", s.admin.hashIP(c.ClientIP())).Msg("Admin stats exported")
		c.JSON(http.StatusOK, stats)
	})
}

func (s *Server) requireStore(c *gin.Context) {
	if s.db == nil {
		c.HTML(http.StatusServiceUnavailable, "admin-error.html", s.view(c, "Error", gin.H{
			"error": "Statistics storage is not configured",
		}))
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) adminError(c *gin.Context, err error, msg string) {
	s.log.Error().Err(err).Msg(msg)
	c.HTML(http.StatusInternalServerError, "admin-error.html", s.view(c, "Error", gin.H{"error": msg}))
}
