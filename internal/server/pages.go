package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jagadeeshD3/portfolio/internal/mail"
)

// Portfolio tabs in display order.
var tabs = []string{"about", "stack", "experience", "projects", "contact"}

func validTab(name string) bool {
	for _, t := range tabs {
		if t == name {
			return true
		}
	}
	return false
}

// view collects what every page template needs.
func (s *Server) view(c *gin.Context, title string, extra gin.H) gin.H {
	h := gin.H{
		"title":   title,
		"dark":    isDark(c),
		"profile": s.content.Profile,
		"content": s.content,
		"tabs":    tabs,
		"form":    mail.Contact{},
	}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func (s *Server) setupPageRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/developer")
	})

	r.GET("/developer", func(c *gin.Context) {
		tab := c.DefaultQuery("tab", "about")
		if !validTab(tab) {
			tab = "about"
		}
		c.HTML(http.StatusOK, "developer.html", s.view(c, s.content.Profile.Name, gin.H{
			"tab": tab,
		}))
	})

	// HTMX fragment for one tab
	r.GET("/developer/tab/:name", func(c *gin.Context) {
		tab := c.Param("name")
		if !validTab(tab) {
			c.String(http.StatusNotFound, "unknown tab")
			return
		}
		c.HTML(http.StatusOK, "tab.html", s.view(c, "", gin.H{"tab": tab}))
	})

	r.GET("/resume", func(c *gin.Context) {
		c.HTML(http.StatusOK, "resume.html", s.view(c, "Resume", nil))
	})

	r.GET("/documents/resume.pdf", s.serveResume)

	r.GET("/chainsafe", func(c *gin.Context) {
		c.HTML(http.StatusOK, "chainsafe.html", s.view(c, s.content.ChainSafe.Title, gin.H{
			"landing": s.content.ChainSafe,
		}))
	})

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", s.view(c, "Privacy Policy", nil))
	})
}

// serveResume serves the PDF inline, or as an attachment with ?download=1.
func (s *Server) serveResume(c *gin.Context) {
	info, err := os.Stat(s.cfg.ResumeFile)
	if err != nil || info.IsDir() {
		s.log.Warn().Err(err).Str("path", s.cfg.ResumeFile).Msg("Resume not found")
		c.String(http.StatusNotFound, "resume not available")
		return
	}
	if c.Query("download") != "" {
		c.FileAttachment(s.cfg.ResumeFile, s.cfg.ResumeName)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", s.cfg.ResumeName))
	c.File(s.cfg.ResumeFile)
}
