// Package server wires the site's HTTP routes.
package server

import (
	"context"
	"embed"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jagadeeshD3/portfolio/internal/clock"
	"github.com/jagadeeshD3/portfolio/internal/config"
	"github.com/jagadeeshD3/portfolio/internal/content"
	"github.com/jagadeeshD3/portfolio/internal/diff"
	"github.com/jagadeeshD3/portfolio/internal/logging"
	"github.com/jagadeeshD3/portfolio/internal/mail"
	"github.com/jagadeeshD3/portfolio/internal/store"
	"github.com/jagadeeshD3/portfolio/internal/transform"
)

//go:embed templates/*.html
var templateFS embed.FS

// Relay delivers contact submissions.
type Relay interface {
	Deliver(ctx context.Context, c mail.Contact) error
}

type Deps struct {
	Config      config.Config
	Content     *content.Portfolio
	Store       *store.DB
	Relay       Relay
	Transformer transform.Transformer
	Clock       clock.Clock
	Logger      zerolog.Logger
}

type Server struct {
	cfg         config.Config
	content     *content.Portfolio
	db          *store.DB
	relay       Relay
	transformer transform.Transformer
	clock       clock.Clock
	log         zerolog.Logger
	admin       *adminAuth
}

func New(deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	return &Server{
		cfg:         deps.Config,
		content:     deps.Content,
		db:          deps.Store,
		relay:       deps.Relay,
		transformer: deps.Transformer,
		clock:       deps.Clock,
		log:         deps.Logger,
		admin:       newAdminAuth(deps.Config.Admin, !deps.Config.Release, deps.Logger),
	}
}

var templateFuncs = template.FuncMap{
	"palette": func(dark bool) diff.Palette {
		return diff.DefaultStyles.Palette(dark)
	},
	"styles": func() diff.Styles { return diff.DefaultStyles },
	// Palette values come from diff.DefaultStyles, never from requests.
	"css": func(s string) template.CSS { return template.CSS(s) },
	// Profile links include tel: which html/template would otherwise reject.
	"link": func(url string) template.URL { return template.URL(url) },
	"external": func(url string) bool {
		return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.GinMiddleware(s.log), themeMiddleware(), s.visitorTrackingMiddleware())
	r.SetHTMLTemplate(tmpl)

	r.Static("/images", s.cfg.ImagesDir)
	r.Static("/static", s.cfg.StaticDir)

	s.setupPageRoutes(r)
	s.setupContactRoutes(r)
	s.setupEditorRoutes(r)
	s.setupAdminRoutes(r)

	r.POST("/theme/toggle", toggleTheme)

	// Unknown pages land on the portfolio.
	r.NoRoute(func(c *gin.Context) {
		c.Redirect(302, "/developer")
	})
	return r, nil
}
