package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/justinas/nosurf"

	"github.com/acgh213/marklinks/internal/bookmarks"
	"github.com/acgh213/marklinks/internal/config"
	"github.com/acgh213/marklinks/internal/markdown"
	"github.com/acgh213/marklinks/internal/ratelimit"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Store is the bookmark storage behind the handlers.
type Store interface {
	List(ctx context.Context, limit, offset int) ([]bookmarks.Bookmark, error)
	Count(ctx context.Context) (int, error)
	ListTagged(ctx context.Context, tag string) ([]bookmarks.Bookmark, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]bookmarks.Bookmark, error)
	Get(ctx context.Context, id uuid.UUID) (*bookmarks.Bookmark, error)
	Create(ctx context.Context, in bookmarks.CreateInput) (*bookmarks.Bookmark, error)
	TagCounts(ctx context.Context) (map[string]int, error)
	Ping(ctx context.Context) error
}

type Server struct {
	store     Store
	cfg       *config.Config
	markdown  *markdown.Renderer
	templates *template.Template
}

func NewRouter(db *pgxpool.Pool, cfg *config.Config) http.Handler {
	return NewHandler(bookmarks.NewRepository(db), cfg)
}

// NewHandler builds the router on top of any Store.
func NewHandler(store Store, cfg *config.Config) http.Handler {
	s := &Server{
		store:    store,
		cfg:      cfg,
		markdown: markdown.NewRenderer(nil, cfg.MarkdownOptions()),
	}

	if err := s.loadTemplates(); err != nil {
		slog.Error("failed to load templates", "error", err)
		panic(err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// CSRF protection on all non-static routes
	r.Use(csrfProtect(cfg.IsDevelopment(), "/preview"))

	staticContent, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	r.Get("/health", s.handleHealth)

	r.Get("/", s.handleLinklist)
	r.Get("/daily", s.handleDaily)
	r.Get("/feed/atom", s.handleFeed)
	r.With(ratelimit.Middleware(ratelimit.New(previewRate(cfg), time.Minute))).
		Post("/preview", s.handlePreview)

	// Links
	r.Get("/links/new", s.handleLinkNew)
	r.Post("/links", s.handleLinkCreate)
	r.Get("/links/{id}", s.handleLinkView)

	return r
}

func (s *Server) loadTemplates() error {
	funcMap := template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"timeTag": func(t time.Time, format string) template.HTML {
			iso := t.Format(time.RFC3339)
			display := t.Format(format)
			return template.HTML(fmt.Sprintf(`<time datetime="%s">%s</time>`, iso, display))
		},
		"noMarkdownTag": func() string {
			return markdown.NoMarkdownTag
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS,
		"templates/layout/*.html",
		"templates/links/*.html",
	)
	if err != nil {
		return err
	}
	s.templates = tmpl
	return nil
}

// csrfProtect wraps nosurf for CSRF protection.
// Exempt paths do not mutate state.
func csrfProtect(isDev bool, exempt ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		csrf := nosurf.New(next)
		csrf.SetBaseCookie(http.Cookie{
			Name:     "csrf_token",
			Path:     "/",
			HttpOnly: true,
			Secure:   !isDev,
			SameSite: http.SameSiteLaxMode,
		})
		csrf.ExemptPaths(exempt...)
		// Detect TLS from the actual request (X-Forwarded-Proto or r.TLS)
		csrf.SetIsTLSFunc(isTLS)
		csrf.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("CSRF validation failed",
				"method", r.Method,
				"path", r.URL.Path,
				"reason", nosurf.Reason(r),
				"ip", r.RemoteAddr,
			)
			http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
		}))
		return csrf
	}
}

func previewRate(cfg *config.Config) int {
	if cfg.PreviewRate > 0 {
		return cfg.PreviewRate
	}
	return 60
}

func isTLS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
