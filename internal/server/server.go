package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"ikit-news/internal/config"
	"ikit-news/internal/flash"
	"ikit-news/internal/model"
	"ikit-news/internal/news"
	"ikit-news/internal/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

//go:embed templates static
var assets embed.FS

var pageFiles = []string{
	"home.html",
	"article.html",
	"login.html",
	"register.html",
	"profile.html",
	"create_post.html",
	"grant_permissions.html",
}

type Server struct {
	cfg      config.ServerConfig
	sessions *session.Manager
	catalog  *news.Catalog
	threads  *news.Threads
	flashes  *flash.Store
	logger   *zap.Logger
	router   *mux.Router
	pages    map[string]*template.Template
	server   *http.Server

	done     chan struct{}
	stopOnce sync.Once
}

func NewServer(cfg config.ServerConfig, sessions *session.Manager, catalog *news.Catalog, logger *zap.Logger) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		catalog:  catalog,
		threads:  news.NewThreads(),
		flashes:  flash.NewStore(),
		logger:   logger,
		router:   mux.NewRouter(),
		pages:    pages,
		done:     make(chan struct{}),
	}
	s.routes()
	if cfg.SweepInterval > 0 {
		go s.runSweeper(cfg.SweepInterval, cfg.IdleTTL)
	}
	return s, nil
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(assets,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.In(news.Krasnoyarsk).Format("02.01.2006")
	},
	"datetime": func(t time.Time) string {
		return t.In(news.Krasnoyarsk).Format("02.01.2006, 15:04:05")
	},
	"paragraphs":   news.Paragraphs,
	"categorySlug": news.CategorySlug,
}

func (s *Server) routes() {
	static, _ := fs.Sub(assets, "static")
	s.router.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static)))).
		Name("static")

	s.router.Use(s.logRequests, s.withSession, s.resetThreads)

	// App Routes
	s.router.HandleFunc("/", s.handleHome).Methods("GET").Name("home")
	s.router.HandleFunc("/news", s.handleHome).Methods("GET").Name("news")
	s.router.HandleFunc("/article/{id}", s.handleArticle).Methods("GET").Name("article")
	s.router.HandleFunc("/article/{id}/comments", s.handleComment).Methods("POST").Name("comment")
	s.router.HandleFunc("/article/{id}/hide", s.handleHide).Methods("POST").Name("hide")
	s.router.HandleFunc("/login", s.handleLoginForm).Methods("GET").Name("login")
	s.router.HandleFunc("/login", s.handleLogin).Methods("POST")
	s.router.HandleFunc("/register", s.handleRegisterForm).Methods("GET").Name("register")
	s.router.HandleFunc("/register", s.handleRegister).Methods("POST")
	s.router.HandleFunc("/logout", s.handleLogout).Methods("POST").Name("logout")
	s.router.HandleFunc("/profile", s.handleProfile).Methods("GET").Name("profile")
	s.router.HandleFunc("/profile", s.handleProfileSave).Methods("POST")
	s.router.HandleFunc("/create-post", s.handleCreatePostForm).Methods("GET").Name("create-post")
	s.router.HandleFunc("/create-post", s.handleCreatePost).Methods("POST")
	s.router.HandleFunc("/grant-permissions", s.handleGrantForm).Methods("GET").Name("grant-permissions")
	s.router.HandleFunc("/grant-permissions", s.handleGrant).Methods("POST")
}

// runSweeper drops comment threads and notifications of sessions idle for
// longer than ttl, until the server is stopped.
func (s *Server) runSweeper(every, ttl time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			cutoff := now.Add(-ttl)
			threads, flashes := s.threads.Sweep(cutoff), s.flashes.Sweep(cutoff)
			if threads+flashes > 0 {
				s.logger.Debug("Swept idle session state",
					zap.Int("threads", threads),
					zap.Int("flashes", flashes))
			}
		}
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start launches the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.logger.Info("Web server listening", zap.String("addr", s.cfg.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down
func (s *Server) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type navItem struct {
	Path   string
	Label  string
	Active bool
}

// pageData is what every template receives. Page holds the page's own fields.
type pageData struct {
	Title   string
	User    *model.User
	Flashes []flash.Notification
	Nav     []navItem
	Page    any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title string, page any) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.logger.Error("Unknown template", zap.String("name", name))
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	sess := sessionFrom(r)
	data := pageData{
		Title:   title,
		Flashes: s.flashes.Pop(sess.ID),
		Nav: []navItem{
			{Path: "/", Label: "Главная", Active: r.URL.Path == "/"},
			{Path: "/news", Label: "Новости", Active: r.URL.Path == "/news"},
		},
		Page: page,
	}
	if u, ok := sess.User(); ok {
		data.User = &u
	}

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("Template error", zap.String("name", name), zap.Error(err))
		http.Error(w, "Failed to execute template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, buf.String())
}

// notify queues n for the request's session.
func (s *Server) notify(r *http.Request, n flash.Notification) {
	s.flashes.Push(sessionFrom(r).ID, n)
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
