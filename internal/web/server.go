package web

import (
	"html/template"
	"net/http"

	"github.com/UkralStul/social-blog-service/internal/auth"
	"github.com/UkralStul/social-blog-service/internal/cache"
	"github.com/UkralStul/social-blog-service/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server holds the handler dependencies.
type Server struct {
	store     storage.Storage
	sessions  *auth.Sessions
	pageCache *cache.PageCache
	templates *template.Template
	uploadDir string
}

// New builds a Server with parsed templates.
func New(store storage.Storage, sessions *auth.Sessions, pageCache *cache.PageCache, uploadDir string) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		store:     store,
		sessions:  sessions,
		pageCache: pageCache,
		templates: templates,
		uploadDir: uploadDir,
	}, nil
}

// Routes wires the full HTTP surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.sessions.Middleware(s.store))

	r.NotFound(s.notFound)

	r.Get("/", s.index)
	r.Get("/group/{slug}", s.groupPosts)

	r.Get("/auth/signup", s.signup)
	r.Post("/auth/signup", s.signup)
	r.Get("/auth/login", s.login)
	r.Post("/auth/login", s.login)
	r.Get("/auth/logout", s.logout)

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir))))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/new", s.newPost)
		r.Post("/new", s.newPost)
		r.Get("/follow", s.followIndex)
		r.Get("/{username}/follow", s.profileFollow)
		r.Get("/{username}/unfollow", s.profileUnfollow)
		r.Get("/{username}/{postID}/edit", s.postEdit)
		r.Post("/{username}/{postID}/edit", s.postEdit)
		r.Post("/{username}/{postID}/comment", s.addComment)
	})

	r.Get("/{username}", s.profile)
	r.Get("/{username}/{postID}", s.postView)

	return r
}
