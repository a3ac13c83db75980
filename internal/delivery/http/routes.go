package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/blogapp/backend/internal/domain"
	"github.com/blogapp/backend/internal/middleware"
)

// NewRouter assembles the fully wired router. All collaborators come in as
// parameters; there is no process-wide state.
func NewRouter(
	handler *Handler,
	authMiddleware *middleware.AuthMiddleware,
	postStore domain.Store[*domain.Post],
	commentStore domain.Store[*domain.Comment],
	allowedOrigins []string,
	log *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/logout", handler.Logout)
		r.Post("/refresh", handler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", handler.GetAllUsers)
			r.Get("/{id}", handler.GetUserByID)
			r.Put("/{id}", handler.UpdateUser)
			r.Delete("/{id}", handler.DeleteUser)
		})
	})

	posts := NewCrud(postStore, func() *domain.Post { return &domain.Post{} }, StampOwner)
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", posts.GetAll)
		r.Get("/{id}", posts.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/", posts.Create)
			r.Put("/{id}", posts.UpdateByID)
			r.Delete("/{id}", posts.DeleteByID)
		})
	})

	comments := NewCrud(commentStore, func() *domain.Comment { return &domain.Comment{} }, StampOwner)
	r.Route("/comments", func(r chi.Router) {
		r.Get("/", comments.GetAll)
		r.Get("/{id}", comments.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/", comments.Create)
			r.Put("/{id}", comments.UpdateByID)
			r.Delete("/{id}", comments.DeleteByID)
		})
	})

	return r
}
