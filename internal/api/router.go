package api

import (
	"net/http"

	"github.com/dom/profile-feed/internal/api/handlers"
	"github.com/dom/profile-feed/internal/api/middleware"
	"github.com/dom/profile-feed/internal/config"
	"github.com/dom/profile-feed/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, verifier middleware.TokenVerifier, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	profileHandler := handlers.NewProfileHandler(services.Profile)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(verifier))
				r.Get("/me", authHandler.Me)
				r.Post("/delete", authHandler.DeleteAccount)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.With(middleware.OptionalAuth(verifier)).Get("/", profileHandler.Get)
			r.Get("/{id}", profileHandler.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(verifier))
				r.Post("/", profileHandler.Create)
				r.Put("/", profileHandler.Update)
				r.Delete("/", profileHandler.Delete)
			})
		})

		r.With(middleware.OptionalAuth(verifier)).Get("/feed", profileHandler.Feed)
	})

	return r
}
