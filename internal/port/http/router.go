package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/http/handler"
	"github.com/agrolease/agrolease-backend/internal/port/http/middleware"
)

type RouterDeps struct {
	Lands     *handler.ListingHandler
	Equipment *handler.ListingHandler
	Users     *handler.UserHandler
	Admin     *handler.AdminHandler
	JWTSecret string
	Logger    *zap.Logger
}

// NewRouter assembles the full API surface. Auth is a middleware chain:
// JWTAuth for anything personal, RequireRole on top for owner-side and admin
// routes.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogger(deps.Logger))

	auth := middleware.JWTAuth(deps.JWTSecret)
	ownerOnly := middleware.RequireRole(entity.RoleOwner, entity.RoleAdmin)
	adminOnly := middleware.RequireRole(entity.RoleAdmin)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.Users.Register)
			r.Post("/login", deps.Users.Login)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/me", deps.Users.Me)
				r.Put("/profile", deps.Users.UpdateProfile)
			})
		})

		r.Route("/lands", listingRoutes(deps.Lands, "/user/my-lands", auth, ownerOnly))
		r.Route("/equipment", listingRoutes(deps.Equipment, "/user/my-equipment", auth, ownerOnly))

		r.Route("/users", func(r chi.Router) {
			r.Use(auth)
			r.Put("/{id}", deps.Users.UpdateUser)
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", deps.Users.ListUsers)
				r.Get("/{id}", deps.Users.GetUser)
				r.Delete("/{id}", deps.Users.DeleteUser)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth, adminOnly)
			r.Get("/stats", deps.Admin.Stats)
			r.Get("/lands", deps.Lands.AdminList)
			r.Get("/equipment", deps.Equipment.AdminList)
			r.Get("/users", deps.Users.ListUsers)
		})
	})

	return r
}

// listingRoutes mounts the per-kind listing surface. minePath preserves the
// kind-specific "my listings" path.
func listingRoutes(h *handler.ListingHandler, minePath string, auth, ownerOnly func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get(minePath, h.ListMine)

			r.Group(func(r chi.Router) {
				r.Use(ownerOnly)
				r.Post("/", h.Create)
				r.Put("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
				r.Delete("/{id}/images/{imageId}", h.DeleteImage)
				r.Patch("/{id}/availability", h.SetAvailability)
			})
		})

		r.Get("/{id}", h.Get)
	}
}
