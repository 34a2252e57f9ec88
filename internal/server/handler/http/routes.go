package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/atinyakov/FoodKeeper/internal/middleware"
)

// NewRouter constructs the HTTP handler that serves the FoodKeeper API
// under /api.
//
// Routes:
//
//	GET    /api/ping
//	POST   /api/register
//	POST   /api/login
//	GET    /api/foods                 ?search=&category=
//	GET    /api/foods/expiring-soon
//	GET    /api/foods/{id}
//	GET    /api/foods/{id}/notes
//	POST   /api/foods                 (auth)
//	PUT    /api/foods/{id}            (auth, owner)
//	DELETE /api/foods/{id}            (auth, owner)
//	POST   /api/foods/{id}/notes      (auth, owner)
//	GET    /api/myfoods               (auth)
//	GET    /api/profile               (auth)
//	PUT    /api/profile               (auth)
func NewRouter(
	authHandler *AuthHandler,
	foodHandler *FoodHandler,
	noteHandler *NoteHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Get("/foods", foodHandler.List)
		r.Get("/foods/expiring-soon", foodHandler.ExpiringSoon)
		r.Get("/foods/{id}", foodHandler.Get)
		r.Get("/foods/{id}/notes", noteHandler.List)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier))

			r.Get("/profile", authHandler.Profile)
			r.Put("/profile", authHandler.UpdateProfile)
			r.Get("/myfoods", foodHandler.Mine)
			r.Post("/foods", foodHandler.Create)
			r.Put("/foods/{id}", foodHandler.Update)
			r.Delete("/foods/{id}", foodHandler.Delete)
			r.Post("/foods/{id}/notes", noteHandler.Add)
		})
	})

	return r
}
