// Package httpapi wires the handler container into a chi router.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lumafx/lumafx/internal/http/handlers"
	"github.com/lumafx/lumafx/internal/middleware"
)

// NewRouter builds the HTTP surface the external renderer talks to.
func NewRouter(app *handlers.App, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Log),
		middleware.CORS(allowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/interactive", func(r chi.Router) {
		r.Post("/execute", app.Execute)
		r.Post("/layers", app.SetLayers)
		r.Post("/rendered", app.DeliverRendered)
		r.Post("/save", app.SaveResult)
		r.Get("/pending/{nodeID}", app.BatchPending)
		r.Get("/batch/{nodeID}/download", app.BatchDownload)
		r.Get("/staged/*", app.StagedFrame)
		r.Get("/events", app.Events)
	})

	r.Route("/v1/presets", func(r chi.Router) {
		r.Get("/", app.PresetsList)
		r.Post("/", app.PresetsSave)
		r.Delete("/{key}", app.PresetsDelete)
	})

	r.Route("/v1/shaders", func(r chi.Router) {
		r.Get("/manifest", app.ShaderManifest)
		r.Get("/custom", app.ShaderCustomList)
		r.Get("/file/*", app.ShaderFile)
	})

	return r
}
