package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/micro-ha/nocontact/internal/http/handlers"
)

// NewRouter builds full HTTP routing tree for backend API and static frontend.
func NewRouter(api *handlers.API, defaultUserID string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RecoverJSON)
	r.Use(StripProxyPrefix)
	r.Use(RequestLogger(api))

	r.Get("/healthz", api.Health)
	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(UserScope(defaultUserID))

		// Long-lived; kept out of the request timeout.
		apiRouter.Get("/ws", api.Realtime)

		apiRouter.Group(func(g chi.Router) {
			g.Use(middleware.Timeout(20 * time.Second))

			g.Get("/devices", api.ListDevices)
			g.Post("/devices", api.CreateDevice)
			g.Get("/devices/export.xlsx", api.ExportDevices)
			g.Get("/devices/{id}", func(w http.ResponseWriter, r *http.Request) {
				api.GetDevice(w, r, chi.URLParam(r, "id"))
			})
			g.Put("/devices/{id}", func(w http.ResponseWriter, r *http.Request) {
				api.UpdateDevice(w, r, chi.URLParam(r, "id"))
			})
			g.Delete("/devices/{id}", func(w http.ResponseWriter, r *http.Request) {
				api.DeleteDevice(w, r, chi.URLParam(r, "id"))
			})
			g.Get("/devices/{id}/activity", func(w http.ResponseWriter, r *http.Request) {
				api.ListDeviceActivity(w, r, chi.URLParam(r, "id"))
			})

			g.Get("/contacts", api.ListContacts)
			g.Post("/contacts", api.CreateContact)
			g.Get("/contacts/{id}", func(w http.ResponseWriter, r *http.Request) {
				api.GetContact(w, r, chi.URLParam(r, "id"))
			})
			g.Put("/contacts/{id}", func(w http.ResponseWriter, r *http.Request) {
				api.UpdateContact(w, r, chi.URLParam(r, "id"))
			})
			g.Delete("/contacts/{id}", func(w http.ResponseWriter, r *http.Request) {
				api.DeleteContact(w, r, chi.URLParam(r, "id"))
			})

			g.Get("/profile", api.GetProfile)
			g.Put("/profile", api.UpdateProfile)

			g.Get("/alerts", api.ListAlerts)
			g.Post("/alerts", api.RecordAlert)
			g.Get("/alerts/export.xlsx", api.ExportAlerts)

			g.Post("/activity", api.RecordActivity)
			g.Get("/interval", api.Interval)
			g.Post("/refresh", api.Refresh)
		})
	})

	r.Get("/*", api.Static)
	r.Get("/", api.Static)
	return r
}

// RunServer starts and gracefully stops HTTP server with context cancellation.
func RunServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
