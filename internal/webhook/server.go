// internal/webhook/server.go
package webhook

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cbrgm/githubevents/v2/githubevents"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/go-github/v80/github"

	"github-commit-mirror/internal/api"
	"github-commit-mirror/internal/database"
)

// EventSink receives validated, typed webhook events. Implementations must
// not block: the transport acknowledges the delivery as soon as the sink
// method returns.
type EventSink interface {
	InstallationCreated(ctx context.Context, ev *github.InstallationEvent)
	InstallationDeleted(ctx context.Context, ev *github.InstallationEvent)
	RepositoriesAdded(ctx context.Context, ev *github.InstallationRepositoriesEvent)
	RepositoriesRemoved(ctx context.Context, ev *github.InstallationRepositoriesEvent)
	Push(ctx context.Context, ev *github.PushEvent)
}

// NewRouter builds the full HTTP surface: webhook intake, health check, and
// the read API. The secret is used for HMAC signature validation of every
// delivery.
func NewRouter(secret string, sink EventSink, db database.Querier, logger *slog.Logger) http.Handler {
	events := newEventHandler(secret, sink, logger)

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Post("/api/webhook", func(w http.ResponseWriter, req *http.Request) {
		if err := events.HandleEventRequest(req); err != nil {
			logger.Error("Rejected webhook delivery", "error", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Mount("/v1", api.Routes(db, logger))

	return r
}

// newEventHandler registers the sink's handlers on a githubevents
// dispatcher. Unsupported event types fall through HandleEventRequest
// unprocessed, which is fine: the delivery is still acknowledged.
func newEventHandler(secret string, sink EventSink, logger *slog.Logger) *githubevents.EventHandler {
	handler := githubevents.New(secret)

	handler.OnBeforeAny(func(ctx context.Context, deliveryID, eventName string, event any) error {
		logger.Info("Webhook delivery received", "event", eventName, "delivery_id", deliveryID)
		return nil
	})

	handler.OnInstallationEventCreated(func(ctx context.Context, deliveryID, eventName string, event *github.InstallationEvent) error {
		sink.InstallationCreated(ctx, event)
		return nil
	})
	handler.OnInstallationEventDeleted(func(ctx context.Context, deliveryID, eventName string, event *github.InstallationEvent) error {
		sink.InstallationDeleted(ctx, event)
		return nil
	})
	handler.OnInstallationRepositoriesEventAdded(func(ctx context.Context, deliveryID, eventName string, event *github.InstallationRepositoriesEvent) error {
		sink.RepositoriesAdded(ctx, event)
		return nil
	})
	handler.OnInstallationRepositoriesEventRemoved(func(ctx context.Context, deliveryID, eventName string, event *github.InstallationRepositoriesEvent) error {
		sink.RepositoriesRemoved(ctx, event)
		return nil
	})
	handler.OnPushEventAny(func(ctx context.Context, deliveryID, eventName string, event *github.PushEvent) error {
		sink.Push(ctx, event)
		return nil
	})

	return handler
}
