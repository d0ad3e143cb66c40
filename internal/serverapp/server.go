package serverapp

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Talal-Sharaa/ReceIT/internal/auth"
	"github.com/Talal-Sharaa/ReceIT/internal/config"
	"github.com/Talal-Sharaa/ReceIT/internal/dashboard"
	"github.com/Talal-Sharaa/ReceIT/internal/httpmw"
	"github.com/Talal-Sharaa/ReceIT/internal/notify"
	"github.com/Talal-Sharaa/ReceIT/internal/receit"
	"github.com/Talal-Sharaa/ReceIT/internal/server"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
}

// App bundles the built handler with the resources behind it so the
// caller can shut them down.
type App struct {
	Handler http.Handler

	sqlite *receit.SQLiteStorage
}

func (a *App) Close() error {
	if a.sqlite != nil {
		return a.sqlite.Close()
	}
	return nil
}

// New wires the whole application: storage backend, auth, per-user
// record stores, dashboard, change notifications and middleware. The
// store manager is constructed once here and handed to every consumer.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	app := &App{}

	var newStorage func(ownerID string) receit.Storage
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		sq, err := receit.NewSQLiteStorage(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		app.sqlite = sq
		newStorage = func(ownerID string) receit.Storage { return sq.ForOwner(ownerID) }
	default:
		fs, err := receit.NewFileStorage(filepath.Join(cfg.Storage.DataDir, "receits"))
		if err != nil {
			return nil, err
		}
		newStorage = func(ownerID string) receit.Storage { return fs.ForOwner(ownerID) }
	}

	hub := notify.NewHub(logger)
	stores := receit.NewManager(newStorage, receit.ManagerOptions{
		SeedCategories: cfg.Categories.Seeds,
		Logger:         logger,
		OnChange:       hub.Broadcast,
	})

	authRepo, err := auth.NewFileRepo(filepath.Join(cfg.Storage.DataDir, "auth"))
	if err != nil {
		return nil, err
	}
	authService := auth.NewService(authRepo, logger, auth.ServiceOptions{
		CodeTTL:     time.Duration(cfg.Auth.CodeTTLMinutes) * time.Minute,
		SessionTTL:  time.Duration(cfg.Auth.SessionTTLHours) * time.Hour,
		MaxAttempts: cfg.Auth.MaxCodeAttempts,
	})
	authHandler := auth.NewHandler(authService)

	storeForRequest := func(r *http.Request) *receit.Store {
		u, ok := auth.UserFromContext(r.Context())
		if !ok {
			return nil
		}
		return stores.ForOwner(u.ID)
	}

	receitHandler := receit.NewHandler(stores)
	receitHandler.SetStoreResolver(storeForRequest)
	dashboardHandler := dashboard.NewHandler(storeForRequest)

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "receit",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	server.Handle(mux, rr, "POST /api/auth/request-code", "Request a one-time login code",
		http.HandlerFunc(authHandler.RequestCode))
	server.Handle(mux, rr, "POST /api/auth/verify-code", "Exchange a login code for a session",
		http.HandlerFunc(authHandler.VerifyCode))
	server.Handle(mux, rr, "GET /api/auth/session", "Describe the current session",
		http.HandlerFunc(authHandler.Session))
	server.Handle(mux, rr, "POST /api/auth/logout", "Revoke the current session",
		http.HandlerFunc(authHandler.Logout))

	requireAPI := authService.RequireAPI
	server.Handle(mux, rr, "GET /api/receits", "List records, optionally filtered by status",
		requireAPI(http.HandlerFunc(receitHandler.List)))
	server.Handle(mux, rr, "POST /api/receits", "Create a record",
		requireAPI(http.HandlerFunc(receitHandler.Create)))
	server.Handle(mux, rr, "GET /api/receits/{id}", "Fetch one record",
		requireAPI(http.HandlerFunc(receitHandler.Get)))
	server.Handle(mux, rr, "PUT /api/receits/{id}", "Replace a record",
		requireAPI(http.HandlerFunc(receitHandler.Update)))
	server.Handle(mux, rr, "DELETE /api/receits/{id}", "Delete a record, cascade optional",
		requireAPI(http.HandlerFunc(receitHandler.Delete)))
	server.Handle(mux, rr, "GET /api/receits/{id}/links", "Resolve a record's links",
		requireAPI(http.HandlerFunc(receitHandler.Links)))
	server.Handle(mux, rr, "POST /api/receits/{id}/notes", "Append a note to a record",
		requireAPI(http.HandlerFunc(receitHandler.AddNote)))
	server.Handle(mux, rr, "GET /api/categories", "List derived categories",
		requireAPI(http.HandlerFunc(receitHandler.Categories)))
	server.Handle(mux, rr, "GET /api/dashboard", "Completion progress summary",
		requireAPI(http.HandlerFunc(dashboardHandler.Stats)))

	server.Handle(mux, rr, "GET /api/updates", "Websocket stream of change events",
		requireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := auth.UserFromContext(r.Context())
			hub.Serve(w, r, u.ID)
		})))

	mux.HandleFunc("GET /api/routes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"routes": rr.List()})
	})

	app.Handler = httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(logger),
		httpmw.WithAccessLog(logger),
	)
	return app, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
