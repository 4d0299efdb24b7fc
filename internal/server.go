package internal

import (
	"context"
	"embed"
	"net/http"

	"assets-manager/internal/config"
	"assets-manager/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

//go:embed openapi
var openapiFS embed.FS

type Server struct {
	Store   store.Store
	Router  *chi.Mux
	Metrics *Metrics
	Log     *zap.Logger

	cfg *config.Config
}

func NewServer(st store.Store, cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		Router:  chi.NewRouter(),
		Metrics: NewMetrics(),
		Log:     log,
		cfg:     cfg,
	}
	s.Store = st
	if cfg.EnableMetrics {
		s.Store = store.WithMetrics(st, s.Metrics.Registry())
	}

	// chi requires every middleware to be registered before the first route
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(requestID)
	s.Router.Use(cors)
	s.Router.Use(s.accessLog)
	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.mountDocs(s.Router)
	if cfg.EnableMetrics {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Get("/assets", s.listAssets)
	s.Router.Post("/assets", s.createAsset)
	s.Router.Get("/assets/{id}", s.getAsset)
	s.Router.Put("/assets/{id}", s.updateAsset)
	s.Router.Delete("/assets/{id}", s.deleteAsset)

	s.Router.Post("/imports/excel", s.importExcel)
	s.Router.Get("/exports/excel", s.exportExcel)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// Close releases the store.
func (s *Server) Close(ctx context.Context) error {
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}

// mountDocs serves the OpenAPI document and a Swagger UI page.
func (s *Server) mountDocs(mux *chi.Mux) {
	if !s.cfg.EnableSwagger {
		return
	}

	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := openapiFS.ReadFile("openapi/openapi.yaml")
		if err != nil {
			http.Error(w, "Failed to read OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		if _, err := w.Write(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(swaggerPage))
	})
}

const swaggerPage = `<!doctype html>
<html lang="pt-BR">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Assets Manager API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
    <style>
        body { margin: 0; background: #f7f7f7; }
        .swagger-ui .topbar { display: none; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: '/openapi.yaml',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis],
                tryItOutEnabled: true
            });
        };
    </script>
</body>
</html>`
