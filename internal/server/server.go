package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lifelog/internal/engine"
	"lifelog/internal/menu"
	"lifelog/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Auth     AuthConfig
	Logger   zerolog.Logger
}

type apiErrorBody struct {
	Code    string `json:"code" example:"not_found"`
	Message string `json:"message" example:"Activity not found"`
}

// apiError models the error envelope used by the CRUD resources. The menu
// endpoints bypass it and answer in plain text for legacy clients.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Lifelog API.
func New(cfg Config) (http.Handler, error) {
	basePath := strings.TrimSuffix(cfg.BasePath, "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			// Schema/request validation errors should be 400 bad_request
			status = http.StatusBadRequest
		}
		return newAPIError(status, "", msg)
	}

	router := chi.NewRouter()
	router.Use(requestLogger(cfg.Logger))
	router.Use(newAuthMiddleware(cfg.Auth))

	registerHealth(router)
	registerMenu(router, basePath, cfg.Engine)
	registerDocs(router)

	hcfg := huma.DefaultConfig("Lifelog API", "1.0.0")
	hcfg.OpenAPIPath = "" // cached /openapi.json route below
	hcfg.DocsPath = ""    // custom Swagger UI below
	api := humachi.New(router, hcfg)
	var group huma.API = api
	if basePath != "" {
		group = huma.NewGroup(api, basePath)
	}

	registerActivities(group, cfg.Engine)
	registerActivityTypes(group, cfg.Engine)
	registerCategories(group, cfg.Engine)
	registerGames(group, cfg.Engine)
	registerMovies(group, cfg.Engine)
	registerTVShows(group, cfg.Engine)
	registerEvents(group, cfg.Engine)
	registerOpenAPI(router, api)

	startWebhookDispatcher(cfg.Engine, cfg.Logger)

	return router, nil
}

func newAPIError(status int, code, message string) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
		},
	}
}

// handleError maps storage and validation failures onto statuses. Messages
// pass through verbatim: this is a single-operator tool.
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error())
	}
	if errors.Is(err, repo.ErrConflict) {
		return newAPIError(http.StatusConflict, "conflict", err.Error())
	}
	lowered := strings.ToLower(err.Error())
	if strings.Contains(lowered, "missing") || strings.Contains(lowered, "invalid") || strings.Contains(lowered, "required") {
		return newAPIError(http.StatusBadRequest, "bad_request", err.Error())
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", err.Error())
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("request_id", uuid.NewString()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

func registerHealth(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}

// registerMenu wires the three derived-menu endpoints. They keep the legacy
// contract byte for byte: 200 with a JSON body, 500 with the verbatim error
// message in plain text, never a partial menu.
func registerMenu(r chi.Router, basePath string, e engine.Engine) {
	r.Get(joinPath(basePath, "/menu-items"), menuHandler(e, func(m menu.Menu) any { return menu.PlainView(m) }))
	r.Get(joinPath(basePath, "/menu-items/v2"), menuHandler(e, func(m menu.Menu) any { return menu.StructuredView(m) }))
	r.Get(joinPath(basePath, "/menu-items/shortcuts"), menuHandler(e, func(m menu.Menu) any { return menu.ShortcutsView(m) }))
}

func menuHandler(e engine.Engine, render func(menu.Menu) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := e.Menu(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(render(m))
	}
}

func joinPath(basePath, p string) string {
	if basePath == "" {
		return p
	}
	return path.Join(basePath, p)
}

func registerDocs(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML())
	})
}

func registerOpenAPI(r chi.Router, api huma.API) {
	var spec []byte
	r.Get("/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(spec)
	})
}

func swaggerHTML() string {
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Lifelog API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
    <p style="padding: 1rem; font-family: sans-serif; color: #444;">
      Authenticate with X-Api-Key or Authorization: Bearer &lt;token&gt;.
    </p>
  </body>
</html>`, "/openapi.json")
}
