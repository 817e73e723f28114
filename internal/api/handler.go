package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/obsidianstack/enpal-exporter/internal/exposition"
)

const textPlain = "text/plain"

// Exporter produces one exposition body per call. *exporter.Exporter
// implements it.
type Exporter interface {
	Export(ctx context.Context) (string, error)
}

// Handler serves the scrape endpoint.
type Handler struct {
	exporter Exporter
	mux      *http.ServeMux
}

// New creates a Handler wired to exp and registers all routes.
func New(exp Exporter) http.Handler {
	h := &Handler{exporter: exp, mux: http.NewServeMux()}

	h.mux.HandleFunc("/metrics", h.metrics)
	h.mux.HandleFunc("/", notFound)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// metrics serves GET /metrics from one fresh scrape of the box.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		textResp(w, http.StatusMethodNotAllowed, textPlain, "method not allowed")
		return
	}

	body, err := h.exporter.Export(r.Context())
	if err != nil {
		slog.Error("api: scrape failed", "path", r.URL.Path, "err", err)
		textResp(w, http.StatusInternalServerError, textPlain, err.Error())
		return
	}
	textResp(w, http.StatusOK, exposition.ContentType, body)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	textResp(w, http.StatusNotFound, textPlain, "404 not found")
}

// --- helpers ----------------------------------------------------------------

// textResp writes body with an explicit Content-Length.
func textResp(w http.ResponseWriter, code int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
