package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-dashboard/internal/observability"
	"github.com/kjstillabower/weather-dashboard/internal/render"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// pageData is everything the search page template reads.
type pageData struct {
	Query       string
	Message     string
	Weather     *render.View
	Placeholder string
	History     render.HistoryView
	Year        int
}

// writePage renders the search page into a buffer first; a template error yields a 500.
func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, query string, snap render.Snapshot) {
	var entries []string
	if store := h.orchestrator.History(); store != nil {
		entries = store.Entries()
	}
	data := pageData{
		Query:       query,
		Message:     snap.Message,
		Weather:     snap.Weather,
		Placeholder: snap.Placeholder,
		History:     render.BuildHistoryView(entries),
		Year:        h.now().Year(),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		if logger := observability.LoggerFromContext(r.Context()); logger != nil {
			logger.Error("render page", zap.Error(err))
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
