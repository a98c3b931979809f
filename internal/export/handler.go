package export

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/document"
	"github.com/linealab/linea/internal/engine"
)

const maxDocumentSize = 16 << 20 // 16MB

// Handler serves SVG exports: POST a serialised sketch document, receive the
// rendered SVG.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) ExportSVG(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}

	width := queryFloat(r, "w", 800)
	height := queryFloat(r, "h", 600)

	// Replay into a throwaway drawing with its own ID generator so exports
	// never advance the process-wide counter.
	d := engine.NewWithIDGen(canvas.NewIDGen(1))
	if err := document.Load(data, d); err != nil {
		slog.Warn("export rejected", "error", err)
		http.Error(w, "malformed document", http.StatusBadRequest)
		return
	}

	svg := SVG(d.DataState().Objects, DefaultFrame(width, height))

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

func queryFloat(r *http.Request, key string, def float64) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
