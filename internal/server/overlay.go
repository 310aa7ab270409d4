package server

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/ayusman/slidehand/internal/overlay"
)

// OverlayHandler renders the pointer sub-state as PNG. It answers
// 204 No Content outside Pointer mode.
type OverlayHandler struct {
	source StatusReader
}

// NewOverlayHandler creates an OverlayHandler for source.
func NewOverlayHandler(source StatusReader) *OverlayHandler {
	return &OverlayHandler{source: source}
}

func (h *OverlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scale := 0.5
	if s := r.URL.Query().Get("scale"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 || v > 1 {
			http.Error(w, "scale must be in (0,1]", http.StatusBadRequest)
			return
		}
		scale = v
	}

	st := h.source.Status()
	if st.Pointer == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := overlay.WritePNG(&buf, *st.Pointer, st.Screen, scale); err != nil {
		log.Printf("Failed to render overlay: %v", err)
		http.Error(w, "Failed to render overlay", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}
