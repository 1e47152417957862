package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/analyses"
	"github.com/JaimeStill/cropwise/pkg/handlers"
	"github.com/JaimeStill/cropwise/pkg/routes"
	"github.com/JaimeStill/cropwise/pkg/storage"
)

// imagesHandler serves the field images uploaded for analysis. Keys outside
// the analysis image root are reported as missing.
type imagesHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newImagesHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *imagesHandler {
	return &imagesHandler{
		store:       store,
		logger:      logger.With("handler", "images"),
		maxListSize: maxListSize,
	}
}

func (h *imagesHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/images",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
			{Method: "GET", Pattern: "/{key...}", Handler: h.serve},
		},
	}
}

// list pages through stored images, narrowed to one planting with ?planting_id=.
func (h *imagesHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	prefix := analyses.ImageRoot
	if v := q.Get("planting_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid planting_id: %w", err))
			return
		}
		prefix = analyses.ImagePrefix(id)
	}

	maxResults, err := storage.ParseMaxResults(q.Get("max_results"), h.maxListSize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.store.List(r.Context(), prefix, q.Get("marker"), maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// serve streams an image inline so clients can render it directly.
func (h *imagesHandler) serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !strings.HasPrefix(key, analyses.ImageRoot) {
		handlers.RespondError(w, h.logger, http.StatusNotFound, storage.ErrNotFound)
		return
	}

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("image stream interrupted", "key", key, "error", err)
	}
}
