package patterns

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/cropwise/pkg/handlers"
	"github.com/JaimeStill/cropwise/pkg/pagination"
	"github.com/JaimeStill/cropwise/pkg/routes"
)

// Handler provides HTTP endpoints for decision patterns.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "patterns"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for pattern endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/patterns",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/export", Handler: h.Export},
		},
	}
}

// List returns a paginated list of recorded patterns.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())
	if err := filters.Validate(); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Export streams matching patterns as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filters := FiltersFromQuery(r.URL.Query())
	if err := filters.Validate(); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	filename := fmt.Sprintf("decision_patterns_%s.csv", time.Now().UTC().Format("20060102"))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := h.sys.Export(r.Context(), w, filters); err != nil {
		h.logger.Error("pattern export failed", "error", err)
	}
}
