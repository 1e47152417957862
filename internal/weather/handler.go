package weather

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/cropwise/pkg/handlers"
	"github.com/JaimeStill/cropwise/pkg/routes"
)

// Handler provides HTTP endpoints for weather lookups.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "weather"),
	}
}

// Routes returns the route group definition for weather endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/weather",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Report},
		},
	}
}

// Report returns current conditions, forecast, and impact for ?lat=&lon=.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	loc, err := LocationFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	report, err := h.sys.Report(r.Context(), loc)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
