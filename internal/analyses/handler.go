package analyses

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/pkg/formatting"
	"github.com/JaimeStill/cropwise/pkg/handlers"
	"github.com/JaimeStill/cropwise/pkg/routes"
)

// Handler provides HTTP endpoints for image analyses.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "analyses"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analyses",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{plantingID}", Handler: h.List},
			{Method: "POST", Pattern: "/{plantingID}", Handler: h.Analyze},
			{Method: "POST", Pattern: "/{plantingID}/detections", Handler: h.Record},
		},
	}
}

// List returns every analysis of the planting, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	plantingID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	items, err := h.sys.List(r.Context(), plantingID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Analyze classifies a multipart image upload in the "image" field.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	plantingID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: limit %s", ErrImageTooLarge, formatting.FormatBytes(h.maxUploadSize, 1)),
		)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidImage)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidImage)
		return
	}

	cmd := UploadCommand{
		Data:        data,
		Filename:    header.Filename,
		ContentType: detectContentType(header.Header.Get("Content-Type"), data),
	}

	a, err := h.sys.Analyze(r.Context(), plantingID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, a)
}

// Record stores analysis results from a JSON body.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	plantingID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var cmd RecordCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	a, err := h.sys.Record(r.Context(), plantingID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, a)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("plantingID"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return uuid.Nil, false
	}
	return id, true
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
