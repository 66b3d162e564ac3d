package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/vbonduro/ecoleta/internal/domain"
)

// FieldError names one rejected form field or query parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, ErrorResponse{Message: msg})
}

func writeValidation(w http.ResponseWriter, r *http.Request, errs []FieldError) {
	writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Message: "validation failed", Errors: errs})
}

// writeServiceError maps domain errors onto statuses. Anything unrecognised
// is logged and reported as a bare 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrPointNotFound):
		writeMessage(w, r, http.StatusNotFound, domain.ErrPointNotFound.Error())
	case errors.Is(err, domain.ErrUnknownItem):
		writeValidation(w, r, []FieldError{{Field: "items", Message: "items must reference existing items"}})
	case errors.Is(err, domain.ErrNoItems):
		writeValidation(w, r, []FieldError{{Field: "items", Message: "items must list at least one item"}})
	default:
		s.logger.Error(op+" failed", "request_id", requestIDFrom(r.Context()), "error", err)
		writeMessage(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
