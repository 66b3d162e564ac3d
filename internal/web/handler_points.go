package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/ecoleta/internal/domain"
)

// maxMultipartMemory is how much of a multipart body is held in memory before
// spilling file parts to disk.
const maxMultipartMemory = 8 << 20

func (s *Server) handleListPoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.PointFilter{
		City: strings.TrimSpace(q.Get("city")),
		UF:   strings.TrimSpace(q.Get("uf")),
	}
	if raw := strings.TrimSpace(q.Get("items")); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil {
			writeValidation(w, r, []FieldError{{Field: "items", Message: err.Error()}})
			return
		}
		filter.ItemIDs = ids
	}

	points, err := s.service.ListPoints(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, "list points", err)
		return
	}
	writeJSON(w, r, http.StatusOK, points)
}

func (s *Server) handleShowPoint(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid point id")
		return
	}

	detail, err := s.service.GetPoint(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "get point", err)
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

func (s *Server) handleCreatePoint(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeMessage(w, r, http.StatusBadRequest, "failed to parse form")
		return
	}
	if r.MultipartForm != nil {
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				s.logger.Error("failed to remove multipart files", "error", err)
			}
		}()
	}

	form := readPointForm(r.FormValue)
	errs := form.validate(s.validate)

	imageData, mimeType, imageErr, err := s.readImage(r)
	if err != nil {
		s.writeServiceError(w, r, "read image", err)
		return
	}
	if imageErr != nil {
		errs = append(errs, *imageErr)
	}
	if len(errs) > 0 {
		writeValidation(w, r, errs)
		return
	}

	np, err := form.toNewPoint()
	if err != nil {
		writeValidation(w, r, []FieldError{{Message: err.Error()}})
		return
	}

	point, err := s.service.CreatePoint(r.Context(), np, imageData, mimeType)
	if err != nil {
		s.writeServiceError(w, r, "create point", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, point)
}

// readImage returns the uploaded image and its sniffed type. A missing or
// unsupported upload is reported as a field error rather than a failure.
func (s *Server) readImage(r *http.Request) ([]byte, string, *FieldError, error) {
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, "", &FieldError{Field: "image", Message: "image is required"}, nil
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", nil, err
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return nil, "", &FieldError{Field: "image", Message: "image must be a JPEG, PNG, GIF or WebP file"}, nil
	}
	return data, mimeType, nil, nil
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
