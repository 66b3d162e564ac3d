package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/ecoleta/internal/photostore"
)

// allowedImageTypes is the set of MIME types accepted for point images.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the stdlib sniffer has no
// WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a RIFF container with "WEBP" at offset 8.
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if data is an
// accepted image format, or ("", false) otherwise. The client-declared
// Content-Type of the part is never trusted.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// handleGetUpload serves stored point images and the seeded item icons.
func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	reader, mimeType, err := s.photoStore.Get(r.Context(), filename)
	if errors.Is(err, photostore.ErrNotFound) {
		if icon, ok := itemIcon(filename); ok {
			w.Header().Set("Content-Type", "image/svg+xml")
			w.Header().Set("Cache-Control", "public, max-age=86400")
			if _, err := w.Write(icon); err != nil {
				s.logger.Error("write icon failed", "filename", filename, "error", err)
			}
			return
		}
		writeMessage(w, r, http.StatusNotFound, "file not found")
		return
	}
	if err != nil {
		s.logger.Error("get upload failed", "filename", filename, "error", err)
		writeMessage(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	defer closeWithLog(reader, "upload reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	// Stored names are random and never rewritten.
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write upload failed", "filename", filename, "error", err)
	}
}
