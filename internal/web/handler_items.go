package web

import "net/http"

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListItems(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "list items", err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}
