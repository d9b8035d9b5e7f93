package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/medalist/internal/domain/model"
)

// handlePutProfile handles PUT /profiles/{profileID}. The body id may be
// omitted; when present it must match the path.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "profileID")
	var p model.Profile
	p.ID = id
	if err := s.decode(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	if p.ID != id {
		s.fail(w, r, fmt.Errorf("%w: %q != %q", ErrIDMismatch, p.ID, id))
		return
	}
	if err := s.deps.PutProfile(r.Context(), p); err != nil {
		s.fail(w, r, err)
		return
	}
	stored, err := s.deps.GetProfile(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// handleGetProfile handles GET /profiles/{profileID}.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.GetProfile(r.Context(), chi.URLParam(r, "profileID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleAppendActivity handles POST /profiles/{profileID}/activities.
func (s *Server) handleAppendActivity(w http.ResponseWriter, r *http.Request) {
	var rec model.ActivityRecord
	if err := s.decode(w, r, &rec); err != nil {
		s.fail(w, r, err)
		return
	}
	stored, err := s.deps.AppendActivity(r.Context(), chi.URLParam(r, "profileID"), rec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}
