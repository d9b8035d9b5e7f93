package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type yearsResponse struct {
	AwardID string `json:"awardId"`
	Years   []int  `json:"years"`
}

// handleEvaluateAll handles GET /profiles/{profileID}/awards.
func (s *Server) handleEvaluateAll(w http.ResponseWriter, r *http.Request) {
	sum, err := s.deps.EvaluateAll(r.Context(), chi.URLParam(r, "profileID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// handleEvaluateAward handles GET /profiles/{profileID}/awards/{awardID}.
// The optional endYear query pins the evaluation year.
func (s *Server) handleEvaluateAward(w http.ResponseWriter, r *http.Request) {
	endYear, err := queryYear(r, "endYear")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.deps.EvaluateAward(r.Context(), chi.URLParam(r, "profileID"), chi.URLParam(r, "awardID"), endYear)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleEligibleYears handles GET /profiles/{profileID}/awards/{awardID}/years.
func (s *Server) handleEligibleYears(w http.ResponseWriter, r *http.Request) {
	awardID := chi.URLParam(r, "awardID")
	years, err := s.deps.EligibleYears(r.Context(), chi.URLParam(r, "profileID"), awardID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, yearsResponse{AwardID: awardID, Years: years})
}

// handleUnlock handles POST /profiles/{profileID}/awards/{awardID}/unlock.
func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.UnlockAward(r.Context(), chi.URLParam(r, "profileID"), chi.URLParam(r, "awardID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
