package api

import (
	"net/http"

	"github.com/okian/medalist/internal/domain/eligibility"
)

type evaluationsRequest struct {
	ProfileIDs []string `json:"profileIds" validate:"required,min=1,max=1000,dive,required"`
}

type evaluationOutcome struct {
	ProfileID string               `json:"profileId"`
	Summary   *eligibility.Summary `json:"summary,omitempty"`
	Error     *errorResponse       `json:"error,omitempty"`
}

type evaluationsResponse struct {
	Outcomes []evaluationOutcome `json:"outcomes"`
}

// handleEvaluations handles POST /evaluations, evaluating many stored
// profiles through the worker pool.
func (s *Server) handleEvaluations(w http.ResponseWriter, r *http.Request) {
	var req evaluationsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	outcomes, err := s.deps.EvaluateProfiles(r.Context(), req.ProfileIDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := evaluationsResponse{Outcomes: make([]evaluationOutcome, len(outcomes))}
	for i, o := range outcomes {
		out := evaluationOutcome{ProfileID: o.ProfileID}
		if o.Err != nil {
			_, code := classify(o.Err)
			out.Error = &errorResponse{Code: code, Message: o.Err.Error()}
		} else {
			sum := o.Summary
			out.Summary = &sum
		}
		resp.Outcomes[i] = out
	}
	writeJSON(w, http.StatusOK, resp)
}
