package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/observability"
	"github.com/matzehuels/routetrace/pkg/session"
)

// errorResponse is the JSON body of every error answer.
type errorResponse struct {
	Error    string   `json:"error"`
	Code     string   `json:"code,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status.
//
//	INVALID_* with problems  422
//	other INVALID_*          400
//	*NOT_FOUND               404
//	UNSUPPORTED              501
//	anything else            500
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case rterrors.IsInvalid(err):
		if len(rterrors.Problems(err)) > 0 {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case rterrors.IsNotFound(err):
		return http.StatusNotFound
	case rterrors.Is(err, rterrors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error:    rterrors.UserMessage(err),
		Code:     string(rterrors.GetCode(err)),
		Problems: rterrors.Problems(err),
	}
	if errors.Is(err, session.ErrNotFound) {
		resp.Code = string(rterrors.ErrCodeSessionNotFound)
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp = errorResponse{Error: "internal error", Code: string(rterrors.ErrCodeInternal)}
	}

	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		route = rctx.RoutePattern()
	}
	observability.HTTP().OnError(r.Context(), r.Method, route, err)
	writeJSON(w, status, resp)
}

// decode reads a JSON request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return rterrors.Wrap(rterrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
