package api

import (
	"fmt"
	"net/http"
)

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	if err := s.writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		s.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) logError(r *http.Request, err error) {
	s.logf("error %s %s: %v", r.Method, r.URL.RequestURI(), err)
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.logError(r, err)
	s.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func (s *Server) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func (s *Server) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("the %s method is not supported for this resource", r.Method))
}

func (s *Server) failedValidationResponse(w http.ResponseWriter, r *http.Request, errs validator) {
	s.errorResponse(w, r, http.StatusUnprocessableEntity, map[string]string(errs))
}

func (s *Server) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}
