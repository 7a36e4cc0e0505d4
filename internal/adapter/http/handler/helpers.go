package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes its message and details.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg(message)
	}
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
		Details: domain.DetailsOf(err),
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingActor):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStateConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the body into req and checks its validation tags.
// It writes the error response itself and reports whether to continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeDomainError(w, r, "invalid request body", err)
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := dto.Validate(req); err != nil {
		writeDomainError(w, r, "invalid request body", err)
		return false
	}
	return true
}

// companyID returns the tenant resolved by the company middleware.
func companyID(r *http.Request) string {
	return domain.CompanyFromContext(r.Context())
}

// actor returns the authenticated actor or nil.
func actor(r *http.Request) *domain.Actor {
	a, _ := domain.ActorFromContext(r.Context())
	return a
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(val)
	if err != nil {
		return nil, domain.WithDetails(err, map[string]any{"parameter": key})
	}
	return &t, nil
}

// requireDateQuery parses a mandatory YYYY-MM-DD query parameter.
func requireDateQuery(r *http.Request, key string) (time.Time, error) {
	t, err := parseDateQuery(r, key)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, domain.WithDetails(domain.ErrMissingDate, map[string]any{"parameter": key})
	}
	return *t, nil
}

// parseClassesQuery parses a comma separated list of account classes, e.g. "5,6".
func parseClassesQuery(r *http.Request, key string) ([]int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	var classes []int
	for _, part := range strings.Split(val, ",") {
		class, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || class < 0 || class > 9 {
			return nil, domain.WithDetails(
				fmt.Errorf("%w: invalid account class %q", domain.ErrValidation, part),
				map[string]any{"parameter": key},
			)
		}
		classes = append(classes, class)
	}
	return classes, nil
}

// requireQuery returns a mandatory string query parameter.
func requireQuery(r *http.Request, key string) (string, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return "", domain.WithDetails(
			fmt.Errorf("%w: query parameter %s is required", domain.ErrValidation, key),
			map[string]any{"parameter": key},
		)
	}
	return val, nil
}
