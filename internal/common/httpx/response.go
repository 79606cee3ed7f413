package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/juju/errors"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/domain"
)

const maxBodyBytes = 10 << 20

var log = logger.New("http")

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem writes a simplified RFC 7807 body. "error" repeats the detail
// for clients that read {error: msg}.
func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	WriteJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
		"error":  detail,
	})
}

// WriteError maps err onto a problem response. The cause of a 500 is
// logged and replaced by a generic detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code, typ := Classify(err)
	detail := err.Error()
	if code == http.StatusInternalServerError {
		log.WithRequestID(middleware.GetReqID(r.Context())).Error("request_failed", err, map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		detail = "internal error"
	}
	WriteProblem(w, code, typ, detail)
}

// Classify returns the HTTP status and problem type for err.
func Classify(err error) (int, string) {
	var upstream *domain.UpstreamPaymentError
	switch {
	case errors.Is(err, errors.NotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errors.NotValid), errors.Is(err, errors.BadRequest):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, errors.AlreadyExists), errors.Is(err, domain.ErrCategoryInUse):
		return http.StatusConflict, "conflict"
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "upstream_payment_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

// DecodeJSON reads a size-limited JSON body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequest(err, "invalid JSON body")
	}
	return nil
}
