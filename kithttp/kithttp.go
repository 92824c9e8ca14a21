// Package kithttp holds the HTTP plumbing shared by every service transport:
// error encoding, JSON responses and request deadlines.
package kithttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/laxuman02230135/task-management/apperr"
)

func ServerOptions(logger log.Logger) []httptransport.ServerOption {
	return []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(ErrorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
	}
}

func ErrorEncoder(_ context.Context, err error, w http.ResponseWriter) {
	code, body := err2code(err), errorWrapper{Error: message(err)}
	if v, ok := apperr.AsValidation(err); ok {
		body.Field = v.Field
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

type errorWrapper struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func err2code(err error) int {
	if _, ok := apperr.AsValidation(err); ok {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated), errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ratelimit.ErrLimited):
		return http.StatusTooManyRequests
	case apperr.IsTimeout(err):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// message is the client-facing text for err. Anything unclassified stays
// behind the generic upstream message.
func message(err error) string {
	if v, ok := apperr.AsValidation(err); ok {
		return v.Message
	}
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return apperr.ErrUnauthenticated.Error()
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return apperr.ErrInvalidCredentials.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return apperr.ErrNotFound.Error()
	case errors.Is(err, apperr.ErrConflict):
		return err.Error()
	case errors.Is(err, ratelimit.ErrLimited):
		return "too many requests"
	case apperr.IsTimeout(err):
		return apperr.ErrTimeout.Error()
	}
	return "upstream failure, please retry"
}

// StatusCode reports the status ErrorEncoder would write for err.
func StatusCode(err error) int {
	return err2code(err)
}

// EncodeResponse is a transport/http.EncodeResponseFunc that routes failed
// responses through ErrorEncoder and JSON-encodes the rest.
func EncodeResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
		ErrorEncoder(ctx, f.Failed(), w)
		return nil
	}
	w.Header().Set("Cache-Control", "no-store")
	return httptransport.EncodeJSONResponse(ctx, w, response)
}

// DecodeJSON decodes the request body into v, reporting malformed input as a
// validation error.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("body", "request body must be valid JSON")
	}
	return nil
}

// Timeout bounds every request routed through the router with a deadline.
func Timeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
