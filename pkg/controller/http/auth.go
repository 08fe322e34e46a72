package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/interfaces"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model/auth"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
	"github.com/secmon-lab/initiativeflow/pkg/utils/errutil"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
)

var (
	errUnauthorized = errors.New("authentication required")
	errBadRequest   = errors.New("bad request")
)

type errorResponse struct {
	Error string `json:"error"`
}

// bearerToken extracts the credential of an "Authorization: Bearer" header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, credential, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(credential)
}

// authMiddleware resolves the bearer credential into a token and embeds it
// in the request context
func authMiddleware(authn interfaces.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := bearerToken(r)
			if credential == "" && !authn.IsNoAuthn() {
				writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: errUnauthorized.Error()})
				return
			}

			token, err := authn.Authenticate(r.Context(), credential)
			if err != nil {
				logging.From(r.Context()).Warn("invalid bearer token", "error", err.Error())
				writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "invalid authentication token"})
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			ctx = logging.With(ctx, logging.From(ctx).With("user_id", token.Sub))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser returns the identity id of the signed-in caller
func currentUser(ctx context.Context) model.UserID {
	token, err := auth.TokenFromContext(ctx)
	if err != nil {
		return ""
	}
	return model.UserID(token.Sub)
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid request body", goerr.V("cause", err.Error()))
	}
	return nil
}

// statusOf maps an error to the response status code
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrPermissionDenied), errors.Is(err, usecase.ErrAccessDenied):
		return http.StatusForbidden
	case usecase.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err with the mapped status. Validation failures carry
// their per-field messages.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if fields := model.FieldErrorsOf(err); fields != nil {
		errutil.HandleHTTPWithFields(r.Context(), w, err, status, fields)
		return
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}
