package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vecindario/vecindario-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// personIDKey is the context key for the authenticated person ID.
const personIDKey ctxKey = "personID"

// envelopeVersion is bumped when the response envelope shape changes.
const envelopeVersion = 1

// GetPersonID returns the authenticated person ID from context.
// Returns 401 error if the request is not authenticated.
func GetPersonID(ctx context.Context) (string, error) {
	personID, ok := ctx.Value(personIDKey).(string)
	if !ok || personID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return personID, nil
}

// setPersonID stores the person ID in context.
func setPersonID(ctx context.Context, personID string) context.Context {
	return context.WithValue(ctx, personIDKey, personID)
}

// authMiddleware returns a middleware that validates Bearer tokens and
// stores the person ID in context. If no token is present or the token is
// invalid, the request continues without a person in context; handlers
// use GetPersonID to check authentication.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.Verify(authHeader[7:])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setPersonID(r.Context(), claims.PersonID)))
		})
	}
}

// EnvelopeTransformer wraps every response body in the shared envelope.
// Clients rely on the field being named exactly "v".
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		out := map[string]any{
			"v":       envelopeVersion,
			"success": false,
		}
		if apiErr.Code != "" {
			out["code"] = apiErr.Code
			out["message"] = apiErr.Message
			if apiErr.Details != nil {
				out["details"] = apiErr.Details
			}
		} else {
			out["error"] = apiErr.Message
		}
		return out, nil
	}

	return map[string]any{
		"v":       envelopeVersion,
		"success": true,
		"data":    v,
	}, nil
}
