package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/teraju-hris/leave-backend-go/internal/handler/http/response"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token. It runs after
// jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			tokenType, ok := claims[jwt.ClaimType].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.Unauthorized(w, "Invalid token")
				return
			}

			workerID, ok := claims[jwt.ClaimWorkerID].(string)
			if !ok || workerID == "" {
				response.Unauthorized(w, "worker_id claim is missing or invalid")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
