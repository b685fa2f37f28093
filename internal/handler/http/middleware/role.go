package middleware

import (
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/jwtauth/v5"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
	"github.com/teraju-hris/leave-backend-go/internal/handler/http/response"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/jwt"
)

var ErrMissingClaims = errors.New("worker claims missing from token")

// Caller is the authenticated worker behind a request.
type Caller struct {
	WorkerID string
	Position worker.Position
}

func (c Caller) IsHR() bool {
	return c.Position == worker.PositionHR
}

// CanViewOthers reports whether the caller may read other workers' leave data.
func (c Caller) CanViewOthers() bool {
	return c.Position == worker.PositionHR || c.Position == worker.PositionManager
}

// CallerFromRequest reads the worker claims set by jwtauth.Verifier.
func CallerFromRequest(r *http.Request) (Caller, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return Caller{}, err
	}

	workerID, ok := claims[jwt.ClaimWorkerID].(string)
	if !ok || workerID == "" {
		return Caller{}, ErrMissingClaims
	}
	position, _ := claims[jwt.ClaimPosition].(string)

	return Caller{WorkerID: workerID, Position: worker.Position(position)}, nil
}

// RequirePosition allows only the given positions through.
func RequirePosition(positions ...worker.Position) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := CallerFromRequest(r)
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if !slices.Contains(positions, caller.Position) {
				response.Forbidden(w, "Insufficient permissions for position '"+string(caller.Position)+"'")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireHR requires the hr position
func RequireHR(next http.Handler) http.Handler {
	return RequirePosition(worker.PositionHR)(next)
}

// RequireManager requires the manager position
func RequireManager(next http.Handler) http.Handler {
	return RequirePosition(worker.PositionManager)(next)
}

// RequireHROrManager allows hr and manager
func RequireHROrManager(next http.Handler) http.Handler {
	return RequirePosition(worker.PositionHR, worker.PositionManager)(next)
}
