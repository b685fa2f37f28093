package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
)

const (
	ClaimWorkerID  = "worker_id"
	ClaimPosition  = "position"
	ClaimType      = "type"
	TokenTypeAccess = "access"
)

// Service verifies bearer tokens. Tokens are issued by the HR portal; this service
// only mints them for operator tooling and tests.
type Service interface {
	GenerateAccessToken(workerID string, position worker.Position) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(workerID string, position worker.Position) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		ClaimWorkerID: workerID,
		ClaimPosition: string(position),
		ClaimType:     TokenTypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}
