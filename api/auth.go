package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zero-void/site-backend/errs"
)

const adminTokenTTL = 24 * time.Hour

// authenticator gates the admin surface: a password login that issues a
// short-lived bearer token, and middleware that checks it. This protects the
// authoring endpoints only; the per-post password gate is separate and much
// weaker (see ContentStore.VerifyPassword).
type authenticator struct {
	responder Responder
	logger    zerolog.Logger
	password  string
	secret    []byte
}

func newAuthenticator(password string, secret []byte) authenticator {
	logger := log.With().Str("handlerName", "authenticator").Logger()
	return authenticator{
		responder: NewResponder(logger),
		logger:    logger,
		password:  password,
		secret:    secret,
	}
}

func (a authenticator) enabled() bool {
	return a.password != "" && len(a.secret) > 0
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// login exchanges the admin password for a signed bearer token.
func (a authenticator) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled() {
			a.responder.WriteError(w, errs.NewForbiddenError("admin access is not configured"))
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if req.Password != a.password {
			a.responder.WriteError(w, errs.NewUnauthorizedError("invalid password"))
			return
		}

		expiresAt := time.Now().Add(adminTokenTTL)
		claims := jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		}

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
		if err != nil {
			a.responder.WriteError(w, errs.NewInternalError("failed to sign token"))
			return
		}

		a.responder.WriteJSON(w, loginResponse{Token: signed, ExpiresAt: expiresAt})
	}
}

// authenticate requires a valid admin bearer token.
func (a authenticator) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled() {
			a.responder.WriteError(w, errs.NewForbiddenError("admin access is not configured"))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			a.responder.WriteError(w, errs.NewUnauthorizedError("missing bearer token"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			a.responder.WriteError(w, errs.NewUnauthorizedError("invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
