package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/delordemm1/go-accounts-api/internal/contextx"
	"github.com/delordemm1/go-accounts-api/internal/httpx"
	"github.com/delordemm1/go-accounts-api/internal/session"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT claim set carried by access tokens. SID names the
// server-side session so a login can be revoked before the token expires.
type Claims struct {
	jwt.RegisteredClaims
	SID string `json:"sid"`
}

// JWTAuthHuma is a router-agnostic Huma middleware that validates an access
// token, checks the named session is still live, and injects the user and
// session IDs into the request context for downstream handlers.
// On failure it writes an RFC7807 problem+json response with code ErrUnauthorized.
func JWTAuthHuma(jwtSecret string, sessions session.Provider, logger *slog.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)

		writeUnauthorized := func(detail string) {
			p := &httpx.Problem{
				Type:      "urn:problem:auth/err-unauthorized",
				Title:     http.StatusText(http.StatusUnauthorized),
				Status:    http.StatusUnauthorized,
				Detail:    detail,
				Code:      "ErrUnauthorized",
				RequestID: chimw.GetReqID(r.Context()),
			}
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(p.GetStatus())
			_ = json.NewEncoder(w).Encode(p)
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeUnauthorized("missing authorization header")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			writeUnauthorized("invalid authorization header format")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("invalid jwt token", "error", err)
			writeUnauthorized("invalid or expired token")
			return
		}

		if claims.Subject == "" || claims.SID == "" {
			writeUnauthorized("invalid token claims")
			return
		}

		// The token is only half the story; the session row must still exist.
		userID, err := sessions.GetAndExtend(r.Context(), claims.SID)
		if err != nil || userID != claims.Subject {
			logger.Warn("session rejected", "error", err)
			writeUnauthorized("session is no longer valid")
			return
		}

		ctx = huma.WithValue(ctx, contextx.UserIDKey, claims.Subject)
		ctx = huma.WithValue(ctx, contextx.SessionIDKey, claims.SID)
		next(ctx)
	}
}
