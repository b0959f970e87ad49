package httpserver

import (
	"context"
	"net/http"
	"strings"

	"pricerelay-service/internal/domain"
	"pricerelay-service/internal/infrastructure/logx"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const callerHeader = "X-Caller-Identity"

type callerKey struct{}

// CallerFromContext returns the authenticated caller, or the zero identity.
func CallerFromContext(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(callerKey{}).(domain.Identity)
	return id
}

func ContextWithCaller(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// callerIdentity resolves who is calling. With a secret, an HS256 bearer token
// is mandatory and its subject is the caller; otherwise the optional
// X-Caller-Identity header is trusted.
func callerIdentity(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var raw string
			if secret != "" {
				sub, err := bearerSubject(r.Header.Get("Authorization"), []byte(secret))
				if err != nil {
					logx.WithFields(r.Context()).Warn("http.auth_failed", zap.Error(err))
					writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
					return
				}
				raw = sub
			} else {
				raw = r.Header.Get(callerHeader)
			}
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := domain.ParseIdentity(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid caller identity")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithCaller(r.Context(), id)))
		})
	}
}

func bearerSubject(header string, secret []byte) (string, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return "", jwt.ErrTokenMalformed
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}
