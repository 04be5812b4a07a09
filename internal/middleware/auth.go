package middleware

import (
	"net/http"
	"strings"

	"analog-alley-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// Auth parses the bearer token and, when valid, attaches the user to the
// request context. Requests without a token pass through untouched so
// guests can browse; handlers that need a user enforce it themselves or
// sit behind RequireAuth.
func Auth(secretKey string, bypass bool) func(http.Handler) http.Handler {
	jwtKey := []byte(secretKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				// Local development shortcut, never active in production.
				if bypass {
					ctx := utils.SetUserContext(r.Context(), 1, "dev@localhost")
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				return jwtKey, nil
			})
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if uid, ok := claims["user_id"].(float64); ok {
					email, _ := claims["email"].(string)
					ctx := utils.SetUserContext(r.Context(), uint(uid), email)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that did not authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
