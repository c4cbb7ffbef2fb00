package api

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/campusfind/lost-and-found-api/models"
)

// AdminMiddleware guards admin-only routes. It expects a bearer JWT signed
// with JWT_SECRET carrying scope=admin, as issued by the admin login
// handler.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		reqToken := r.Header.Get("Authorization")
		if !strings.HasPrefix(reqToken, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		reqToken = strings.TrimPrefix(reqToken, "Bearer ")

		claims, err := parseAdminToken(reqToken)
		if err != nil {
			zap.S().Errorw("admin token rejected",
				"url", r.URL, "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}

		sub, _ := claims["sub"].(string)
		ident := models.Identity{UserID: sub, Admin: true}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}

func parseAdminToken(tokenString string) (jwt.MapClaims, error) {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if scope, _ := claims["scope"].(string); scope != "admin" {
		return nil, fmt.Errorf("token missing admin scope")
	}
	return claims, nil
}
