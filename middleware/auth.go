package middleware

import (
	"net/http"
	"strings"

	"bookvault/internal/auth"
	"bookvault/internal/config"
	"bookvault/internal/session"

	"github.com/dgrijalva/jwt-go"
)

type Middleware struct {
	Config   *config.Config
	Sessions *session.Manager
}

func NewMiddleware(cfg *config.Config, sessions *session.Manager) *Middleware {
	return &Middleware{Config: cfg, Sessions: sessions}
}

// RequireSession gates protected pages. Anonymous requests are redirected
// to the login page; protected content is never rendered for them. The
// check itself has no side effects.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Sessions.Current(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// RequireToken gates the JSON API with a signed bearer token.
func (m *Middleware) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &auth.Claims{}

		token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
			return m.Config.JwtKey, nil
		})

		if err != nil {
			if err == jwt.ErrSignatureInvalid {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if !token.Valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
