package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware is the catch-all error boundary: panics are logged
// server-side and the client only ever sees a generic 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Handler panic: %v", rec)
				log.Printf("Stack trace: %s", debug.Stack())
				http.Error(w, "Something broke!", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
