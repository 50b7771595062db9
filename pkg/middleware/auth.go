package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/crewdir/crewdir/pkg/composables"
	"github.com/crewdir/crewdir/pkg/configuration"
	"github.com/crewdir/crewdir/pkg/httpapi"
)

// RequireOperator gates admin routes. Identity is decided by the fronting
// auth proxy, which attaches the shared operator token and the subject
// headers; this middleware only verifies the token and threads the asserted
// operator into the context.
func RequireOperator() mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if conf.OperatorToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(conf.OperatorToken)) != 1 {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "operator authentication required", nil)
				return
			}

			op := composables.Operator{
				Subject: strings.TrimSpace(r.Header.Get("X-Operator-Subject")),
				Email:   strings.TrimSpace(r.Header.Get("X-Operator-Email")),
			}
			next.ServeHTTP(w, r.WithContext(composables.WithOperator(r.Context(), op)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
