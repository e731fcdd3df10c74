package middleware

import (
	"net/http"
	"strconv"

	"github.com/petravell/choreboard/internal/identity"
	"github.com/petravell/choreboard/internal/store"
)

// WithIdentity resolves the X-Person-ID header against the roster and
// attaches the person to the request context. The dashboard runs on a
// trusted household LAN; the header is a profile selector, not an
// authentication mechanism. Requests without it pass through anonymous.
func WithIdentity(people *store.PersonStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("X-Person-ID")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			personID, err := strconv.ParseInt(header, 10, 64)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			p, err := people.GetByID(personID)
			if err != nil || p == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := identity.WithIdentity(r.Context(), identity.Identity{
				PersonID: p.ID,
				Name:     p.Name,
				Role:     p.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
