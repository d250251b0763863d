package middleware

import (
	"net/http"

	"github.com/rotomdex/rotomdex/internal/handlers"
	"github.com/rotomdex/rotomdex/internal/services"
)

// PresenceTracker marks authenticated callers as active on every request it
// wraps. Touch swallows storage errors, so tracking never affects the
// response.
type PresenceTracker struct {
	presenceService services.PresenceServiceInterface
}

func NewPresenceTracker(presenceService services.PresenceServiceInterface) *PresenceTracker {
	return &PresenceTracker{presenceService: presenceService}
}

func (t *PresenceTracker) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := handlers.GetUserFromContext(r.Context()); user != nil {
			_ = t.presenceService.Touch(r.Context(), user.ID)
		}
		next.ServeHTTP(w, r)
	})
}
