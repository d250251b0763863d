package middleware

import (
	"net/http"
)

// FeatureGate hides a route group behind a feature flag. Disabled features
// answer 404 so probes cannot tell a switched-off endpoint from a missing
// one.
type FeatureGate struct {
	enabled bool
}

func NewFeatureGate(enabled bool) *FeatureGate {
	return &FeatureGate{enabled: enabled}
}

func (g *FeatureGate) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.enabled {
			writeJSONError(w, http.StatusNotFound, "Not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}
