package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rotomdex/rotomdex/internal/logging"
	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

const (
	streamTicketTTL  = 60 * time.Second
	streamUsersLimit = 50
)

// AdminStreamHandler pushes dashboard aggregates over SSE. Browsers on a
// separate dashboard origin cannot send the session cookie with
// EventSource, so the stream also accepts a short-lived signed ticket
// minted by the cookie-authenticated Ticket endpoint.
type AdminStreamHandler struct {
	adminService services.AdminServiceInterface
	ticketSecret []byte
	interval     time.Duration
}

func NewAdminStreamHandler(adminService services.AdminServiceInterface, ticketSecret string, interval time.Duration) *AdminStreamHandler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &AdminStreamHandler{
		adminService: adminService,
		ticketSecret: []byte(ticketSecret),
		interval:     interval,
	}
}

type StreamTicketResponse struct {
	Ticket    string `json:"ticket"`
	ExpiresIn int    `json:"expires_in"`
}

// Ticket mints a short-lived stream ticket for the authenticated admin.
func (h *AdminStreamHandler) Ticket(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Admin access required")
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(streamTicketTTL)),
	})
	signed, err := token.SignedString(h.ticketSecret)
	if err != nil {
		logging.Error("signing stream ticket", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, StreamTicketResponse{
		Ticket:    signed,
		ExpiresIn: int(streamTicketTTL.Seconds()),
	})
}

// Stream serves the SSE connection. It emits a ready event immediately,
// then overview, users and heartbeat events on every poll interval until the
// client disconnects. A poll that fails emits stream-error and the stream
// stays open.
func (h *AdminStreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	switch h.authorize(r) {
	case http.StatusOK:
	case http.StatusUnauthorized:
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	default:
		writeError(w, http.StatusForbidden, "Admin access required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	var mu sync.Mutex
	emit := func(event string, data interface{}) {
		if ctx.Err() != nil {
			return
		}
		payload, err := json.Marshal(data)
		if err != nil {
			return
		}
		mu.Lock()
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
		flusher.Flush()
		mu.Unlock()
	}

	emit("ready", map[string]string{"ts": time.Now().UTC().Format(time.RFC3339)})

	// Polls run off the ticker goroutine so a slow database never blocks
	// teardown. The in-flight flag drops ticks while a poll is running
	// instead of queueing them.
	var inFlight atomic.Bool
	var wg sync.WaitGroup
	defer wg.Wait()

	poll := func() {
		if !inFlight.CompareAndSwap(false, true) {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer inFlight.Store(false)
			h.pollOnce(ctx, emit)
		}()
	}

	poll()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

func (h *AdminStreamHandler) pollOnce(ctx context.Context, emit func(string, interface{})) {
	overview, err := h.adminService.Overview(ctx)
	if err != nil {
		logging.Warn("admin stream poll failed", map[string]interface{}{"error": err.Error()})
		emit("stream-error", ErrorResponse{Error: "overview unavailable"})
		return
	}

	users, err := h.adminService.RecentUsers(ctx, streamUsersLimit)
	if err != nil {
		logging.Warn("admin stream poll failed", map[string]interface{}{"error": err.Error()})
		emit("stream-error", ErrorResponse{Error: "users unavailable"})
		return
	}
	if users == nil {
		users = []models.AdminUserRow{}
	}

	emit("overview", overview)
	emit("users", map[string]interface{}{"users": users})
	emit("heartbeat", map[string]string{"ts": time.Now().UTC().Format(time.RFC3339)})
}

// authorize accepts either an admin session from the auth middleware or a
// valid ticket query parameter. A request carrying neither gets 401; a
// request whose credentials fall short of admin gets 403.
func (h *AdminStreamHandler) authorize(r *http.Request) int {
	user := GetUserFromContext(r.Context())
	if user != nil && user.IsAdmin() {
		return http.StatusOK
	}

	raw := r.URL.Query().Get("ticket")
	if raw == "" {
		if user != nil {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	}
	if len(h.ticketSecret) == 0 {
		return http.StatusForbidden
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return h.ticketSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return http.StatusForbidden
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return http.StatusForbidden
	}
	if role, _ := claims["role"].(string); models.UserRole(role) != models.RoleAdmin {
		return http.StatusForbidden
	}
	return http.StatusOK
}
