package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rotomdex/rotomdex/internal/database"
	"github.com/rotomdex/rotomdex/internal/logging"
	"github.com/rotomdex/rotomdex/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// serviceErrorStatus maps service sentinel errors to HTTP statuses. Unknown
// errors map to 500, storage-unreachable errors to 503.
func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrCannotFriendSelf),
		errors.Is(err, services.ErrCannotBlockSelf),
		errors.Is(err, services.ErrCannotReportSelf),
		errors.Is(err, services.ErrInvalidReportReason),
		errors.Is(err, services.ErrFriendshipNotPending),
		errors.Is(err, services.ErrFriendshipNotAccepted),
		errors.Is(err, services.ErrReportAlreadyHandled),
		errors.Is(err, services.ErrInvalidFavorite),
		errors.Is(err, services.ErrInvalidCursor),
		errors.Is(err, services.ErrInvalidSection),
		errors.Is(err, services.ErrContentEmpty),
		errors.Is(err, services.ErrContentTooLong),
		errors.Is(err, services.ErrReportTargetMissing):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUserBlocked),
		errors.Is(err, services.ErrNotFriendshipRecipient),
		errors.Is(err, services.ErrNotFriendshipRequester),
		errors.Is(err, services.ErrNotFriendshipParty),
		errors.Is(err, services.ErrNotNotificationOwner),
		errors.Is(err, services.ErrNotContentAuthor):
		return http.StatusForbidden
	case errors.Is(err, services.ErrFriendshipNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrContentNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrFavoritesPrivate):
		return http.StatusNotFound
	case errors.Is(err, services.ErrFriendshipExists):
		return http.StatusConflict
	case database.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders a service error. Sentinels surface their own
// message; everything else is logged and hidden behind a generic body.
func writeServiceError(w http.ResponseWriter, action string, err error) {
	status := serviceErrorStatus(err)
	switch status {
	case http.StatusInternalServerError:
		logging.Error("handler error", map[string]interface{}{"action": action, "error": err.Error()})
		writeError(w, status, "Internal server error")
	case http.StatusServiceUnavailable:
		logging.Error("storage unavailable", map[string]interface{}{"action": action, "error": err.Error()})
		writeError(w, status, "Service temporarily unavailable")
	default:
		writeError(w, status, err.Error())
	}
}

// parsePage reads limit and cursor query parameters. Limit values outside
// 1..MaxPageLimit are clamped rather than rejected.
func parsePage(r *http.Request) services.Page {
	page := services.Page{Limit: services.DefaultPageLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Limit = n
		}
	}
	page.Cursor = r.URL.Query().Get("cursor")
	return page
}
