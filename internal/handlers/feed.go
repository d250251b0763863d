package handlers

import (
	"net/http"
	"strconv"

	"github.com/rotomdex/rotomdex/internal/models"
	"github.com/rotomdex/rotomdex/internal/services"
)

type FeedHandler struct {
	feedService services.FeedServiceInterface
}

func NewFeedHandler(feedService services.FeedServiceInterface) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

type HubResponse struct {
	Feed     *services.FeedPage   `json:"feed"`
	Friends  services.SectionPage `json:"friends"`
	Incoming services.SectionPage `json:"incoming"`
	Outgoing services.SectionPage `json:"outgoing"`
}

func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, err := h.feedService.Feed(r.Context(), user.ID, parsePage(r))
	if err != nil {
		writeServiceError(w, "feed", err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Network serves one relationship section (friends, incoming, outgoing)
// cursor-paginated, or the full three-section snapshot when no section is
// given.
func (h *FeedHandler) Network(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	raw := r.URL.Query().Get("section")
	if raw == "" {
		snapshot, err := h.feedService.NetworkSnapshot(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, "network snapshot", err)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
		return
	}

	section := models.NetworkSection(raw)
	page, err := h.feedService.NetworkSection(r.Context(), user.ID, section, parsePage(r))
	if err != nil {
		writeServiceError(w, "network section", err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Hub composes the feed and all three network sections in one response, each
// with its own prefixed limit and cursor parameters.
func (h *FeedHandler) Hub(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	feed, err := h.feedService.Feed(r.Context(), user.ID, prefixedPage(r, "feed"))
	if err != nil {
		writeServiceError(w, "hub feed", err)
		return
	}

	resp := HubResponse{Feed: feed}
	sections := []struct {
		name models.NetworkSection
		dest *services.SectionPage
	}{
		{models.SectionFriends, &resp.Friends},
		{models.SectionIncoming, &resp.Incoming},
		{models.SectionOutgoing, &resp.Outgoing},
	}
	for _, s := range sections {
		page, err := h.feedService.NetworkSection(r.Context(), user.ID, s.name, prefixedPage(r, string(s.name)))
		if err != nil {
			writeServiceError(w, "hub section", err)
			return
		}
		*s.dest = *page
	}

	writeJSON(w, http.StatusOK, resp)
}

func prefixedPage(r *http.Request, prefix string) services.Page {
	page := services.Page{Limit: services.DefaultPageLimit}
	if raw := r.URL.Query().Get(prefix + "_limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Limit = n
		}
	}
	page.Cursor = r.URL.Query().Get(prefix + "_cursor")
	return page
}
