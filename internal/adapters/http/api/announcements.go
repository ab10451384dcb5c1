package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/salesboard/internal/domain/model"
)

// maxAnnouncementBytes bounds the request body.
const maxAnnouncementBytes = 64 << 10

// announcementRequest mirrors the OpenAPI schema for POST /api/announcements.
type announcementRequest struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Audience string `json:"audience"`
}

type announcementResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Audience  string `json:"audience"`
}

// AnnouncementsHandler handles HR announcement posts.
type AnnouncementsHandler struct {
	deps           Dependencies
	identityHeader string
}

// NewAnnouncementsHandler creates a new announcements handler.
func NewAnnouncementsHandler(deps Dependencies, identityHeader string) *AnnouncementsHandler {
	return &AnnouncementsHandler{deps: deps, identityHeader: identityHeader}
}

// HandlePostAnnouncement handles POST /api/announcements.
func (h *AnnouncementsHandler) HandlePostAnnouncement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	email := identity(r, h.identityHeader)
	if email == "" {
		writeFailure(w, model.NewError(model.KindUnauthenticated, "you must be logged in to perform this action"))
		return
	}

	// A body that does not decode is posted with empty fields, so the role
	// check still runs first and only permitted callers see the decode error.
	var req announcementRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxAnnouncementBytes))
	decodeErr := dec.Decode(&req)
	if decodeErr != nil {
		req = announcementRequest{}
	}

	a, err := h.deps.PostAnnouncement(r.Context(), email, req.Title, req.Message, req.Audience)
	if err != nil {
		if decodeErr != nil && model.KindOf(err) == model.KindValidation {
			writeError(w, http.StatusBadRequest, string(model.KindValidation), fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
			return
		}
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, announcementResponse{
		Status:    "success",
		Timestamp: a.Timestamp.Format(time.RFC3339),
		Author:    a.AuthorEmail,
		Title:     a.Title,
		Message:   a.Body,
		Audience:  a.Audience,
	})
}
