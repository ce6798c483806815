package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"arc-staff-portal/internal/audit"
	"arc-staff-portal/internal/recipient/domain"
	"arc-staff-portal/internal/recipient/repository"
	"arc-staff-portal/internal/server/middleware"
	"arc-staff-portal/internal/server/respond"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Handler exposes recipient management. All routes sit behind the session
// guard; the verified uid in context is the acting staff member.
type Handler struct {
	repo    repository.Repository
	auditor audit.AuditLogger
}

// NewHandler returns the recipient HTTP handler.
func NewHandler(repo repository.Repository, auditor audit.AuditLogger) *Handler {
	return &Handler{repo: repo, auditor: auditor}
}

// recipientRequest is the create/update form.
type recipientRequest struct {
	FirstName      string   `json:"firstName"`
	SecondName     string   `json:"secondName"`
	GenderIdentity string   `json:"genderIdentity"`
	Aliases        []string `json:"aliases"`
	DateOfBirth    string   `json:"dateOfBirth"`
	Address        string   `json:"address"`
	PostalCode     string   `json:"postalCode"`
	Notes          string   `json:"notes"`
}

// Create handles POST /api/recipients.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipientRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	uid, _ := middleware.GetUID(r.Context())
	now := time.Now().UTC()
	rec := &domain.Recipient{
		ID:             uuid.New().String(),
		FirstName:      req.FirstName,
		SecondName:     req.SecondName,
		GenderIdentity: req.GenderIdentity,
		Aliases:        req.Aliases,
		DateOfBirth:    req.DateOfBirth,
		Address:        req.Address,
		PostalCode:     req.PostalCode,
		Notes:          req.Notes,
		CreatedBy:      uid,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := rec.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.Create(r.Context(), rec); err != nil {
		h.internal(w, err)
		return
	}
	h.logEvent(r, "recipient_created", rec.ID)
	respond.JSON(w, http.StatusCreated, map[string]string{"id": rec.ID})
}

// Get handles GET /api/recipients/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.internal(w, err)
		return
	}
	if rec == nil {
		respond.Error(w, http.StatusNotFound, "not found")
		return
	}
	respond.JSON(w, http.StatusOK, toJSON(rec))
}

// List handles GET /api/recipients with limit/offset pagination.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	recs, err := h.repo.List(r.Context(), int32(limit), int32(offset))
	if err != nil {
		h.internal(w, err)
		return
	}
	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toJSON(rec))
	}
	respond.JSON(w, http.StatusOK, map[string]any{"recipients": out})
}

// Update handles PUT /api/recipients/{id}. Ban state is not touched here;
// it has its own endpoints.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req recipientRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	rec, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.internal(w, err)
		return
	}
	if rec == nil {
		respond.Error(w, http.StatusNotFound, "not found")
		return
	}
	rec.FirstName = req.FirstName
	rec.SecondName = req.SecondName
	rec.GenderIdentity = req.GenderIdentity
	rec.Aliases = req.Aliases
	rec.DateOfBirth = req.DateOfBirth
	rec.Address = req.Address
	rec.PostalCode = req.PostalCode
	rec.Notes = req.Notes
	rec.UpdatedAt = time.Now().UTC()
	if err := rec.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.Update(r.Context(), rec); err != nil {
		h.internal(w, err)
		return
	}
	h.logEvent(r, "recipient_updated", id)
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Ban handles POST /api/recipients/{id}/ban.
func (h *Handler) Ban(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Reason == "" {
		respond.Error(w, http.StatusBadRequest, "reason is required")
		return
	}
	rec, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.internal(w, err)
		return
	}
	if rec == nil {
		respond.Error(w, http.StatusNotFound, "not found")
		return
	}
	if err := h.repo.SetBanned(r.Context(), id, true, req.Reason); err != nil {
		h.internal(w, err)
		return
	}
	if req.Notes != "" {
		if rec.Notes != "" {
			rec.Notes += "\n"
		}
		rec.Notes += req.Notes
		rec.UpdatedAt = time.Now().UTC()
		if err := h.repo.Update(r.Context(), rec); err != nil {
			h.internal(w, err)
			return
		}
	}
	h.logEvent(r, "recipient_banned", id)
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Unban handles POST /api/recipients/{id}/unban.
func (h *Handler) Unban(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.internal(w, err)
		return
	}
	if rec == nil {
		respond.Error(w, http.StatusNotFound, "not found")
		return
	}
	if err := h.repo.SetBanned(r.Context(), id, false, ""); err != nil {
		h.internal(w, err)
		return
	}
	h.logEvent(r, "recipient_unbanned", id)
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) logEvent(r *http.Request, action, recipientID string) {
	if h.auditor == nil {
		return
	}
	uid, _ := middleware.GetUID(r.Context())
	h.auditor.LogEvent(r.Context(), uid, action, "recipient", recipientID)
}

func (h *Handler) internal(w http.ResponseWriter, err error) {
	log.Printf("recipient: %v", err)
	respond.Error(w, http.StatusInternalServerError, "internal error")
}

func toJSON(rec *domain.Recipient) map[string]any {
	aliases := rec.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return map[string]any{
		"id":             rec.ID,
		"firstName":      rec.FirstName,
		"secondName":     rec.SecondName,
		"genderIdentity": rec.GenderIdentity,
		"aliases":        aliases,
		"dateOfBirth":    rec.DateOfBirth,
		"address":        rec.Address,
		"postalCode":     rec.PostalCode,
		"banned":         rec.Banned,
		"banReason":      rec.BanReason,
		"notes":          rec.Notes,
		"createdBy":      rec.CreatedBy,
		"createdAt":      rec.CreatedAt,
		"updatedAt":      rec.UpdatedAt,
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
