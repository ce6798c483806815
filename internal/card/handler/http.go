package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"arc-staff-portal/internal/audit"
	"arc-staff-portal/internal/card/domain"
	"arc-staff-portal/internal/card/repository"
	recipientrepo "arc-staff-portal/internal/recipient/repository"
	"arc-staff-portal/internal/server/middleware"
	"arc-staff-portal/internal/server/respond"
)

// Handler exposes ARC card issuance and status management. All routes sit
// behind the session guard.
type Handler struct {
	cards      repository.Repository
	recipients recipientrepo.Repository
	auditor    audit.AuditLogger
}

// NewHandler returns the card HTTP handler.
func NewHandler(cards repository.Repository, recipients recipientrepo.Repository, auditor audit.AuditLogger) *Handler {
	return &Handler{cards: cards, recipients: recipients, auditor: auditor}
}

// Create handles POST /api/cards: issues a card to a recipient.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipientID     string `json:"recipientID"`
		ArcCardNumber   string `json:"arcCardNumber"`
		SecurityCode    string `json:"securityCode"`
		Department      string `json:"department"`
		AllocationDate  string `json:"allocationDate"`
		MonthsRemaining int32  `json:"monthsRemaining"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	rec, err := h.recipients.GetByID(r.Context(), req.RecipientID)
	if err != nil {
		h.internal(w, err)
		return
	}
	if rec == nil {
		respond.Error(w, http.StatusNotFound, "recipient not found")
		return
	}
	if rec.Banned {
		respond.Error(w, http.StatusForbidden, "recipient is banned")
		return
	}
	card := &domain.Card{
		ID:              uuid.New().String(),
		RecipientID:     req.RecipientID,
		ArcCardNumber:   req.ArcCardNumber,
		SecurityCode:    req.SecurityCode,
		Department:      req.Department,
		AllocationDate:  req.AllocationDate,
		Status:          domain.StatusActive,
		MonthsRemaining: req.MonthsRemaining,
		IssuedAt:        time.Now().UTC(),
	}
	if err := card.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.cards.Create(r.Context(), card); err != nil {
		if errors.Is(err, repository.ErrDuplicateCardNumber) {
			respond.Error(w, http.StatusConflict, "card number already registered")
			return
		}
		h.internal(w, err)
		return
	}
	h.logEvent(r, "card_issued", card.ID)
	respond.JSON(w, http.StatusCreated, map[string]string{"id": card.ID})
}

// ListByRecipient handles GET /api/recipients/{id}/cards.
func (h *Handler) ListByRecipient(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "id")
	rec, err := h.recipients.GetByID(r.Context(), recipientID)
	if err != nil {
		h.internal(w, err)
		return
	}
	if rec == nil {
		respond.Error(w, http.StatusNotFound, "recipient not found")
		return
	}
	cards, err := h.cards.ListByRecipient(r.Context(), recipientID)
	if err != nil {
		h.internal(w, err)
		return
	}
	out := make([]map[string]any, 0, len(cards))
	for _, c := range cards {
		out = append(out, toJSON(c))
	}
	respond.JSON(w, http.StatusOK, map[string]any{"cards": out})
}

// UpdateStatus handles PUT /api/cards/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Status          string `json:"status"`
		MonthsRemaining int32  `json:"monthsRemaining"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	status := domain.Status(req.Status)
	if !domain.ValidStatus(status) {
		respond.Error(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.MonthsRemaining < 0 {
		respond.Error(w, http.StatusBadRequest, "monthsRemaining must not be negative")
		return
	}
	card, err := h.cards.GetByID(r.Context(), id)
	if err != nil {
		h.internal(w, err)
		return
	}
	if card == nil {
		respond.Error(w, http.StatusNotFound, "not found")
		return
	}
	if err := h.cards.UpdateStatus(r.Context(), id, status, req.MonthsRemaining); err != nil {
		h.internal(w, err)
		return
	}
	h.logEvent(r, "card_status_updated", id)
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) logEvent(r *http.Request, action, cardID string) {
	if h.auditor == nil {
		return
	}
	uid, _ := middleware.GetUID(r.Context())
	h.auditor.LogEvent(r.Context(), uid, action, "card", cardID)
}

func (h *Handler) internal(w http.ResponseWriter, err error) {
	log.Printf("card: %v", err)
	respond.Error(w, http.StatusInternalServerError, "internal error")
}

func toJSON(c *domain.Card) map[string]any {
	return map[string]any{
		"id":              c.ID,
		"recipientID":     c.RecipientID,
		"arcCardNumber":   c.ArcCardNumber,
		"securityCode":    c.SecurityCode,
		"department":      c.Department,
		"allocationDate":  c.AllocationDate,
		"status":          c.Status,
		"monthsRemaining": c.MonthsRemaining,
		"issuedAt":        c.IssuedAt,
	}
}
