package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/logger"
	"github.com/osse101/QuPot_Go/internal/lottery"
	"github.com/osse101/QuPot_Go/internal/repository"
)

// DrawHandler exposes the draw lifecycle over HTTP
type DrawHandler struct {
	service lottery.Service
}

func NewDrawHandler(service lottery.Service) *DrawHandler {
	return &DrawHandler{service: service}
}

// Routes returns the draw routes, to be mounted under /api/v1/draws
func (h *DrawHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleCreateDraw)
	r.Get("/", h.HandleListDraws)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGetDraw)
		r.Patch("/", h.HandleUpdateDraw)
		r.Delete("/", h.HandleRemoveDraw)
		r.Post("/start", h.HandleStartDraw)
		r.Post("/complete", h.HandleCompleteDraw)
		r.Post("/cancel", h.HandleCancelDraw)
		r.Get("/result", h.HandleGetDrawResult)
		r.Post("/verification", h.HandleVerificationCallback)
	})
	return r
}

type CreateDrawRequest struct {
	Name        string    `json:"name" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"required,max=2000"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

// UpdateDrawRequest is a partial update; omitted fields keep their value.
// Status is deliberately not a field: unknown fields are rejected.
type UpdateDrawRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (req UpdateDrawRequest) toUpdate() domain.DrawUpdate {
	return domain.DrawUpdate{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
}

// CompleteDrawRequest carries the number-range parameters of settlement.
// Min and Max are pointers so a zero bound is distinguishable from a missing one.
type CompleteDrawRequest struct {
	Count int  `json:"count" validate:"required,min=1"`
	Min   *int `json:"min" validate:"required,min=-2147483648,max=2147483647"`
	Max   *int `json:"max" validate:"required,min=-2147483648,max=2147483647"`
}

// VerificationCallbackRequest is the verification collaborator's report
type VerificationCallbackRequest struct {
	SubmissionID   string `json:"submission_id" validate:"required,max=256"`
	Verified       *bool  `json:"verified" validate:"required"`
	AttestationRef string `json:"attestation_ref" validate:"max=512"`
}

func (h *DrawHandler) HandleCreateDraw(w http.ResponseWriter, r *http.Request) {
	var req CreateDrawRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create draw"); err != nil {
		return
	}

	draw, err := h.service.CreateDraw(r.Context(), lottery.CreateDrawInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondServiceError(w, r, "Create draw", err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgDrawCreated, "draw_id", draw.ID)
	respondJSON(w, http.StatusCreated, draw)
}

func (h *DrawHandler) HandleListDraws(w http.ResponseWriter, r *http.Request) {
	var filter repository.DrawFilter

	if raw := GetOptionalQueryParam(r, "status", ""); raw != "" {
		status := domain.DrawStatus(strings.ToUpper(raw))
		if !status.Valid() {
			respondError(w, http.StatusBadRequest, domain.KindValidation, ErrMsgInvalidStatus)
			return
		}
		filter.Status = &status
	}

	limit, ok := GetOptionalIntQueryParam(w, r, "limit", DefaultListLimit, ErrMsgInvalidLimit)
	if !ok {
		return
	}
	filter.Limit = min(limit, MaxListLimit)
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}

	if filter.Offset, ok = GetOptionalIntQueryParam(w, r, "offset", 0, ErrMsgInvalidOffset); !ok {
		return
	}

	draws, err := h.service.ListDraws(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, "List draws", err)
		return
	}

	respondJSON(w, http.StatusOK, draws)
}

func (h *DrawHandler) HandleGetDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseDrawID(w, r)
	if !ok {
		return
	}

	draw, err := h.service.GetDraw(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Get draw", err)
		return
	}

	respondJSON(w, http.StatusOK, draw)
}

func (h *DrawHandler) HandleUpdateDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseDrawID(w, r)
	if !ok {
		return
	}

	var req UpdateDrawRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Update draw"); err != nil {
		return
	}

	draw, err := h.service.UpdateDraw(r.Context(), id, req.toUpdate())
	if err != nil {
		respondServiceError(w, r, "Update draw", err)
		return
	}

	respondJSON(w, http.StatusOK, draw)
}

func (h *DrawHandler) HandleRemoveDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseDrawID(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveDraw(r.Context(), id); err != nil {
		respondServiceError(w, r, "Remove draw", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgDrawRemoved})
}

func (h *DrawHandler) HandleStartDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseDrawID(w, r)
	if !ok {
		return
	}

	draw, err := h.service.StartDraw(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Start draw", err)
		return
	}

	respondJSON(w, http.StatusOK, draw)
}

func (h *DrawHandler) HandleCompleteDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseDrawID(w, r)
	if !ok {
		return
	}

	var req CompleteDrawRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Complete draw"); err != nil {
		return
	}

	result, err := h.service.CompleteDraw(r.Context(), id, req.Count, domain.NumberRange{Min: *req.Min, Max: *req.Max})
	if err != nil {
		respondServiceError(w, r, "Complete draw", err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgDrawSettled,
		"draw_id", id,
		"provenance", result.RandomnessProvenance)
	respondJSON(w, http.StatusOK, result)
}

func (h *DrawHandler) HandleCancelDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseDrawID(w, r)
	if !ok {
		return
	}

	draw, err := h.service.CancelDraw(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Cancel draw", err)
		return
	}

	respondJSON(w, http.StatusOK, draw)
}

func (h *DrawHandler) HandleGetDrawResult(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseDrawID(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetDrawResult(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Get draw result", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleVerificationCallback records the verification collaborator's outcome.
// Stale or repeated callbacks return the stored result unchanged.
func (h *DrawHandler) HandleVerificationCallback(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseDrawID(w, r)
	if !ok {
		return
	}

	var req VerificationCallbackRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Verification callback"); err != nil {
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgVerificationCallback,
		"draw_id", id,
		"submission_id", req.SubmissionID,
		"verified", *req.Verified)

	result, err := h.service.RecordVerification(r.Context(), id, domain.VerificationOutcome{
		SubmissionID:   req.SubmissionID,
		Verified:       *req.Verified,
		AttestationRef: req.AttestationRef,
	})
	if err != nil {
		respondServiceError(w, r, "Record verification", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
