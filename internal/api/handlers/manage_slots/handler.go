package manage_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingMasterID      = "отсутствует ID мастера"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInterval      = "некорректный интервал, начало должно быть раньше конца"
	msgSlotOverlap          = "слот пересекается с существующим слотом"
	msgSlotNotFound         = "слот не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgModelServiceRequired = "для модельного слота требуется модельная услуга этого мастера"
	msgInvalidInput         = "некорректные данные запроса"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/slots
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.UserID == "" {
		h.logger.Warn("POST /slots - Missing master ID")
		handlers.RespondUnauthorized(w, msgMissingMasterID)
		return
	}

	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.MasterID = identity.UserID

	result, err := h.service.CreateSlot(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /slots", err)
		return
	}

	h.logger.Info("POST /slots - Slot created: slot_id=%s, master_id=%s, date=%s", result.ID, identity.UserID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleList GET /api/v1/slots?dateFrom=...&dateTo=...&forModels=true&available=true
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.UserID == "" {
		h.logger.Warn("GET /slots - Missing master ID")
		handlers.RespondUnauthorized(w, msgMissingMasterID)
		return
	}

	query := r.URL.Query()
	req := &models.ListSlotsRequest{
		MasterID:      identity.UserID,
		AvailableOnly: query.Get("available") == "true",
	}

	if dateFrom := query.Get("dateFrom"); dateFrom != "" {
		parsed, err := time.Parse(domain.DateFormat, dateFrom)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid dateFrom: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.DateFrom = &parsed
	}

	if dateTo := query.Get("dateTo"); dateTo != "" {
		parsed, err := time.Parse(domain.DateFormat, dateTo)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid dateTo: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.DateTo = &parsed
	}

	if forModels := query.Get("forModels"); forModels != "" {
		parsed, err := strconv.ParseBool(forModels)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid forModels: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		req.ForModels = &parsed
	}

	result, err := h.service.ListSlots(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "GET /slots", err)
		return
	}

	h.logger.Info("GET /slots - Listed %d slots: master_id=%s", result.Total, identity.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/slots/{slotId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	slotID := mux.Vars(r)["slotId"]

	result, err := h.service.GetSlot(r.Context(), slotID)
	if err != nil {
		h.respondServiceError(w, "GET /slots/{id}", err)
		return
	}

	h.logger.Info("GET /slots/{id} - Slot retrieved: slot_id=%s", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdate PATCH /api/v1/slots/{slotId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	slotID := mux.Vars(r)["slotId"]

	var req models.UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSlot(r.Context(), slotID, &req)
	if err != nil {
		h.respondServiceError(w, "PATCH /slots/{id}", err)
		return
	}

	h.logger.Info("PATCH /slots/{id} - Slot updated: slot_id=%s", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/slots/{slotId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	slotID := mux.Vars(r)["slotId"]

	if err := h.service.DeleteSlot(r.Context(), slotID); err != nil {
		h.respondServiceError(w, "DELETE /slots/{id}", err)
		return
	}

	h.logger.Info("DELETE /slots/{id} - Slot deleted: slot_id=%s", slotID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, schedule.ErrSlotNotFound):
		h.logger.Warn("%s - Slot not found: %v", op, err)
		handlers.RespondNotFound(w, msgSlotNotFound)

	case errors.Is(err, schedule.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: %v", op, err)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, schedule.ErrInvalidInterval):
		h.logger.Warn("%s - Invalid interval: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidInterval)

	case errors.Is(err, schedule.ErrSlotOverlap):
		h.logger.Warn("%s - Slot overlap: %v", op, err)
		handlers.RespondConflict(w, msgSlotOverlap)

	case errors.Is(err, schedule.ErrModelServiceRequired):
		h.logger.Warn("%s - Model service required: %v", op, err)
		handlers.RespondBadRequest(w, msgModelServiceRequired)

	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Internal error: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
