package get_appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgMissingMasterID = "отсутствует ID мастера"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus   = "некорректный статус записи"
	msgNotFound        = "запись не найдена"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/appointments?status=scheduled&dateFrom=...&dateTo=...
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.UserID == "" {
		h.logger.Warn("GET /appointments - Missing master ID")
		handlers.RespondUnauthorized(w, msgMissingMasterID)
		return
	}

	query := r.URL.Query()
	req := &models.ListByMasterRequest{MasterID: identity.UserID}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if dateFrom := query.Get("dateFrom"); dateFrom != "" {
		parsed, err := time.Parse(domain.DateFormat, dateFrom)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid dateFrom: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.DateFrom = &parsed
	}

	if dateTo := query.Get("dateTo"); dateTo != "" {
		parsed, err := time.Parse(domain.DateFormat, dateTo)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid dateTo: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.DateTo = &parsed
	}

	result, err := h.service.ListByMaster(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Invalid status: status=%v", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /appointments - Failed to list: master_id=%s, error=%v", identity.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Listed %d appointments: master_id=%s", result.Total, identity.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/appointments/{appointmentId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	result, err := h.service.GetByID(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /appointments/{id} - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /appointments/{id} - Failed to get: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/{id} - Appointment retrieved: appointment_id=%s", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
