package cancel_appointment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTelegramID  = "отсутствует Telegram ID клиента"
	msgNotFound           = "запись не найдена"
	msgForbidden          = "можно отменить только собственную запись"
	msgAlreadyFinished    = "запись уже завершена или отменена"
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

// Handle POST /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	identity := middleware.IdentityFromContext(r.Context())
	if identity.TelegramID == nil {
		h.logger.Warn("POST /appointments/{id}/cancel - Missing telegram ID")
		handlers.RespondUnauthorized(w, msgMissingTelegramID)
		return
	}

	// Тело опционально: отмена без причины допустима
	var req models.CancelByClientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.TelegramID = *identity.TelegramID

	if err := h.service.CancelByClient(r.Context(), appointmentID, &req); err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/cancel - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/cancel - Access denied: appointment_id=%s, tg_user_id=%d", appointmentID, *identity.TelegramID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/cancel - Already finished: appointment_id=%s", appointmentID)
			handlers.RespondConflict(w, msgAlreadyFinished)

		default:
			h.logger.Error("POST /appointments/{id}/cancel - Failed to cancel: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/cancel - Appointment cancelled: appointment_id=%s, tg_user_id=%d",
		appointmentID, *identity.TelegramID)
	handlers.RespondNoContent(w)
}
