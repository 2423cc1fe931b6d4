package book_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	bookAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTelegramID  = "отсутствует Telegram ID клиента"
	msgNoMaster           = "мастер не настроен"
	msgServiceNotFound    = "услуга не найдена"
	msgSlotNotFound       = "модельный слот не найден"
	msgSlotAlreadyBooked  = "модельный слот уже занят"
	msgTimeNotAvailable   = "выбранное время недоступно"
	msgInvalidDate        = "некорректная дата записи"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.TelegramID == nil {
		h.logger.Warn("POST /appointments - Missing telegram ID")
		handlers.RespondUnauthorized(w, msgMissingTelegramID)
		return
	}

	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(*identity.TelegramID))
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrSlotAlreadyBooked):
			h.logger.Warn("POST /appointments - Slot already booked: tg_user_id=%d, slot_id=%v", *identity.TelegramID, req.SlotID)
			handlers.RespondConflict(w, msgSlotAlreadyBooked)

		case errors.Is(err, bookAppointment.ErrTimeNotAvailable):
			h.logger.Warn("POST /appointments - Time not available: tg_user_id=%d, date=%s, time=%s", *identity.TelegramID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgTimeNotAvailable)

		case errors.Is(err, bookAppointment.ErrSlotNotFound):
			h.logger.Warn("POST /appointments - Slot not found: slot_id=%v", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%v", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, bookAppointment.ErrNoMaster):
			h.logger.Warn("POST /appointments - No master configured")
			handlers.RespondNotFound(w, msgNoMaster)

		case errors.Is(err, bookAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: tg_user_id=%d: %v", *identity.TelegramID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to book appointment: tg_user_id=%d, error=%v", *identity.TelegramID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, tg_user_id=%d, kind=%s",
		result.AppointmentID, *identity.TelegramID, result.Kind)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
