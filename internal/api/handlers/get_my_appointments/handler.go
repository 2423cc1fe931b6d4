package get_my_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgMissingTelegramID = "отсутствует Telegram ID клиента"
	msgNoMaster          = "мастер не настроен"
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

// Handle GET /api/v1/appointments/my?upcoming=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.TelegramID == nil {
		h.logger.Warn("GET /appointments/my - Missing telegram ID")
		handlers.RespondUnauthorized(w, msgMissingTelegramID)
		return
	}

	req := &models.GetMineRequest{
		TelegramID:   *identity.TelegramID,
		UpcomingOnly: r.URL.Query().Get("upcoming") == "true",
	}

	result, err := h.service.GetMine(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrNoMaster):
			h.logger.Warn("GET /appointments/my - No master configured")
			handlers.RespondNotFound(w, msgNoMaster)

		default:
			h.logger.Error("GET /appointments/my - Failed to list appointments: tg_user_id=%d, error=%v", *identity.TelegramID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/my - Listed %d appointments: tg_user_id=%d", result.Total, *identity.TelegramID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
