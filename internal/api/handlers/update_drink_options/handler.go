package update_drink_options

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/masters"
	"github.com/m04kA/SMC-AppointmentService/internal/service/masters/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingMasterID    = "отсутствует ID мастера"
	msgNotFound           = "мастер не найден"
)

type Handler struct {
	service MasterService
	logger  Logger
}

func NewHandler(service MasterService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/masters/me/drinks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.UserID == "" {
		h.logger.Warn("PUT /masters/me/drinks - Missing master ID")
		handlers.RespondUnauthorized(w, msgMissingMasterID)
		return
	}

	var req models.UpdateDrinkOptionsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /masters/me/drinks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateDrinkOptions(r.Context(), identity.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, masters.ErrMasterNotFound):
			h.logger.Warn("PUT /masters/me/drinks - Master not found: master_id=%s", identity.UserID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PUT /masters/me/drinks - Failed to update: master_id=%s, error=%v", identity.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /masters/me/drinks - Updated drink options: master_id=%s, options=%d",
		identity.UserID, len(result.DrinkOptions))
	handlers.RespondJSON(w, http.StatusOK, result)
}
