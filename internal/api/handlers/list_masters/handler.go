package list_masters

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
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

// Handle GET /api/v1/masters
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /masters - Failed to list masters: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /masters - Listed %d masters", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
