package list_services

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

const (
	msgNotFound     = "услуга не найдена"
	msgInvalidInput = "некорректные параметры запроса"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/services?forModels=false
// Публичный каталог: возвращаются только активные услуги.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	req := &models.ListServicesRequest{ActiveOnly: true}

	if forModels := r.URL.Query().Get("forModels"); forModels != "" {
		parsed, err := strconv.ParseBool(forModels)
		if err != nil {
			h.logger.Warn("GET /services - Invalid forModels: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		req.ForModels = &parsed
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /services - Listed %d services", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/services/{serviceId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	serviceID := mux.Vars(r)["serviceId"]

	result, err := h.service.GetByID(r.Context(), serviceID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id} - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /services/{id} - Failed to get service: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id} - Service retrieved: service_id=%s", serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
