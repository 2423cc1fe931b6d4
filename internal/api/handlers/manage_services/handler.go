package manage_services

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingMasterID    = "отсутствует ID мастера"
	msgNotFound           = "услуга не найдена"
	msgInvalidInput       = "некорректные данные услуги"
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

// HandleCreate POST /api/v1/services
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.UserID == "" {
		h.logger.Warn("POST /services - Missing master ID")
		handlers.RespondUnauthorized(w, msgMissingMasterID)
		return
	}

	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.MasterID = identity.UserID

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /services - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /services - Failed to create service: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /services - Service created: service_id=%s, master_id=%s", result.ID, identity.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleUpdate PATCH /api/v1/services/{serviceId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	serviceID := mux.Vars(r)["serviceId"]

	var req models.UpdateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /services/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), serviceID, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrServiceNotFound):
			h.logger.Warn("PATCH /services/{id} - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("PATCH /services/{id} - Invalid input: service_id=%s: %v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /services/{id} - Failed to update: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /services/{id} - Service updated: service_id=%s", serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDeactivate DELETE /api/v1/services/{serviceId}
// Услуга скрывается из каталога, история записей сохраняется.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	serviceID := mux.Vars(r)["serviceId"]

	if err := h.service.Deactivate(r.Context(), serviceID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrServiceNotFound):
			h.logger.Warn("DELETE /services/{id} - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /services/{id} - Failed to deactivate: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /services/{id} - Service deactivated: service_id=%s", serviceID)
	handlers.RespondNoContent(w)
}
