package manage_clients

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/clients"
	"github.com/m04kA/SMC-AppointmentService/internal/service/clients/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingMasterID    = "отсутствует ID мастера"
	msgNotFound           = "клиент не найден"
	msgInvalidInput       = "некорректные данные клиента"
)

type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/clients
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.UserID == "" {
		h.logger.Warn("POST /clients - Missing master ID")
		handlers.RespondUnauthorized(w, msgMissingMasterID)
		return
	}

	var req models.CreateClientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clients - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.MasterID = identity.UserID

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrInvalidInput):
			h.logger.Warn("POST /clients - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /clients - Failed to create client: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /clients - Client created: client_id=%s, master_id=%s", result.ID, identity.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleList GET /api/v1/clients?search=...
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity.UserID == "" {
		h.logger.Warn("GET /clients - Missing master ID")
		handlers.RespondUnauthorized(w, msgMissingMasterID)
		return
	}

	req := &models.ListClientsRequest{MasterID: identity.UserID}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /clients - Failed to list clients: master_id=%s, error=%v", identity.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /clients - Listed %d clients: master_id=%s", result.Total, identity.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/clients/{clientId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	result, err := h.service.GetByID(r.Context(), clientID)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("GET /clients/{id} - Client not found: client_id=%s", clientID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /clients/{id} - Failed to get client: client_id=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clients/{id} - Client retrieved: client_id=%s", clientID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdate PATCH /api/v1/clients/{clientId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	var req models.UpdateClientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /clients/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), clientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("PATCH /clients/{id} - Client not found: client_id=%s", clientID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, clients.ErrInvalidInput):
			h.logger.Warn("PATCH /clients/{id} - Invalid input: client_id=%s: %v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /clients/{id} - Failed to update: client_id=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /clients/{id} - Client updated: client_id=%s", clientID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/clients/{clientId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]

	if err := h.service.Delete(r.Context(), clientID); err != nil {
		switch {
		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("DELETE /clients/{id} - Client not found: client_id=%s", clientID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /clients/{id} - Failed to delete: client_id=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /clients/{id} - Client deleted: client_id=%s", clientID)
	handlers.RespondNoContent(w)
}
