package get_model_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getModelSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_model_slots"
)

const (
	msgNoMaster     = "мастер не настроен"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange = "некорректный диапазон дат"
)

type Handler struct {
	useCase GetModelSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetModelSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/model-slots?dateFrom=YYYY-MM-DD&dateTo=YYYY-MM-DD
// Оба параметра необязательны: без них слоты отдаются с сегодняшнего дня.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &getModelSlots.Request{}
	if raw := query.Get("dateFrom"); raw != "" {
		dateFrom, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /model-slots - Invalid dateFrom: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.DateFrom = &dateFrom
	}
	if raw := query.Get("dateTo"); raw != "" {
		dateTo, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /model-slots - Invalid dateTo: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.DateTo = &dateTo
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getModelSlots.ErrInvalidRange):
			h.logger.Warn("GET /model-slots - Invalid range")
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getModelSlots.ErrNoMaster):
			h.logger.Warn("GET /model-slots - No master configured")
			handlers.RespondNotFound(w, msgNoMaster)

		default:
			h.logger.Error("GET /model-slots - Failed to list model slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /model-slots - Listed %d model slots", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
