package get_free_windows

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getFreeWindows "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_free_windows"
)

const (
	msgMissingDate     = "не указана дата, ожидается параметр date=YYYY-MM-DD"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast      = "дата уже прошла"
	msgInvalidRange    = "некорректный диапазон дат"
	msgServiceNotFound = "услуга не найдена"
	msgNoMaster        = "мастер не настроен"
)

type Handler struct {
	useCase GetFreeWindowsUseCase
	logger  Logger
}

func NewHandler(useCase GetFreeWindowsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/windows?date=YYYY-MM-DD&serviceId=...&masterId=...
// Необязательный параметр dateTo=YYYY-MM-DD переключает запрос в режим
// диапазона: окна считаются на каждый день от date до dateTo включительно.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /windows - Missing date parameter")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /windows - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var serviceID *string
	if raw := query.Get("serviceId"); raw != "" {
		serviceID = &raw
	}

	var masterID *string
	if raw := query.Get("masterId"); raw != "" {
		masterID = &raw
	}

	if dateToStr := query.Get("dateTo"); dateToStr != "" {
		dateTo, err := time.Parse(domain.DateFormat, dateToStr)
		if err != nil {
			h.logger.Warn("GET /windows - Invalid dateTo: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		h.handleRange(w, r, &getFreeWindows.RangeRequest{
			MasterID:  masterID,
			ServiceID: serviceID,
			DateFrom:  date,
			DateTo:    dateTo,
		})
		return
	}

	req := &getFreeWindows.Request{Date: date, MasterID: masterID, ServiceID: serviceID}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getFreeWindows.ErrInvalidDate):
			h.logger.Warn("GET /windows - Date in past: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getFreeWindows.ErrServiceNotFound):
			h.logger.Warn("GET /windows - Service not found: service_id=%v", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getFreeWindows.ErrNoMaster):
			h.logger.Warn("GET /windows - No master configured")
			handlers.RespondNotFound(w, msgNoMaster)

		default:
			h.logger.Error("GET /windows - Failed to compute windows: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /windows - Computed %d windows: date=%s", len(result.Windows), dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) handleRange(w http.ResponseWriter, r *http.Request, req *getFreeWindows.RangeRequest) {
	rangeStr := req.DateFrom.Format(domain.DateFormat) + ".." + req.DateTo.Format(domain.DateFormat)

	result, err := h.useCase.ExecuteRange(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getFreeWindows.ErrInvalidDate):
			h.logger.Warn("GET /windows - Range start in past: range=%s", rangeStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getFreeWindows.ErrInvalidRange):
			h.logger.Warn("GET /windows - Invalid range: range=%s", rangeStr)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getFreeWindows.ErrServiceNotFound):
			h.logger.Warn("GET /windows - Service not found: service_id=%v", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getFreeWindows.ErrNoMaster):
			h.logger.Warn("GET /windows - No master configured")
			handlers.RespondNotFound(w, msgNoMaster)

		default:
			h.logger.Error("GET /windows - Failed to compute windows: range=%s, error=%v", rangeStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /windows - Computed windows for %d days: range=%s", len(result.Days), rangeStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseRangeResponse(result))
}
