package get_free_windows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	masterRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/master"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
)

// Максимальная длина диапазона для запроса окон за несколько дней
const maxRangeDays = 31

// UseCase use case получения свободных окон для записи
type UseCase struct {
	masterRepo      MasterRepository
	serviceRepo     ServiceRepository
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	masterRepo MasterRepository,
	serviceRepo ServiceRepository,
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		masterRepo:      masterRepo,
		serviceRepo:     serviceRepo,
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных окон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFreeWindows: service=%v, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetFreeWindows: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 2. Получаем мастера
	master, err := uc.resolveMaster(ctx, req.MasterID)
	if err != nil {
		return nil, err
	}

	// 3. Определяем длительность сеанса
	durationMinutes, err := uc.resolveDuration(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 4. Разворачиваем слоты дня в свободные окна
	windows, err := uc.computeDay(ctx, master.ID, req.Date, durationMinutes, now)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetFreeWindows: %d windows for date=%s, duration=%d",
		len(windows), req.Date.Format(domain.DateFormat), durationMinutes)

	return &Response{
		Date:            req.Date,
		ServiceID:       req.ServiceID,
		DurationMinutes: durationMinutes,
		Windows:         windows,
	}, nil
}

// ExecuteRange выполняет запрос окон за диапазон дат
// Диапазон обходится по календарным дням, окна каждого дня считаются так же,
// как в одиночном запросе.
func (uc *UseCase) ExecuteRange(ctx context.Context, req *RangeRequest) (*RangeResponse, error) {
	uc.logger.Info("GetFreeWindows: service=%v, range=%s..%s",
		req.ServiceID, req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))

	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return nil, fmt.Errorf("%w: date range is required", ErrInvalidInput)
	}
	if req.DateTo.Before(req.DateFrom) {
		return nil, ErrInvalidRange
	}
	if req.DateTo.Sub(req.DateFrom) > maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidRange, maxRangeDays)
	}

	now := uc.timeProvider.Now()
	if isDateInPast(req.DateFrom, now) {
		uc.logger.Warn("GetFreeWindows: range start %s is in the past", req.DateFrom.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	master, err := uc.resolveMaster(ctx, req.MasterID)
	if err != nil {
		return nil, err
	}

	durationMinutes, err := uc.resolveDuration(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	days := make([]DayWindows, 0)
	for day := req.DateFrom; !day.After(req.DateTo); day = day.AddDate(0, 0, 1) {
		windows, err := uc.computeDay(ctx, master.ID, day, durationMinutes, now)
		if err != nil {
			return nil, err
		}
		days = append(days, DayWindows{Date: day, Windows: windows})
	}

	uc.logger.Info("GetFreeWindows: %d days computed for range=%s..%s, duration=%d",
		len(days), req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat), durationMinutes)

	return &RangeResponse{
		DateFrom:        req.DateFrom,
		DateTo:          req.DateTo,
		ServiceID:       req.ServiceID,
		DurationMinutes: durationMinutes,
		Days:            days,
	}, nil
}

// resolveMaster находит мастера: по явному ID из запроса или мастера по умолчанию
func (uc *UseCase) resolveMaster(ctx context.Context, masterID *string) (*domain.Master, error) {
	var master *domain.Master
	var err error

	if masterID != nil {
		master, err = uc.masterRepo.GetByID(ctx, *masterID)
	} else {
		master, err = uc.masterRepo.GetMaster(ctx)
	}

	if err != nil {
		if errors.Is(err, masterRepo.ErrMasterNotFound) {
			uc.logger.Warn("GetFreeWindows: master not found (id=%v)", masterID)
			return nil, ErrNoMaster
		}
		uc.logger.Error("GetFreeWindows: failed to get master: %v", err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	return master, nil
}

// resolveDuration определяет длительность сеанса по услуге из запроса
func (uc *UseCase) resolveDuration(ctx context.Context, serviceID *string) (int, error) {
	if serviceID == nil {
		return domain.DefaultServiceDurationMinutes, nil
	}

	service, err := uc.serviceRepo.GetByID(ctx, *serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetFreeWindows: service id=%s not found", *serviceID)
			return 0, ErrServiceNotFound
		}
		uc.logger.Error("GetFreeWindows: failed to get service id=%s: %v", *serviceID, err)
		return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	return service.DurationOrDefault(), nil
}

// computeDay собирает свободные окна одного календарного дня
func (uc *UseCase) computeDay(ctx context.Context, masterID string, date time.Time, durationMinutes int, now time.Time) ([]Window, error) {
	slots, err := uc.slotRepo.List(ctx, domain.SlotFilter{
		MasterID:      &masterID,
		DateFrom:      &date,
		DateTo:        &date,
		AvailableOnly: true,
	})
	if err != nil {
		uc.logger.Error("GetFreeWindows: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	booked, err := uc.appointmentRepo.ListBookedIntervals(ctx, masterID, date)
	if err != nil {
		uc.logger.Error("GetFreeWindows: failed to list booked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to list booked intervals: %v", ErrInternal, err)
	}

	return computeFreeWindows(slots, booked, durationMinutes, date, now), nil
}
