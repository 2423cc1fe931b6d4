package get_model_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	masterRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/master"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase use case получения свободных модельных слотов
// Модельный слот предлагается целиком: услуга и время фиксированы мастером.
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

// Execute выполняет use case получения модельных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация диапазона
	if req.DateFrom != nil && req.DateTo != nil && req.DateTo.Before(*req.DateFrom) {
		return nil, ErrInvalidRange
	}

	// 2. Получаем мастера
	master, err := uc.masterRepo.GetMaster(ctx)
	if err != nil {
		if errors.Is(err, masterRepo.ErrMasterNotFound) {
			uc.logger.Warn("GetModelSlots: no master configured")
			return nil, ErrNoMaster
		}
		uc.logger.Error("GetModelSlots: failed to get master: %v", err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Начало диапазона не опускается раньше сегодняшнего дня
	dateFrom := today
	if req.DateFrom != nil && req.DateFrom.After(today) {
		dateFrom = *req.DateFrom
	}

	// 3. Получаем доступные модельные слоты диапазона
	slots, err := uc.slotRepo.List(ctx, domain.SlotFilter{
		MasterID:      &master.ID,
		DateFrom:      &dateFrom,
		DateTo:        req.DateTo,
		ForModels:     ptr.Ptr(true),
		AvailableOnly: true,
	})
	if err != nil {
		uc.logger.Error("GetModelSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 4. Строим карту модельных услуг для подстановки названий
	services, err := uc.serviceRepo.List(ctx, domain.ServiceFilter{
		MasterID:  &master.ID,
		ForModels: ptr.Ptr(true),
	})
	if err != nil {
		uc.logger.Error("GetModelSlots: failed to list services: %v", err)
		return nil, fmt.Errorf("%w: failed to list services: %v", ErrInternal, err)
	}

	serviceNames := make(map[string]string, len(services))
	for _, s := range services {
		serviceNames[s.ID] = s.Name
	}

	nowMin := now.Hour()*60 + now.Minute()

	// 5. Отсеиваем слоты без услуги и уже начавшиеся сегодня
	candidates := make([]*domain.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.ServiceID == nil {
			// Модельный слот без услуги - некорректные данные, пропускаем
			uc.logger.Warn("GetModelSlots: model slot id=%s has no service, skipping", slot.ID)
			continue
		}

		// Сегодняшний слот, который уже начался, не предлагаем
		if isSameDay(slot.Date, now) && slot.StartTime.ToMinutes() <= nowMin {
			continue
		}

		candidates = append(candidates, slot)
	}

	// 6. Занятость всей выборки проверяется одним запросом
	candidateIDs := make([]string, 0, len(candidates))
	for _, slot := range candidates {
		candidateIDs = append(candidateIDs, slot.ID)
	}

	takenIDs, err := uc.appointmentRepo.ListScheduledSlotIDs(ctx, candidateIDs)
	if err != nil {
		uc.logger.Error("GetModelSlots: failed to check slot occupancy: %v", err)
		return nil, fmt.Errorf("%w: failed to check slot occupancy: %v", ErrInternal, err)
	}

	taken := make(map[string]bool, len(takenIDs))
	for _, id := range takenIDs {
		taken[id] = true
	}

	result := make([]ModelSlot, 0, len(candidates))
	for _, slot := range candidates {
		if taken[slot.ID] {
			continue
		}

		result = append(result, ModelSlot{
			SlotID:        slot.ID,
			Date:          slot.Date.Format(domain.DateFormat),
			StartTime:     slot.StartTime,
			EndTime:       slot.EndTime,
			ServiceID:     *slot.ServiceID,
			ServiceName:   serviceNames[*slot.ServiceID],
			PriceModifier: slot.PriceModifier,
		})
	}

	uc.logger.Info("GetModelSlots: %d free model slots", len(result))

	return &Response{Slots: result}, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
