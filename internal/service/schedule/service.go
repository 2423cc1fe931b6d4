package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const broadcastTimeout = 30 * time.Second

// Service сервис для управления расписанием мастера
type Service struct {
	slotRepo        SlotRepository
	serviceRepo     ServiceRepository
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	notifier        Notifier
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	slotRepo SlotRepository,
	serviceRepo ServiceRepository,
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:        slotRepo,
		serviceRepo:     serviceRepo,
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		notifier:        notifier,
		txManager:       txManager,
		logger:          logger,
	}
}

// CreateSlot создает слот доступности
// Проверяет корректность интервала и отсутствие пересечений со слотами той же даты.
// Модельный слот обязан ссылаться на модельную услугу того же мастера.
func (s *Service) CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: master=%s, date=%s, %s-%s, forModels=%t", req.MasterID, req.Date, req.StartTime, req.EndTime, req.ForModels)

	date, startTime, endTime, err := s.parseInterval(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("CreateSlot: invalid interval for master=%s: %v", req.MasterID, err)
		return nil, err
	}

	slot := &domain.AvailabilitySlot{
		ID:            uuid.NewString(),
		MasterID:      req.MasterID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		IsAvailable:   true,
		ForModels:     req.ForModels,
		ServiceID:     req.ServiceID,
		PriceModifier: req.PriceModifier,
	}

	if req.ForModels {
		if err := s.validateModelService(ctx, req.MasterID, req.ServiceID); err != nil {
			return nil, err
		}
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.checkSiblingOverlap(ctx, slot, ""); err != nil {
			return err
		}

		_, err := s.slotRepo.Create(ctx, slot)
		if err != nil {
			return fmt.Errorf("%w: CreateSlot - create slot: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSlotOverlap) {
			s.logger.Error("CreateSlot: failed for master=%s: %v", req.MasterID, err)
		}
		return nil, err
	}

	s.logger.Info("CreateSlot: created slot id=%s for master=%s", slot.ID, slot.MasterID)

	// Слот со скидкой анонсируется клиентам после фиксации транзакции
	if slot.HasDiscount() {
		go s.broadcastDiscount(slot)
	}

	return models.FromDomainSlot(slot), nil
}

// GetSlot получает слот по ID
func (s *Service) GetSlot(ctx context.Context, id string) (*models.SlotResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetSlot: repository error for slot id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetSlot - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlot(slot), nil
}

// ListSlots получает слоты мастера с фильтрацией
func (s *Service) ListSlots(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	filter := domain.SlotFilter{
		MasterID:      &req.MasterID,
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
		ForModels:     req.ForModels,
		AvailableOnly: req.AvailableOnly,
	}

	slots, err := s.slotRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListSlots: repository error for master=%s: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(slots), nil
}

// UpdateSlot изменяет слот
// Интервал и пересечения перепроверяются с учетом новых значений; сам слот
// из проверки пересечений исключается.
func (s *Service) UpdateSlot(ctx context.Context, id string, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateSlot: slot id=%s", id)

	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("UpdateSlot: repository error for slot id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateSlot - repository error: %v", ErrInternal, err)
	}

	hadDiscount := slot.HasDiscount()

	if err := s.applyUpdate(slot, req); err != nil {
		s.logger.Warn("UpdateSlot: invalid update for slot id=%s: %v", id, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.checkSiblingOverlap(ctx, slot, slot.ID); err != nil {
			return err
		}

		if err := s.slotRepo.Update(ctx, slot); err != nil {
			return fmt.Errorf("%w: UpdateSlot - update slot: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateSlot: updated slot id=%s", id)

	// Анонс уходит только при появлении скидки, не при каждом изменении
	if !hadDiscount && slot.HasDiscount() {
		go s.broadcastDiscount(slot)
	}

	return models.FromDomainSlot(slot), nil
}

// DeleteSlot удаляет слот
// Записи, ссылающиеся на слот, открепляются и сохраняют дату и время.
func (s *Service) DeleteSlot(ctx context.Context, id string) error {
	s.logger.Info("DeleteSlot: slot id=%s", id)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.appointmentRepo.DetachFromSlot(ctx, id); err != nil {
			return fmt.Errorf("%w: DeleteSlot - detach appointments: %v", ErrInternal, err)
		}

		if err := s.slotRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: DeleteSlot - delete slot: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSlotNotFound) {
			s.logger.Error("DeleteSlot: failed for slot id=%s: %v", id, err)
		}
		return err
	}

	s.logger.Info("DeleteSlot: deleted slot id=%s", id)
	return nil
}

// parseInterval разбирает дату и границы интервала из запроса
func (s *Service) parseInterval(dateStr, startStr, endStr string) (time.Time, types.TimeString, types.TimeString, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, "", "", fmt.Errorf("%w: invalid date format", ErrInvalidInput)
	}

	startTime, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return time.Time{}, "", "", fmt.Errorf("%w: invalid start time", ErrInvalidInput)
	}

	endTime, err := types.NewTimeStringFromString(endStr)
	if err != nil {
		return time.Time{}, "", "", fmt.Errorf("%w: invalid end time", ErrInvalidInput)
	}

	if !startTime.IsBefore(endTime) {
		return time.Time{}, "", "", ErrInvalidInterval
	}

	return date, startTime, endTime, nil
}

// validateModelService проверяет услугу модельного слота
func (s *Service) validateModelService(ctx context.Context, masterID string, serviceID *string) error {
	if serviceID == nil {
		s.logger.Warn("CreateSlot: model slot without service for master=%s", masterID)
		return ErrModelServiceRequired
	}

	svc, err := s.serviceRepo.GetByID(ctx, *serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("CreateSlot: service lookup failed for id=%s: %v", *serviceID, err)
		return fmt.Errorf("%w: validateModelService - repository error: %v", ErrInternal, err)
	}

	if !svc.ForModels || svc.MasterID != masterID {
		return ErrModelServiceRequired
	}

	return nil
}

// checkSiblingOverlap проверяет пересечение слота со слотами той же даты
func (s *Service) checkSiblingOverlap(ctx context.Context, slot *domain.AvailabilitySlot, excludeID string) error {
	siblings, err := s.slotRepo.List(ctx, domain.SlotFilter{
		MasterID: &slot.MasterID,
		DateFrom: &slot.Date,
		DateTo:   &slot.Date,
	})
	if err != nil {
		return fmt.Errorf("%w: checkSiblingOverlap - list slots: %v", ErrInternal, err)
	}

	for _, sibling := range siblings {
		if sibling.ID == excludeID {
			continue
		}
		if slot.Overlaps(sibling) {
			s.logger.Warn("Slot overlap: master=%s, date=%s, %s-%s conflicts with slot id=%s",
				slot.MasterID, slot.Date.Format(domain.DateFormat), slot.StartTime, slot.EndTime, sibling.ID)
			return ErrSlotOverlap
		}
	}

	return nil
}

// applyUpdate применяет изменения из запроса к слоту и перепроверяет интервал
func (s *Service) applyUpdate(slot *domain.AvailabilitySlot, req *models.UpdateSlotRequest) error {
	if req.Date != nil {
		date, err := time.Parse(domain.DateFormat, *req.Date)
		if err != nil {
			return fmt.Errorf("%w: invalid date format", ErrInvalidInput)
		}
		slot.Date = date
	}
	if req.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return fmt.Errorf("%w: invalid start time", ErrInvalidInput)
		}
		slot.StartTime = startTime
	}
	if req.EndTime != nil {
		endTime, err := types.NewTimeStringFromString(*req.EndTime)
		if err != nil {
			return fmt.Errorf("%w: invalid end time", ErrInvalidInput)
		}
		slot.EndTime = endTime
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}
	if req.PriceModifier != nil {
		slot.PriceModifier = req.PriceModifier
	}

	if !slot.StartTime.IsBefore(slot.EndTime) {
		return ErrInvalidInterval
	}

	return nil
}

// broadcastDiscount рассылает клиентам мастера анонс слота со скидкой
func (s *Service) broadcastDiscount(slot *domain.AvailabilitySlot) {
	ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
	defer cancel()

	chatIDs, err := s.clientRepo.ListTelegramIDs(ctx, slot.MasterID)
	if err != nil {
		s.logger.Error("broadcastDiscount: failed to list client telegram ids for master=%s: %v", slot.MasterID, err)
		return
	}
	if len(chatIDs) == 0 {
		return
	}

	discount := -*slot.PriceModifier
	text := fmt.Sprintf(
		"🎉 Акция! Скидка %.0f ₽ на запись %s с %s до %s. Успейте записаться!",
		discount,
		slot.Date.Format("02.01.2006"),
		slot.StartTime.String(),
		slot.EndTime.String(),
	)

	sent := s.notifier.SendBroadcast(ctx, chatIDs, text)
	s.logger.Info("broadcastDiscount: slot id=%s, sent=%d of %d", slot.ID, sent, len(chatIDs))
}
