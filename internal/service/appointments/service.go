package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	masterRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/master"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const notifyTimeout = 10 * time.Second

// Service сервис жизненного цикла записей на приём
type Service struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	masterRepo      MasterRepository
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	masterRepo MasterRepository,
	notifier Notifier,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		masterRepo:      masterRepo,
		notifier:        notifier,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetMine получает записи клиента по его Telegram аккаунту
// Если мастер в запросе не указан, используется основной мастер.
func (s *Service) GetMine(ctx context.Context, req *models.GetMineRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetMine: master=%s, tg_user_id=%d", req.MasterID, req.TelegramID)

	masterID, err := s.resolveMasterID(ctx, req.MasterID)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByTelegramID(ctx, masterID, req.TelegramID)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			// Клиент ещё ни разу не записывался - пустой список, не ошибка
			return &models.AppointmentListResponse{Appointments: []*models.AppointmentResponse{}}, nil
		}
		s.logger.Error("GetMine: client lookup failed for tg_user_id=%d: %v", req.TelegramID, err)
		return nil, fmt.Errorf("%w: GetMine - client lookup: %v", ErrInternal, err)
	}

	filter := domain.AppointmentFilter{ClientID: &client.ID}
	if req.UpcomingOnly {
		status := domain.StatusScheduled
		today := truncateToDay(s.timeProvider.Now())
		filter.Status = &status
		filter.DateFrom = &today
	}

	views, err := s.appointmentRepo.ListViews(ctx, filter)
	if err != nil {
		s.logger.Error("GetMine: repository error for client=%s: %v", client.ID, err)
		return nil, fmt.Errorf("%w: GetMine - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainViewList(views), nil
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	view, err := s.getView(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}
	return models.FromDomainView(view), nil
}

// ListByMaster получает записи мастера с фильтрацией
func (s *Service) ListByMaster(ctx context.Context, req *models.ListByMasterRequest) (*models.AppointmentListResponse, error) {
	filter := domain.AppointmentFilter{
		MasterID: &req.MasterID,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}

	if req.Status != nil {
		status, ok := models.ToDomainStatus(*req.Status)
		if !ok {
			s.logger.Warn("ListByMaster: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	views, err := s.appointmentRepo.ListViews(ctx, filter)
	if err != nil {
		s.logger.Error("ListByMaster: repository error for master=%s: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: ListByMaster - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainViewList(views), nil
}

// CancelByClient отменяет запись по инициативе клиента
// Клиент может отменить только собственную запись и только запланированную.
// Мастер получает уведомление об отмене.
func (s *Service) CancelByClient(ctx context.Context, appointmentID string, req *models.CancelByClientRequest) error {
	s.logger.Info("CancelByClient: appointment id=%s, tg_user_id=%d", appointmentID, req.TelegramID)

	view, err := s.getView(ctx, appointmentID, "CancelByClient")
	if err != nil {
		return err
	}

	if view.ClientTelegramID == nil || *view.ClientTelegramID != req.TelegramID {
		s.logger.Warn("CancelByClient: access denied for tg_user_id=%d to appointment id=%s", req.TelegramID, appointmentID)
		return ErrAccessDenied
	}

	if !view.IsScheduled() {
		s.logger.Warn("CancelByClient: appointment id=%s is %s, cannot cancel", appointmentID, view.Status)
		return ErrInvalidTransition
	}

	reason := domain.DefaultCancellationReason
	if req.Reason != nil && *req.Reason != "" {
		reason = *req.Reason
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, reason, domain.CancelledByClient); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("CancelByClient: cancel failed for appointment id=%s: %v", appointmentID, err)
		return fmt.Errorf("%w: CancelByClient - cancel: %v", ErrInternal, err)
	}

	s.logger.Info("CancelByClient: cancelled appointment id=%s, reason=%s", appointmentID, reason)

	go s.notifyMasterCancelled(view, reason)

	return nil
}

// UpdateStatusByMaster переводит запись в конечный статус по решению мастера
// Запланированная запись может стать done или cancelled; конечные статусы неизменяемы.
// При первом переводе в done клиенту один раз отправляется запрос отзыва.
func (s *Service) UpdateStatusByMaster(ctx context.Context, appointmentID string, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatusByMaster: appointment id=%s, status=%s", appointmentID, req.Status)

	status, ok := models.ToDomainStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatusByMaster: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	view, err := s.getView(ctx, appointmentID, "UpdateStatusByMaster")
	if err != nil {
		return nil, err
	}

	if !view.CanTransitionTo(status) {
		s.logger.Warn("UpdateStatusByMaster: transition %s -> %s rejected for appointment id=%s", view.Status, status, appointmentID)
		return nil, ErrInvalidTransition
	}

	switch status {
	case domain.StatusCancelled:
		reason := domain.DefaultCancellationReason
		if req.Reason != nil && *req.Reason != "" {
			reason = *req.Reason
		}
		if err := s.appointmentRepo.Cancel(ctx, appointmentID, reason, domain.CancelledByMaster); err != nil {
			s.logger.Error("UpdateStatusByMaster: cancel failed for appointment id=%s: %v", appointmentID, err)
			return nil, fmt.Errorf("%w: UpdateStatusByMaster - cancel: %v", ErrInternal, err)
		}
		go s.notifyClientCancelled(view, reason)

	case domain.StatusDone:
		if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, status); err != nil {
			s.logger.Error("UpdateStatusByMaster: update failed for appointment id=%s: %v", appointmentID, err)
			return nil, fmt.Errorf("%w: UpdateStatusByMaster - update status: %v", ErrInternal, err)
		}
		go s.requestFeedback(view)
	}

	updated, err := s.getView(ctx, appointmentID, "UpdateStatusByMaster")
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatusByMaster: appointment id=%s is now %s", appointmentID, updated.Status)
	return models.FromDomainView(updated), nil
}

// SetReminder включает или выключает напоминания для записи
// Доступно мастеру и клиенту, которому принадлежит запись.
func (s *Service) SetReminder(ctx context.Context, appointmentID string, req *models.SetReminderRequest) error {
	view, err := s.getView(ctx, appointmentID, "SetReminder")
	if err != nil {
		return err
	}

	allowed := req.IsMaster ||
		(req.TelegramID != nil && view.ClientTelegramID != nil && *view.ClientTelegramID == *req.TelegramID)
	if !allowed {
		s.logger.Warn("SetReminder: access denied to appointment id=%s", appointmentID)
		return ErrAccessDenied
	}

	if err := s.appointmentRepo.SetReminderEnabled(ctx, appointmentID, req.Enabled); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("SetReminder: update failed for appointment id=%s: %v", appointmentID, err)
		return fmt.Errorf("%w: SetReminder - update: %v", ErrInternal, err)
	}

	s.logger.Info("SetReminder: appointment id=%s, enabled=%t", appointmentID, req.Enabled)
	return nil
}

func (s *Service) resolveMasterID(ctx context.Context, masterID string) (string, error) {
	if masterID != "" {
		return masterID, nil
	}

	master, err := s.masterRepo.GetMaster(ctx)
	if err != nil {
		if errors.Is(err, masterRepo.ErrMasterNotFound) {
			return "", ErrNoMaster
		}
		s.logger.Error("resolveMasterID: failed to get master: %v", err)
		return "", fmt.Errorf("%w: resolveMasterID: %v", ErrInternal, err)
	}

	return master.ID, nil
}

func (s *Service) getView(ctx context.Context, id, method string) (*domain.AppointmentView, error) {
	view, err := s.appointmentRepo.GetViewByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", method, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return view, nil
}

// notifyMasterCancelled уведомляет мастера об отмене записи клиентом
func (s *Service) notifyMasterCancelled(view *domain.AppointmentView, reason string) {
	if view.MasterTelegramID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	text := fmt.Sprintf(
		"❌ %s отменил(а) запись на %s в %s.\nПричина: %s",
		view.ClientName,
		view.Date.Format("02.01.2006"),
		view.StartTime.String(),
		reason,
	)

	if err := s.notifier.SendMessage(ctx, *view.MasterTelegramID, text); err != nil {
		s.logger.Error("notifyMasterCancelled: failed for appointment id=%s: %v", view.ID, err)
	}
}

// notifyClientCancelled уведомляет клиента об отмене записи мастером
func (s *Service) notifyClientCancelled(view *domain.AppointmentView, reason string) {
	if view.ClientTelegramID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	text := fmt.Sprintf(
		"К сожалению, ваша запись на %s в %s отменена мастером.\nПричина: %s",
		view.Date.Format("02.01.2006"),
		view.StartTime.String(),
		reason,
	)

	if err := s.notifier.SendMessage(ctx, *view.ClientTelegramID, text); err != nil {
		s.logger.Error("notifyClientCancelled: failed for appointment id=%s: %v", view.ID, err)
	}
}

// requestFeedback один раз запрашивает у клиента отзыв после завершения сеанса
func (s *Service) requestFeedback(view *domain.AppointmentView) {
	if view.ClientTelegramID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	// Отметка ставится до отправки: повторный перевод в done не должен
	// заспамить клиента запросами отзыва
	claimed, err := s.appointmentRepo.MarkFeedbackRequested(ctx, view.ID)
	if err != nil {
		s.logger.Error("requestFeedback: claim failed for appointment id=%s: %v", view.ID, err)
		return
	}
	if !claimed {
		return
	}

	text := "Спасибо, что были у нас! 💅 Поделитесь, пожалуйста, впечатлениями о сеансе - ваш отзыв очень важен."

	if err := s.notifier.SendMessage(ctx, *view.ClientTelegramID, text); err != nil {
		s.logger.Error("requestFeedback: send failed for appointment id=%s: %v", view.ID, err)
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
