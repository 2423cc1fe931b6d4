package reengagement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	kindReengagement = "reengagement"

	tickTimeout = 2 * time.Minute
)

// Scheduler планировщик возвращающих напоминаний
//
// Раз в сутки находит клиентов, чей последний завершенный визит был две
// недели назад или раньше, и присылает приглашение записаться снова. Спустя
// три недели к приглашению добавляются ближайшие свободные окна мастера.
// Момент отправки фиксируется в карточке клиента только после успеха:
// при сбое клиент попадет в следующую выборку.
type Scheduler struct {
	clientRepo   ClientRepository
	slotRepo     SlotRepository
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger

	schedule string

	cron *cron.Cron
}

// NewScheduler создает новый планировщик возвращающих напоминаний
func NewScheduler(
	clientRepo ClientRepository,
	slotRepo SlotRepository,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
	schedule string,
) *Scheduler {
	return &Scheduler{
		clientRepo:   clientRepo,
		slotRepo:     slotRepo,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		schedule:     schedule,
	}
}

// Start регистрирует задачу и запускает планировщик
func (s *Scheduler) Start() error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	if _, err := s.cron.AddFunc(s.schedule, s.runTick); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Reengagement: scheduler started, schedule=%q", s.schedule)

	return nil
}

// Stop останавливает планировщик и дожидается завершения текущего тика
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("Reengagement: scheduler stopped")
}

func (s *Scheduler) runTick() {
	started := s.timeProvider.Now()
	defer func() {
		s.metrics.ObserveReminderTick(kindReengagement, time.Since(started).Seconds())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	s.Run(ctx)
}

// Run обрабатывает возвращающие напоминания
// Кандидаты: клиенты с Telegram, чей последний завершенный визит был
// 14 и больше дней назад, без напоминания за последние 23 часа.
func (s *Scheduler) Run(ctx context.Context) {
	now := s.timeProvider.Now()

	due, err := s.clientRepo.ListDueReengagement(ctx, now)
	if err != nil {
		s.logger.Error("Reengagement: failed to list due clients: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("Reengagement: %d due clients", len(due))

	// Кэш свободных окон на мастера и защита от дублей на один Telegram аккаунт
	slotsByMaster := make(map[string][]*domain.AvailabilitySlot)
	notified := make(map[int64]bool, len(due))

	for _, d := range due {
		if notified[d.TelegramID] {
			continue
		}
		notified[d.TelegramID] = true

		text := s.nudgeText(d)
		if now.Sub(d.LastVisit) >= domain.ReengagementSmartDays*24*time.Hour {
			slots, err := s.upcomingSlots(ctx, d.MasterID, now, slotsByMaster)
			if err != nil {
				s.logger.Error("Reengagement: failed to list slots for master=%s: %v", d.MasterID, err)
				s.metrics.ObserveReminder(kindReengagement, "error")
				continue
			}
			text = s.smartText(d, slots)
		}

		if err := s.notifier.SendMessage(ctx, d.TelegramID, text); err != nil {
			s.logger.Error("Reengagement: failed to send to client id=%s: %v", d.ClientID, err)
			s.metrics.ObserveReminder(kindReengagement, "error")
			continue
		}

		// Отметка после успешной отправки: она же ограничивает частоту рассылки
		if err := s.clientRepo.TouchLastReminderSentAt(ctx, d.ClientID); err != nil {
			s.logger.Warn("Reengagement: failed to touch client id=%s: %v", d.ClientID, err)
		}

		s.metrics.ObserveReminder(kindReengagement, "sent")
		s.logger.Info("Reengagement: sent to client id=%s", d.ClientID)
	}
}

// upcomingSlots получает доступные немодельные слоты мастера на ближайшие
// две недели, кэшируя результат на время тика
func (s *Scheduler) upcomingSlots(
	ctx context.Context,
	masterID string,
	now time.Time,
	cache map[string][]*domain.AvailabilitySlot,
) ([]*domain.AvailabilitySlot, error) {
	if slots, ok := cache[masterID]; ok {
		return slots, nil
	}

	dateFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dateTo := dateFrom.AddDate(0, 0, domain.ReengagementSuggestDaysAhead)

	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{
		MasterID:      &masterID,
		DateFrom:      &dateFrom,
		DateTo:        &dateTo,
		ForModels:     ptr.Ptr(false),
		AvailableOnly: true,
	})
	if err != nil {
		return nil, err
	}

	cache[masterID] = slots
	return slots, nil
}

func (s *Scheduler) nudgeText(d *domain.DueReengagement) string {
	return fmt.Sprintf(
		"👋 %s! Прошло уже две недели с последнего визита. Пора обновить маникюр, ждем вас!",
		d.Name,
	)
}

func (s *Scheduler) smartText(d *domain.DueReengagement, slots []*domain.AvailabilitySlot) string {
	if len(slots) == 0 {
		return fmt.Sprintf(
			"👋 %s! Прошло уже больше трех недель с последнего визита. Будем рады видеть вас снова!",
			d.Name,
		)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👋 %s! Прошло уже больше трех недель с последнего визита. Ближайшие свободные окна:\n", d.Name)
	for i, slot := range slots {
		if i == domain.ReengagementMaxSuggestedSlots {
			break
		}
		fmt.Fprintf(&sb, "• %s с %s\n", slot.Date.Format("02.01.2006"), slot.StartTime.String())
	}
	sb.WriteString("Выберите удобное время и записывайтесь!")

	return sb.String()
}
