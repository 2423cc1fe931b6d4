package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	kindDayAhead   = "day_ahead"
	kindPreSession = "pre_session"

	tickTimeout = 2 * time.Minute
)

// Scheduler планировщик напоминаний
//
// Два независимых тика:
// - day_ahead: напоминание за сутки о предстоящей записи;
// - pre_session: напоминание за 5-10 минут до сеанса с выбором напитка.
//
// Каждый тик защищен от наложения (SkipIfStillRunning). Отметка об отправке
// ставится условным UPDATE только после успешной отправки: при сбое запись
// остается без отметки и уходит на следующем тике. Сам маркер и есть механизм
// повтора, счетчик неудач не хранится. Записи клиентов без Telegram помечаются
// без отправки, иначе они выбирались бы каждым тиком заново.
type Scheduler struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	notifier        Notifier
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger

	dayAheadSchedule   string
	preSessionSchedule string

	cron *cron.Cron
}

// NewScheduler создает новый планировщик напоминаний
func NewScheduler(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
	dayAheadSchedule string,
	preSessionSchedule string,
) *Scheduler {
	return &Scheduler{
		appointmentRepo:    appointmentRepo,
		clientRepo:         clientRepo,
		notifier:           notifier,
		metrics:            metrics,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
		dayAheadSchedule:   dayAheadSchedule,
		preSessionSchedule: preSessionSchedule,
	}
}

// Start регистрирует задачи и запускает планировщик
func (s *Scheduler) Start() error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	if _, err := s.cron.AddFunc(s.dayAheadSchedule, s.runDayAheadTick); err != nil {
		return fmt.Errorf("%w: day ahead %q: %v", ErrInvalidSchedule, s.dayAheadSchedule, err)
	}

	if _, err := s.cron.AddFunc(s.preSessionSchedule, s.runPreSessionTick); err != nil {
		return fmt.Errorf("%w: pre session %q: %v", ErrInvalidSchedule, s.preSessionSchedule, err)
	}

	s.cron.Start()
	s.logger.Info("Reminders: scheduler started, day_ahead=%q, pre_session=%q", s.dayAheadSchedule, s.preSessionSchedule)

	return nil
}

// Stop останавливает планировщик и дожидается завершения текущих тиков
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("Reminders: scheduler stopped")
}

func (s *Scheduler) runDayAheadTick() {
	started := s.timeProvider.Now()
	defer func() {
		s.metrics.ObserveReminderTick(kindDayAhead, time.Since(started).Seconds())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	s.RunDayAhead(ctx)
}

func (s *Scheduler) runPreSessionTick() {
	started := s.timeProvider.Now()
	defer func() {
		s.metrics.ObserveReminderTick(kindPreSession, time.Since(started).Seconds())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	s.RunPreSession(ctx)
}

// RunDayAhead обрабатывает напоминания за сутки
// Кандидаты: запланированные записи с включенными напоминаниями, без отметки
// об отправке, начинающиеся в ближайшие 24 часа. Прошедшие записи пропускаются.
func (s *Scheduler) RunDayAhead(ctx context.Context) {
	now := s.timeProvider.Now()

	due, err := s.appointmentRepo.ListDueDayAhead(ctx, now)
	if err != nil {
		s.logger.Error("Reminders: day ahead - failed to list due appointments: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("Reminders: day ahead - %d due appointments", len(due))

	for _, d := range due {
		if d.ClientTelegramID == nil {
			// Клиента без Telegram не уведомить: мастеру уходит сводка,
			// отметка ставится, чтобы запись не выбиралась каждый тик
			if d.MasterTelegramID != nil {
				if err := s.notifier.SendMessage(ctx, *d.MasterTelegramID, s.masterDayAheadText(d)); err != nil {
					s.logger.Warn("Reminders: day ahead - failed to notify master for appointment id=%s: %v", d.AppointmentID, err)
				}
			}
			if _, err := s.appointmentRepo.MarkReminderSent(ctx, d.AppointmentID); err != nil {
				s.logger.Error("Reminders: day ahead - failed to mark appointment id=%s: %v", d.AppointmentID, err)
				s.metrics.ObserveReminder(kindDayAhead, "error")
				continue
			}
			s.metrics.ObserveReminder(kindDayAhead, "skipped")
			continue
		}

		if err := s.notifier.SendMessage(ctx, *d.ClientTelegramID, s.dayAheadText(d)); err != nil {
			s.logger.Error("Reminders: day ahead - failed to send for appointment id=%s: %v", d.AppointmentID, err)
			s.metrics.ObserveReminder(kindDayAhead, "error")
			continue
		}

		if d.MasterTelegramID != nil {
			if err := s.notifier.SendMessage(ctx, *d.MasterTelegramID, s.masterDayAheadText(d)); err != nil {
				s.logger.Warn("Reminders: day ahead - failed to notify master for appointment id=%s: %v", d.AppointmentID, err)
			}
		}

		// Маркер только после успешной отправки клиенту: без него запись
		// попадет в выборку следующего тика
		claimed, err := s.appointmentRepo.MarkReminderSent(ctx, d.AppointmentID)
		if err != nil {
			s.logger.Error("Reminders: day ahead - failed to mark appointment id=%s: %v", d.AppointmentID, err)
			s.metrics.ObserveReminder(kindDayAhead, "error")
			continue
		}
		if !claimed {
			continue
		}

		if err := s.clientRepo.TouchLastReminderSentAt(ctx, d.ClientID); err != nil {
			s.logger.Warn("Reminders: day ahead - failed to touch client id=%s: %v", d.ClientID, err)
		}

		s.metrics.ObserveReminder(kindDayAhead, "sent")
		s.logger.Info("Reminders: day ahead - sent for appointment id=%s", d.AppointmentID)
	}
}

// RunPreSession обрабатывает напоминания перед сеансом
// Кандидаты: записи, начинающиеся через 5-10 минут, без отметки об отправке.
// Клиенту предлагается выбрать напиток из списка мастера.
func (s *Scheduler) RunPreSession(ctx context.Context) {
	now := s.timeProvider.Now()

	due, err := s.appointmentRepo.ListDuePreSession(ctx, now)
	if err != nil {
		s.logger.Error("Reminders: pre session - failed to list due appointments: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("Reminders: pre session - %d due appointments", len(due))

	for _, d := range due {
		if d.ClientTelegramID == nil {
			if _, err := s.appointmentRepo.MarkPreSessionReminderSent(ctx, d.AppointmentID); err != nil {
				s.logger.Error("Reminders: pre session - failed to mark appointment id=%s: %v", d.AppointmentID, err)
				s.metrics.ObserveReminder(kindPreSession, "error")
				continue
			}
			s.metrics.ObserveReminder(kindPreSession, "skipped")
			continue
		}

		text := fmt.Sprintf("Ждем вас через несколько минут, %s! ☕ Что приготовить к вашему приходу?", d.ClientName)
		if err := s.notifier.SendDrinkReminder(ctx, *d.ClientTelegramID, text, d.DrinkOptions); err != nil {
			s.logger.Error("Reminders: pre session - failed to send for appointment id=%s: %v", d.AppointmentID, err)
			s.metrics.ObserveReminder(kindPreSession, "error")
			continue
		}

		if d.MasterTelegramID != nil {
			if err := s.notifier.SendMessage(ctx, *d.MasterTelegramID, s.masterPreSessionText(d)); err != nil {
				s.logger.Error("Reminders: pre session - failed to notify master for appointment id=%s: %v", d.AppointmentID, err)
				s.metrics.ObserveReminder(kindPreSession, "error")
				continue
			}
		}

		// Маркер ставится после успеха обеих отправок
		claimed, err := s.appointmentRepo.MarkPreSessionReminderSent(ctx, d.AppointmentID)
		if err != nil {
			s.logger.Error("Reminders: pre session - failed to mark appointment id=%s: %v", d.AppointmentID, err)
			s.metrics.ObserveReminder(kindPreSession, "error")
			continue
		}
		if !claimed {
			continue
		}

		s.metrics.ObserveReminder(kindPreSession, "sent")
		s.logger.Info("Reminders: pre session - sent for appointment id=%s", d.AppointmentID)
	}
}

func (s *Scheduler) dayAheadText(d *domain.DueReminder) string {
	serviceName := "сеанс"
	if d.ServiceName != nil {
		serviceName = *d.ServiceName
	}

	return fmt.Sprintf(
		"🔔 Напоминаем о записи!\n%s\n%s в %s\nЖдем вас!",
		serviceName,
		d.Date.Format("02.01.2006"),
		d.StartTime.String(),
	)
}

func (s *Scheduler) masterDayAheadText(d *domain.DueReminder) string {
	return fmt.Sprintf(
		"📋 Завтрашняя запись: %s, %s в %s",
		d.ClientName,
		d.Date.Format("02.01.2006"),
		d.StartTime.String(),
	)
}

func (s *Scheduler) masterPreSessionText(d *domain.DueReminder) string {
	return fmt.Sprintf("⏰ %s будет через несколько минут (%s)", d.ClientName, d.StartTime.String())
}
