package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	masterRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/master"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const notifyTimeout = 30 * time.Second

// UseCase use case создания записи клиентом через mini-app
//
// Поддерживает два режима:
// - свободный выбор времени под услугу (или без услуги);
// - бронирование модельного слота целиком.
//
// Проверка доступности и создание записи выполняются в сериализуемой
// транзакции: при гонке двух клиентов за одно время запись получает один.
type UseCase struct {
	masterRepo      MasterRepository
	clientRepo      ClientRepository
	serviceRepo     ServiceRepository
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	masterRepo MasterRepository,
	clientRepo ClientRepository,
	serviceRepo ServiceRepository,
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		masterRepo:      masterRepo,
		clientRepo:      clientRepo,
		serviceRepo:     serviceRepo,
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: tg_user_id=%d, slot=%v, service=%v, date=%s, time=%s",
		req.TelegramID, req.SlotID, req.ServiceID, req.Date, req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем мастера
	master, err := uc.resolveMaster(ctx, req.MasterID)
	if err != nil {
		return nil, err
	}

	// 3. Бронируем в зависимости от режима
	var resp *Response
	if req.SlotID != nil {
		resp, err = uc.bookModelSlot(ctx, master, req)
	} else {
		resp, err = uc.bookFreeChoice(ctx, master, req)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: created appointment id=%s, kind=%s", resp.AppointmentID, resp.Kind)

	// 4. Уведомления мастеру после фиксации транзакции
	go uc.notifyMaster(master, req.ClientName, resp)

	return resp, nil
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
			uc.logger.Warn("BookAppointment: master not found (id=%v)", masterID)
			return nil, ErrNoMaster
		}
		uc.logger.Error("BookAppointment: failed to get master: %v", err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	return master, nil
}

// bookModelSlot бронирует модельный слот целиком
// Услуга всегда берется из слота: переданный клиентом serviceID игнорируется.
func (uc *UseCase) bookModelSlot(ctx context.Context, master *domain.Master, req *Request) (*Response, error) {
	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		slot, err := uc.slotRepo.GetByID(ctx, *req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if !slot.ForModels || !slot.IsAvailable || slot.ServiceID == nil {
			return ErrSlotNotFound
		}

		if isDateInPast(slot.Date, uc.timeProvider.Now()) {
			return ErrSlotNotFound
		}

		taken, err := uc.appointmentRepo.ExistsScheduledBySlotID(ctx, slot.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}
		if taken {
			return ErrSlotAlreadyBooked
		}

		service, err := uc.serviceRepo.GetByID(ctx, *slot.ServiceID)
		if err != nil {
			return fmt.Errorf("%w: failed to get slot service: %v", ErrInternal, err)
		}

		client, err := uc.resolveClient(ctx, master.ID, req)
		if err != nil {
			return err
		}

		appointment := &domain.Appointment{
			ID:                uuid.NewString(),
			ClientID:          client.ID,
			MasterID:          master.ID,
			ServiceID:         slot.ServiceID,
			SlotID:            &slot.ID,
			Date:              slot.Date,
			StartTime:         slot.StartTime,
			Status:            domain.StatusScheduled,
			Source:            domain.SourceSelf,
			Note:              req.Note,
			ReferenceImageURL: req.ReferenceImageURL,
			ReminderEnabled:   true,
		}

		created, err := uc.appointmentRepo.Create(ctx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrTimeConflict) {
				return ErrSlotAlreadyBooked
			}
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		serviceName := service.Name
		resp = &Response{
			AppointmentID:   created.ID,
			ClientID:        client.ID,
			Kind:            string(domain.KindModelSlot),
			Date:            created.Date.Format(domain.DateFormat),
			StartTime:       created.StartTime.String(),
			DurationMinutes: service.DurationOrDefault(),
			ServiceID:       created.ServiceID,
			ServiceName:     &serviceName,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotAlreadyBooked) || errors.Is(err, ErrSlotNotFound) {
			uc.logger.Warn("BookAppointment: model slot id=%s rejected: %v", *req.SlotID, err)
		} else {
			uc.logger.Error("BookAppointment: model slot booking failed: %v", err)
		}
		return nil, err
	}

	return resp, nil
}

// bookFreeChoice бронирует запись на свободно выбранное время
func (uc *UseCase) bookFreeChoice(ctx context.Context, master *domain.Master, req *Request) (*Response, error) {
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format", ErrInvalidInput)
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	if isDateInPast(date, now) {
		return nil, ErrInvalidDate
	}

	// Длительность сеанса: из услуги или по умолчанию
	durationMinutes := domain.DefaultServiceDurationMinutes
	var serviceName *string
	if req.ServiceID != nil {
		service, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				return nil, ErrServiceNotFound
			}
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		// Модельные услуги бронируются только через модельные слоты
		if service.ForModels || !service.IsActive {
			return nil, ErrServiceNotFound
		}
		durationMinutes = service.DurationOrDefault()
		serviceName = &service.Name
	}

	startMin := startTime.ToMinutes()
	if isSameDay(date, now) && startMin <= now.Hour()*60+now.Minute() {
		return nil, ErrTimeNotAvailable
	}

	var resp *Response

	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// Слоты и занятые интервалы читаются с блокировкой (FOR UPDATE):
		// параллельная попытка занять то же время дождется фиксации
		slots, err := uc.slotRepo.List(ctx, domain.SlotFilter{
			MasterID:      &master.ID,
			DateFrom:      &date,
			DateTo:        &date,
			AvailableOnly: true,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		booked, err := uc.appointmentRepo.ListBookedIntervals(ctx, master.ID, date)
		if err != nil {
			return fmt.Errorf("%w: failed to list booked intervals: %v", ErrInternal, err)
		}

		if !windowFits(slots, booked, startMin, durationMinutes) {
			return ErrTimeNotAvailable
		}

		client, err := uc.resolveClient(ctx, master.ID, req)
		if err != nil {
			return err
		}

		appointment := &domain.Appointment{
			ID:                uuid.NewString(),
			ClientID:          client.ID,
			MasterID:          master.ID,
			ServiceID:         req.ServiceID,
			Date:              date,
			StartTime:         startTime,
			Status:            domain.StatusScheduled,
			Source:            domain.SourceSelf,
			Note:              req.Note,
			ReferenceImageURL: req.ReferenceImageURL,
			ReminderEnabled:   true,
		}

		created, err := uc.appointmentRepo.Create(ctx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrTimeConflict) {
				return ErrTimeNotAvailable
			}
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		resp = &Response{
			AppointmentID:   created.ID,
			ClientID:        client.ID,
			Kind:            string(domain.KindService),
			Date:            created.Date.Format(domain.DateFormat),
			StartTime:       created.StartTime.String(),
			DurationMinutes: durationMinutes,
			ServiceID:       req.ServiceID,
			ServiceName:     serviceName,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTimeNotAvailable) {
			uc.logger.Warn("BookAppointment: time %s %s not available", req.Date, req.StartTime)
		} else {
			uc.logger.Error("BookAppointment: free choice booking failed: %v", err)
		}
		return nil, err
	}

	return resp, nil
}

// resolveClient находит или создает карточку клиента по Telegram аккаунту
//
// Порядок поиска:
// 1. Карточка, уже привязанная к Telegram ID.
// 2. Единственная непривязанная карточка с совпадающим username -
//    заведена мастером вручную, привязываем к Telegram ID.
// 3. Иначе создаем новую карточку.
func (uc *UseCase) resolveClient(ctx context.Context, masterID string, req *Request) (*domain.Client, error) {
	client, err := uc.clientRepo.GetByTelegramID(ctx, masterID, req.TelegramID)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, clientRepo.ErrClientNotFound) {
		return nil, fmt.Errorf("%w: failed to find client: %v", ErrInternal, err)
	}

	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		matches, err := uc.clientRepo.FindUnlinkedByUsername(ctx, masterID, *req.Username)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to match client by username: %v", ErrInternal, err)
		}

		// Привязываем только при однозначном совпадении
		if len(matches) == 1 {
			matched := matches[0]
			if err := uc.clientRepo.BindTelegram(ctx, matched.ID, req.TelegramID); err != nil {
				return nil, fmt.Errorf("%w: failed to bind client: %v", ErrInternal, err)
			}
			matched.TelegramID = &req.TelegramID
			uc.logger.Info("BookAppointment: linked client id=%s to tg_user_id=%d by username", matched.ID, req.TelegramID)
			return matched, nil
		}
	}

	newClient := &domain.Client{
		ID:         uuid.NewString(),
		MasterID:   masterID,
		Name:       strings.TrimSpace(req.ClientName),
		TelegramID: &req.TelegramID,
		Username:   req.Username,
	}

	created, err := uc.clientRepo.Create(ctx, newClient)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create client: %v", ErrInternal, err)
	}

	uc.logger.Info("BookAppointment: created client id=%s for tg_user_id=%d", created.ID, req.TelegramID)
	return created, nil
}

// notifyMaster отправляет мастеру уведомление о новой записи и,
// если свободных окон на дату не осталось, расписание дня
func (uc *UseCase) notifyMaster(master *domain.Master, clientName string, resp *Response) {
	if !master.HasTelegram() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	serviceLine := "Свободный сеанс"
	if resp.ServiceName != nil {
		serviceLine = *resp.ServiceName
	}
	if resp.Kind == string(domain.KindModelSlot) {
		serviceLine += " (модель)"
	}

	text := fmt.Sprintf(
		"📅 Новая запись!\n%s\n%s в %s\nКлиент: %s",
		serviceLine,
		resp.Date,
		resp.StartTime,
		clientName,
	)

	if err := uc.notifier.SendMessage(ctx, *master.TelegramID, text); err != nil {
		uc.logger.Error("notifyMaster: failed to send new booking notification: %v", err)
	}

	uc.maybeNotifyDayFull(ctx, master, resp.Date)
}

// maybeNotifyDayFull отправляет мастеру расписание дня, когда свободных
// окон на дату больше не осталось
func (uc *UseCase) maybeNotifyDayFull(ctx context.Context, master *domain.Master, dateStr string) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return
	}

	slots, err := uc.slotRepo.List(ctx, domain.SlotFilter{
		MasterID:      &master.ID,
		DateFrom:      &date,
		DateTo:        &date,
		AvailableOnly: true,
	})
	if err != nil {
		uc.logger.Error("maybeNotifyDayFull: failed to list slots: %v", err)
		return
	}

	hasRegularSlots := false
	for _, slot := range slots {
		if !slot.ForModels {
			hasRegularSlots = true
			break
		}
	}
	if !hasRegularSlots {
		return
	}

	booked, err := uc.appointmentRepo.ListBookedIntervals(ctx, master.ID, date)
	if err != nil {
		uc.logger.Error("maybeNotifyDayFull: failed to list booked intervals: %v", err)
		return
	}

	if hasAnyFreeWindow(slots, booked) {
		return
	}

	status := domain.StatusScheduled
	views, err := uc.appointmentRepo.ListViews(ctx, domain.AppointmentFilter{
		MasterID: &master.ID,
		Status:   &status,
		DateFrom: &date,
		DateTo:   &date,
	})
	if err != nil {
		uc.logger.Error("maybeNotifyDayFull: failed to list appointments: %v", err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔥 День %s полностью занят!\nРасписание:\n", date.Format("02.01.2006"))
	for _, v := range views {
		serviceName := "Свободный сеанс"
		if v.ServiceName != nil {
			serviceName = *v.ServiceName
		}
		fmt.Fprintf(&sb, "• %s - %s (%s)\n", v.StartTime.String(), v.ClientName, serviceName)
	}

	if err := uc.notifier.SendMessage(ctx, *master.TelegramID, sb.String()); err != nil {
		uc.logger.Error("maybeNotifyDayFull: failed to send day schedule: %v", err)
	}

	uc.logger.Info("maybeNotifyDayFull: date %s is fully booked, schedule sent to master", dateStr)
}
