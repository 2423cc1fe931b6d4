package book_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentstore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	clientstore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	masterstore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/master"
	servicestore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	slotstore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeMasterRepo struct {
	master *domain.Master
	byID   map[string]*domain.Master
	err    error
}

func (f *fakeMasterRepo) GetMaster(_ context.Context) (*domain.Master, error) {
	return f.master, f.err
}

func (f *fakeMasterRepo) GetByID(_ context.Context, id string) (*domain.Master, error) {
	if f.err != nil {
		return nil, f.err
	}
	if master, ok := f.byID[id]; ok {
		return master, nil
	}
	return nil, masterstore.ErrMasterNotFound
}

type fakeClientRepo struct {
	byTelegramID *domain.Client
	unlinked     []*domain.Client

	boundID   string
	boundTGID int64
	created   *domain.Client
}

func (f *fakeClientRepo) GetByTelegramID(_ context.Context, _ string, _ int64) (*domain.Client, error) {
	if f.byTelegramID == nil {
		return nil, clientstore.ErrClientNotFound
	}
	return f.byTelegramID, nil
}

func (f *fakeClientRepo) FindUnlinkedByUsername(_ context.Context, _, _ string) ([]*domain.Client, error) {
	return f.unlinked, nil
}

func (f *fakeClientRepo) BindTelegram(_ context.Context, id string, telegramID int64) error {
	f.boundID = id
	f.boundTGID = telegramID
	return nil
}

func (f *fakeClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	f.created = c
	return c, nil
}

type fakeServiceRepo struct {
	services map[string]*domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	if svc, ok := f.services[id]; ok {
		return svc, nil
	}
	return nil, servicestore.ErrServiceNotFound
}

type fakeSlotRepo struct {
	slots []*domain.AvailabilitySlot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id string) (*domain.AvailabilitySlot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, slotstore.ErrSlotNotFound
}

func (f *fakeSlotRepo) List(_ context.Context, _ domain.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	return f.slots, nil
}

type fakeAppointmentRepo struct {
	booked    []*domain.BookedInterval
	slotTaken bool
	createErr error

	created *domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = a
	return a, nil
}

func (f *fakeAppointmentRepo) ListBookedIntervals(_ context.Context, _ string, _ time.Time) ([]*domain.BookedInterval, error) {
	return f.booked, nil
}

func (f *fakeAppointmentRepo) ExistsScheduledBySlotID(_ context.Context, _ string) (bool, error) {
	return f.slotTaken, nil
}

func (f *fakeAppointmentRepo) ListViews(_ context.Context, _ domain.AppointmentFilter) ([]*domain.AppointmentView, error) {
	return nil, nil
}

type fakeNotifier struct{}

func (fakeNotifier) SendMessage(_ context.Context, _ int64, _ string) error {
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixture struct {
	masters      *fakeMasterRepo
	clients      *fakeClientRepo
	services     *fakeServiceRepo
	slots        *fakeSlotRepo
	appointments *fakeAppointmentRepo
	uc           *UseCase
}

// Мастер в фикстуре без Telegram ID, чтобы уведомления не отправлялись
func newFixture(now time.Time) *fixture {
	f := &fixture{
		masters:      &fakeMasterRepo{master: &domain.Master{ID: "master-1", FirstName: "Аня"}},
		clients:      &fakeClientRepo{},
		services:     &fakeServiceRepo{services: map[string]*domain.Service{}},
		slots:        &fakeSlotRepo{},
		appointments: &fakeAppointmentRepo{},
	}
	f.uc = NewUseCase(
		f.masters, f.clients, f.services, f.slots, f.appointments,
		fakeNotifier{}, fakeTxManager{}, noopLogger{},
	)
	f.uc.timeProvider = &fixedTimeProvider{now: now}
	return f
}

var testNow = time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC)

func regularSlot(id, start, end string) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:          id,
		MasterID:    "master-1",
		Date:        time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		IsAvailable: true,
	}
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "non-positive telegram id", req: &Request{ClientName: "Ирина", Date: "2025-10-15", StartTime: "10:00"}},
		{name: "empty client name", req: &Request{TelegramID: 100, ClientName: "  ", Date: "2025-10-15", StartTime: "10:00"}},
		{name: "missing date", req: &Request{TelegramID: 100, ClientName: "Ирина", StartTime: "10:00"}},
		{name: "missing start time", req: &Request{TelegramID: 100, ClientName: "Ирина", Date: "2025-10-15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(testNow)
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_NoMaster(t *testing.T) {
	f := newFixture(testNow)
	f.masters.master = nil
	f.masters.err = masterstore.ErrMasterNotFound

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Date:       "2025-10-15",
		StartTime:  "10:00",
	})
	assert.ErrorIs(t, err, ErrNoMaster)
}

func TestExecute_ExplicitMasterUsed(t *testing.T) {
	f := newFixture(testNow)
	f.masters.byID = map[string]*domain.Master{
		"master-2": {ID: "master-2", FirstName: "Катя"},
	}
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "14:00:00")}

	resp, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		MasterID:   ptr.Ptr("master-2"),
		Date:       "2025-10-15",
		StartTime:  "10:00",
	})
	require.NoError(t, err)

	require.NotNil(t, f.appointments.created)
	assert.Equal(t, "master-2", f.appointments.created.MasterID)
	assert.Equal(t, resp.AppointmentID, f.appointments.created.ID)
}

func TestExecute_ExplicitMasterNotFound(t *testing.T) {
	f := newFixture(testNow)
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "14:00:00")}

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		MasterID:   ptr.Ptr("master-missing"),
		Date:       "2025-10-15",
		StartTime:  "10:00",
	})
	assert.ErrorIs(t, err, ErrNoMaster)
}

func TestExecute_FreeChoice_Success(t *testing.T) {
	f := newFixture(testNow)
	f.services.services["svc-1"] = &domain.Service{
		ID: "svc-1", MasterID: "master-1", Name: "Маникюр",
		DurationMinutes: 90, IsActive: true,
	}
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "14:00:00")}

	resp, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Username:   ptr.Ptr("irina"),
		ServiceID:  ptr.Ptr("svc-1"),
		Date:       "2025-10-15",
		StartTime:  "10:30",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.KindService), resp.Kind)
	assert.Equal(t, "2025-10-15", resp.Date)
	assert.Equal(t, "10:30", resp.StartTime)
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, ptr.Ptr("Маникюр"), resp.ServiceName)

	// Карточка клиента создана и привязана к Telegram аккаунту
	require.NotNil(t, f.clients.created)
	assert.Equal(t, "Ирина", f.clients.created.Name)
	assert.Equal(t, ptr.Ptr(int64(100)), f.clients.created.TelegramID)

	require.NotNil(t, f.appointments.created)
	assert.Equal(t, domain.StatusScheduled, f.appointments.created.Status)
	assert.Equal(t, domain.SourceSelf, f.appointments.created.Source)
	assert.True(t, f.appointments.created.ReminderEnabled)
	assert.Nil(t, f.appointments.created.SlotID)
}

func TestExecute_FreeChoice_TimeNotAvailable(t *testing.T) {
	f := newFixture(testNow)
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "12:00:00")}
	f.appointments.booked = []*domain.BookedInterval{
		{AppointmentID: "appt-1", StartTime: "10:30:00", ServiceDurationMinutes: ptr.Ptr(60)},
	}

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Date:       "2025-10-15",
		StartTime:  "10:00",
	})
	assert.ErrorIs(t, err, ErrTimeNotAvailable)
}

func TestExecute_FreeChoice_ModelServiceSpillBlocksTime(t *testing.T) {
	// Услуга модельной записи длиннее слота: занята не только модельная
	// половина 10:00-10:30, но и время до 11:30 в соседнем слоте
	f := newFixture(testNow)
	modelSlot := regularSlot("slot-model", "10:00:00", "10:30:00")
	modelSlot.ForModels = true
	f.slots.slots = []*domain.AvailabilitySlot{
		modelSlot,
		regularSlot("slot-1", "10:30:00", "12:00:00"),
	}
	f.appointments.booked = []*domain.BookedInterval{
		{
			AppointmentID:          "appt-model",
			SlotID:                 ptr.Ptr("slot-model"),
			StartTime:              "10:00:00",
			ServiceDurationMinutes: ptr.Ptr(90),
		},
	}

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Date:       "2025-10-15",
		StartTime:  "10:30",
	})
	assert.ErrorIs(t, err, ErrTimeNotAvailable)
}

func TestExecute_FreeChoice_OutsideSlots(t *testing.T) {
	f := newFixture(testNow)
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "12:00:00")}

	// Сеанс 60 минут с 11:30 вылезает за конец слота
	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Date:       "2025-10-15",
		StartTime:  "11:30",
	})
	assert.ErrorIs(t, err, ErrTimeNotAvailable)
}

func TestExecute_FreeChoice_DateInPast(t *testing.T) {
	f := newFixture(testNow)

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Date:       "2025-10-01",
		StartTime:  "10:00",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_FreeChoice_TodayPastTime(t *testing.T) {
	now := time.Date(2025, 10, 15, 11, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "14:00:00")}

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Date:       "2025-10-15",
		StartTime:  "10:30",
	})
	assert.ErrorIs(t, err, ErrTimeNotAvailable)
}

func TestExecute_FreeChoice_ModelServiceRejected(t *testing.T) {
	f := newFixture(testNow)
	f.services.services["svc-model"] = &domain.Service{
		ID: "svc-model", MasterID: "master-1", Name: "Модельный маникюр",
		DurationMinutes: 120, ForModels: true, IsActive: true,
	}
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "14:00:00")}

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		ServiceID:  ptr.Ptr("svc-model"),
		Date:       "2025-10-15",
		StartTime:  "10:00",
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_FreeChoice_ExistingClientReused(t *testing.T) {
	f := newFixture(testNow)
	f.clients.byTelegramID = &domain.Client{
		ID: "client-1", MasterID: "master-1", Name: "Ирина",
		TelegramID: ptr.Ptr(int64(100)),
	}
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "14:00:00")}

	resp, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Date:       "2025-10-15",
		StartTime:  "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "client-1", resp.ClientID)
	assert.Nil(t, f.clients.created)
}

func TestExecute_FreeChoice_LinksManualClientByUsername(t *testing.T) {
	f := newFixture(testNow)
	f.clients.unlinked = []*domain.Client{
		{ID: "client-manual", MasterID: "master-1", Name: "Ирина", Username: ptr.Ptr("irina")},
	}
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "14:00:00")}

	resp, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Username:   ptr.Ptr("irina"),
		Date:       "2025-10-15",
		StartTime:  "10:00",
	})
	require.NoError(t, err)

	// Заведенная мастером карточка привязана вместо создания дубля
	assert.Equal(t, "client-manual", resp.ClientID)
	assert.Equal(t, "client-manual", f.clients.boundID)
	assert.Equal(t, int64(100), f.clients.boundTGID)
	assert.Nil(t, f.clients.created)
}

func TestExecute_FreeChoice_AmbiguousUsernameCreatesNewClient(t *testing.T) {
	f := newFixture(testNow)
	f.clients.unlinked = []*domain.Client{
		{ID: "client-a", MasterID: "master-1", Name: "Ирина А", Username: ptr.Ptr("irina")},
		{ID: "client-b", MasterID: "master-1", Name: "Ирина Б", Username: ptr.Ptr("irina")},
	}
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "14:00:00")}

	resp, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Username:   ptr.Ptr("irina"),
		Date:       "2025-10-15",
		StartTime:  "10:00",
	})
	require.NoError(t, err)

	require.NotNil(t, f.clients.created)
	assert.Equal(t, f.clients.created.ID, resp.ClientID)
	assert.Empty(t, f.clients.boundID)
}

func TestExecute_FreeChoice_CreateConflict(t *testing.T) {
	f := newFixture(testNow)
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "14:00:00")}
	f.appointments.createErr = appointmentstore.ErrTimeConflict

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		Date:       "2025-10-15",
		StartTime:  "10:00",
	})
	assert.ErrorIs(t, err, ErrTimeNotAvailable)
}

func TestExecute_ModelSlot_Success(t *testing.T) {
	f := newFixture(testNow)
	f.services.services["svc-model"] = &domain.Service{
		ID: "svc-model", MasterID: "master-1", Name: "Модельный маникюр",
		DurationMinutes: 120, ForModels: true, IsActive: true,
	}
	slot := regularSlot("slot-model", "10:00:00", "12:00:00")
	slot.ForModels = true
	slot.ServiceID = ptr.Ptr("svc-model")
	f.slots.slots = []*domain.AvailabilitySlot{slot}

	resp, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		SlotID:     ptr.Ptr("slot-model"),
		// Переданная клиентом услуга игнорируется, берется услуга слота
		ServiceID: ptr.Ptr("svc-other"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.KindModelSlot), resp.Kind)
	assert.Equal(t, ptr.Ptr("svc-model"), resp.ServiceID)
	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, "2025-10-15", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)

	require.NotNil(t, f.appointments.created)
	assert.Equal(t, ptr.Ptr("slot-model"), f.appointments.created.SlotID)
	assert.Equal(t, ptr.Ptr("svc-model"), f.appointments.created.ServiceID)
}

func TestExecute_ModelSlot_AlreadyBooked(t *testing.T) {
	f := newFixture(testNow)
	f.services.services["svc-model"] = &domain.Service{
		ID: "svc-model", DurationMinutes: 120, ForModels: true, IsActive: true,
	}
	slot := regularSlot("slot-model", "10:00:00", "12:00:00")
	slot.ForModels = true
	slot.ServiceID = ptr.Ptr("svc-model")
	f.slots.slots = []*domain.AvailabilitySlot{slot}
	f.appointments.slotTaken = true

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		SlotID:     ptr.Ptr("slot-model"),
	})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestExecute_ModelSlot_NotFound(t *testing.T) {
	f := newFixture(testNow)

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		SlotID:     ptr.Ptr("slot-missing"),
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_ModelSlot_RegularSlotRejected(t *testing.T) {
	f := newFixture(testNow)
	f.slots.slots = []*domain.AvailabilitySlot{regularSlot("slot-1", "10:00:00", "12:00:00")}

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		SlotID:     ptr.Ptr("slot-1"),
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_ModelSlot_CreateConflict(t *testing.T) {
	f := newFixture(testNow)
	f.services.services["svc-model"] = &domain.Service{
		ID: "svc-model", DurationMinutes: 120, ForModels: true, IsActive: true,
	}
	slot := regularSlot("slot-model", "10:00:00", "12:00:00")
	slot.ForModels = true
	slot.ServiceID = ptr.Ptr("svc-model")
	f.slots.slots = []*domain.AvailabilitySlot{slot}
	f.appointments.createErr = appointmentstore.ErrTimeConflict

	_, err := f.uc.Execute(context.Background(), &Request{
		TelegramID: 100,
		ClientName: "Ирина",
		SlotID:     ptr.Ptr("slot-model"),
	})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
}
