package get_free_windows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	masterstore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/master"
	servicestore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
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

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _ string) (*domain.Service, error) {
	return f.service, f.err
}

type fakeSlotRepo struct {
	slots  []*domain.AvailabilitySlot
	filter domain.SlotFilter
}

func (f *fakeSlotRepo) List(_ context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	f.filter = filter
	result := make([]*domain.AvailabilitySlot, 0, len(f.slots))
	for _, slot := range f.slots {
		if filter.DateFrom != nil && slot.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && slot.Date.After(*filter.DateTo) {
			continue
		}
		result = append(result, slot)
	}
	return result, nil
}

type fakeAppointmentRepo struct {
	booked []*domain.BookedInterval
}

func (f *fakeAppointmentRepo) ListBookedIntervals(_ context.Context, _ string, _ time.Time) ([]*domain.BookedInterval, error) {
	return f.booked, nil
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

func newTestUseCase(
	masters MasterRepository,
	services ServiceRepository,
	slots SlotRepository,
	appointments AppointmentRepository,
	now time.Time,
) *UseCase {
	uc := NewUseCase(masters, services, slots, appointments, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func TestExecute_DateRequired(t *testing.T) {
	uc := newTestUseCase(
		&fakeMasterRepo{}, &fakeServiceRepo{}, &fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_DateInPast(t *testing.T) {
	uc := newTestUseCase(
		&fakeMasterRepo{}, &fakeServiceRepo{}, &fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.Execute(context.Background(), &Request{
		Date: time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_NoMaster(t *testing.T) {
	uc := newTestUseCase(
		&fakeMasterRepo{err: masterstore.ErrMasterNotFound},
		&fakeServiceRepo{}, &fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.Execute(context.Background(), &Request{
		Date: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrNoMaster)
}

func TestExecute_ExplicitMasterUsed(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	slotRepo := &fakeSlotRepo{
		slots: []*domain.AvailabilitySlot{
			{
				ID:          "slot-1",
				MasterID:    "master-2",
				Date:        date,
				StartTime:   "10:00:00",
				EndTime:     "11:00:00",
				IsAvailable: true,
			},
		},
	}

	uc := newTestUseCase(
		&fakeMasterRepo{
			master: &domain.Master{ID: "master-1", FirstName: "Аня"},
			byID:   map[string]*domain.Master{"master-2": {ID: "master-2", FirstName: "Катя"}},
		},
		&fakeServiceRepo{}, slotRepo, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	resp, err := uc.Execute(context.Background(), &Request{
		MasterID: ptr.Ptr("master-2"),
		Date:     date,
	})
	require.NoError(t, err)

	require.Len(t, resp.Windows, 1)
	require.NotNil(t, slotRepo.filter.MasterID)
	assert.Equal(t, "master-2", *slotRepo.filter.MasterID)
}

func TestExecute_ExplicitMasterNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeMasterRepo{master: &domain.Master{ID: "master-1", FirstName: "Аня"}},
		&fakeServiceRepo{}, &fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.Execute(context.Background(), &Request{
		MasterID: ptr.Ptr("master-missing"),
		Date:     time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrNoMaster)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeMasterRepo{master: &domain.Master{ID: "master-1", FirstName: "Аня"}},
		&fakeServiceRepo{err: servicestore.ErrServiceNotFound},
		&fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: ptr.Ptr("svc-missing"),
		Date:      time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_DefaultDurationWithoutService(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	slotRepo := &fakeSlotRepo{
		slots: []*domain.AvailabilitySlot{
			{
				ID:          "slot-1",
				MasterID:    "master-1",
				Date:        date,
				StartTime:   "10:00:00",
				EndTime:     "12:00:00",
				IsAvailable: true,
			},
		},
	}

	uc := newTestUseCase(
		&fakeMasterRepo{master: &domain.Master{ID: "master-1", FirstName: "Аня"}},
		&fakeServiceRepo{}, slotRepo, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	resp, err := uc.Execute(context.Background(), &Request{Date: date})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultServiceDurationMinutes, resp.DurationMinutes)
	require.Len(t, resp.Windows, 3)
	assert.Equal(t, types.TimeString("10:00:00"), resp.Windows[0].StartTime)

	// Репозиторию слотов передается фильтр только по доступным слотам мастера
	require.NotNil(t, slotRepo.filter.MasterID)
	assert.Equal(t, "master-1", *slotRepo.filter.MasterID)
	assert.True(t, slotRepo.filter.AvailableOnly)
}

func TestExecute_ServiceDurationUsed(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(
		&fakeMasterRepo{master: &domain.Master{ID: "master-1", FirstName: "Аня"}},
		&fakeServiceRepo{service: &domain.Service{ID: "svc-1", DurationMinutes: 90, IsActive: true}},
		&fakeSlotRepo{
			slots: []*domain.AvailabilitySlot{
				{
					ID:          "slot-1",
					MasterID:    "master-1",
					Date:        date,
					StartTime:   "10:00:00",
					EndTime:     "12:00:00",
					IsAvailable: true,
				},
			},
		},
		&fakeAppointmentRepo{
			booked: []*domain.BookedInterval{
				{
					AppointmentID:          "appt-1",
					StartTime:              "11:00:00",
					ServiceDurationMinutes: ptr.Ptr(60),
				},
			},
		},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: ptr.Ptr("svc-1"),
		Date:      date,
	})
	require.NoError(t, err)

	assert.Equal(t, 90, resp.DurationMinutes)
	// 90-минутный сеанс не помещается ни до записи 11:00, ни после нее
	assert.Empty(t, resp.Windows)
}

func TestExecuteRange_PerDayWindows(t *testing.T) {
	day1 := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeMasterRepo{master: &domain.Master{ID: "master-1", FirstName: "Аня"}},
		&fakeServiceRepo{},
		&fakeSlotRepo{
			slots: []*domain.AvailabilitySlot{
				{
					ID:          "slot-1",
					MasterID:    "master-1",
					Date:        day1,
					StartTime:   "10:00:00",
					EndTime:     "11:00:00",
					IsAvailable: true,
				},
				{
					ID:          "slot-2",
					MasterID:    "master-1",
					Date:        day2,
					StartTime:   "10:00:00",
					EndTime:     "12:00:00",
					IsAvailable: true,
				},
			},
		},
		&fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	resp, err := uc.ExecuteRange(context.Background(), &RangeRequest{
		DateFrom: day1,
		DateTo:   day2,
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 2)
	assert.Equal(t, day1, resp.Days[0].Date)
	assert.Equal(t, day2, resp.Days[1].Date)

	// На первый день помещается один сеанс, на второй три
	require.Len(t, resp.Days[0].Windows, 1)
	assert.Equal(t, "slot-1", resp.Days[0].Windows[0].SlotID)
	require.Len(t, resp.Days[1].Windows, 3)
	assert.Equal(t, "slot-2", resp.Days[1].Windows[0].SlotID)
}

func TestExecuteRange_SingleDay(t *testing.T) {
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(
		&fakeMasterRepo{master: &domain.Master{ID: "master-1", FirstName: "Аня"}},
		&fakeServiceRepo{}, &fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	resp, err := uc.ExecuteRange(context.Background(), &RangeRequest{
		DateFrom: day,
		DateTo:   day,
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 1)
	assert.Empty(t, resp.Days[0].Windows)
}

func TestExecuteRange_ReversedRange(t *testing.T) {
	uc := newTestUseCase(
		&fakeMasterRepo{}, &fakeServiceRepo{}, &fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.ExecuteRange(context.Background(), &RangeRequest{
		DateFrom: time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecuteRange_TooLong(t *testing.T) {
	uc := newTestUseCase(
		&fakeMasterRepo{}, &fakeServiceRepo{}, &fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.ExecuteRange(context.Background(), &RangeRequest{
		DateFrom: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecuteRange_StartInPast(t *testing.T) {
	uc := newTestUseCase(
		&fakeMasterRepo{}, &fakeServiceRepo{}, &fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.ExecuteRange(context.Background(), &RangeRequest{
		DateFrom: time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InternalErrorWrapped(t *testing.T) {
	uc := newTestUseCase(
		&fakeMasterRepo{err: errors.New("connection refused")},
		&fakeServiceRepo{}, &fakeSlotRepo{}, &fakeAppointmentRepo{},
		time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC),
	)

	_, err := uc.Execute(context.Background(), &Request{
		Date: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInternal)
}
