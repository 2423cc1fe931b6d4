package get_model_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	masterstore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/master"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeMasterRepo struct {
	master *domain.Master
	err    error
}

func (f *fakeMasterRepo) GetMaster(_ context.Context) (*domain.Master, error) {
	return f.master, f.err
}

type fakeServiceRepo struct {
	services []*domain.Service
}

func (f *fakeServiceRepo) List(_ context.Context, _ domain.ServiceFilter) ([]*domain.Service, error) {
	return f.services, nil
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
	takenSlotIDs []string
	requestedIDs []string
}

func (f *fakeAppointmentRepo) ListScheduledSlotIDs(_ context.Context, slotIDs []string) ([]string, error) {
	f.requestedIDs = slotIDs
	return f.takenSlotIDs, nil
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
	services     *fakeServiceRepo
	slots        *fakeSlotRepo
	appointments *fakeAppointmentRepo
	uc           *UseCase
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		masters: &fakeMasterRepo{master: &domain.Master{ID: "master-1", FirstName: "Аня"}},
		services: &fakeServiceRepo{services: []*domain.Service{
			{ID: "svc-model", MasterID: "master-1", Name: "Модельный маникюр", DurationMinutes: 120, ForModels: true, IsActive: true},
		}},
		slots:        &fakeSlotRepo{},
		appointments: &fakeAppointmentRepo{},
	}
	f.uc = NewUseCase(f.masters, f.services, f.slots, f.appointments, noopLogger{})
	f.uc.timeProvider = &fixedTimeProvider{now: now}
	return f
}

var testNow = time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC)

func modelSlot(id string, date time.Time, start, end string) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:          id,
		MasterID:    "master-1",
		Date:        date,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		IsAvailable: true,
		ForModels:   true,
		ServiceID:   ptr.Ptr("svc-model"),
	}
}

func TestExecute_ListsFreeModelSlots(t *testing.T) {
	f := newFixture(testNow)
	f.slots.slots = []*domain.AvailabilitySlot{
		modelSlot("slot-1", time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), "10:00:00", "12:00:00"),
	}

	resp, err := f.uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "slot-1", resp.Slots[0].SlotID)
	assert.Equal(t, "2025-10-15", resp.Slots[0].Date)
	assert.Equal(t, "svc-model", resp.Slots[0].ServiceID)
	assert.Equal(t, "Модельный маникюр", resp.Slots[0].ServiceName)
}

func TestExecute_RangePassedToRepository(t *testing.T) {
	f := newFixture(testNow)
	dateFrom := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), &Request{DateFrom: &dateFrom, DateTo: &dateTo})
	require.NoError(t, err)

	require.NotNil(t, f.slots.filter.DateFrom)
	assert.Equal(t, dateFrom, *f.slots.filter.DateFrom)
	require.NotNil(t, f.slots.filter.DateTo)
	assert.Equal(t, dateTo, *f.slots.filter.DateTo)
	assert.True(t, f.slots.filter.AvailableOnly)
}

func TestExecute_PastRangeStartClampedToToday(t *testing.T) {
	f := newFixture(testNow)
	dateFrom := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), &Request{DateFrom: &dateFrom})
	require.NoError(t, err)

	require.NotNil(t, f.slots.filter.DateFrom)
	assert.Equal(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), *f.slots.filter.DateFrom)
}

func TestExecute_ReversedRange(t *testing.T) {
	f := newFixture(testNow)
	dateFrom := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), &Request{DateFrom: &dateFrom, DateTo: &dateTo})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_TakenSlotsCheckedInOneBatch(t *testing.T) {
	f := newFixture(testNow)
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	f.slots.slots = []*domain.AvailabilitySlot{
		modelSlot("slot-1", date, "10:00:00", "12:00:00"),
		modelSlot("slot-2", date, "12:00:00", "14:00:00"),
	}
	f.appointments.takenSlotIDs = []string{"slot-1"}

	resp, err := f.uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	// Оба кандидата проверены одним запросом, занятый отсеян
	assert.Equal(t, []string{"slot-1", "slot-2"}, f.appointments.requestedIDs)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "slot-2", resp.Slots[0].SlotID)
}

func TestExecute_SkipsStartedTodayAndNoService(t *testing.T) {
	now := time.Date(2025, 10, 15, 11, 0, 0, 0, time.UTC)
	f := newFixture(now)
	today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	started := modelSlot("slot-started", today, "10:00:00", "12:00:00")
	noService := modelSlot("slot-broken", today, "14:00:00", "16:00:00")
	noService.ServiceID = nil
	upcoming := modelSlot("slot-ok", today, "15:00:00", "17:00:00")

	f.slots.slots = []*domain.AvailabilitySlot{started, noService, upcoming}

	resp, err := f.uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "slot-ok", resp.Slots[0].SlotID)
}

func TestExecute_PriceModifierCarriedOver(t *testing.T) {
	f := newFixture(testNow)
	slot := modelSlot("slot-1", time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), "10:00:00", "12:00:00")
	slot.PriceModifier = ptr.Ptr(-500.0)
	f.slots.slots = []*domain.AvailabilitySlot{slot}

	resp, err := f.uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, ptr.Ptr(-500.0), resp.Slots[0].PriceModifier)
}

func TestExecute_NoMaster(t *testing.T) {
	f := newFixture(testNow)
	f.masters.master = nil
	f.masters.err = masterstore.ErrMasterNotFound

	_, err := f.uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrNoMaster)
}
