package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	servicestore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	slotstore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeSlotRepo struct {
	slots map[string]*domain.AvailabilitySlot

	deletedID string
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: map[string]*domain.AvailabilitySlot{}}
}

func (f *fakeSlotRepo) Create(_ context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	f.slots[slot.ID] = slot
	return slot, nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id string) (*domain.AvailabilitySlot, error) {
	if slot, ok := f.slots[id]; ok {
		return slot, nil
	}
	return nil, slotstore.ErrSlotNotFound
}

func (f *fakeSlotRepo) List(_ context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error) {
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

func (f *fakeSlotRepo) Update(_ context.Context, slot *domain.AvailabilitySlot) error {
	f.slots[slot.ID] = slot
	return nil
}

func (f *fakeSlotRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.slots[id]; !ok {
		return slotstore.ErrSlotNotFound
	}
	delete(f.slots, id)
	f.deletedID = id
	return nil
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

type fakeAppointmentRepo struct {
	detachedSlotID string
}

func (f *fakeAppointmentRepo) ExistsScheduledBySlotID(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (f *fakeAppointmentRepo) DetachFromSlot(_ context.Context, slotID string) error {
	f.detachedSlotID = slotID
	return nil
}

type fakeClientRepo struct{}

func (fakeClientRepo) ListTelegramIDs(_ context.Context, _ string) ([]int64, error) {
	return nil, nil
}

type fakeNotifier struct{}

func (fakeNotifier) SendBroadcast(_ context.Context, chatIDs []int64, _ string) int {
	return len(chatIDs)
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

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixture struct {
	slots        *fakeSlotRepo
	services     *fakeServiceRepo
	appointments *fakeAppointmentRepo
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		slots:        newFakeSlotRepo(),
		services:     &fakeServiceRepo{services: map[string]*domain.Service{}},
		appointments: &fakeAppointmentRepo{},
	}
	f.svc = NewService(
		f.slots, f.services, f.appointments, fakeClientRepo{},
		fakeNotifier{}, fakeTxManager{}, noopLogger{},
	)
	return f
}

func existingSlot(id, date, start, end string) *domain.AvailabilitySlot {
	day, _ := time.Parse(domain.DateFormat, date)
	return &domain.AvailabilitySlot{
		ID:          id,
		MasterID:    "master-1",
		Date:        day,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		IsAvailable: true,
	}
}

func TestCreateSlot_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		MasterID:  "master-1",
		Date:      "2025-10-15",
		StartTime: "10:00",
		EndTime:   "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-10-15", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "14:00", resp.EndTime)
	assert.True(t, resp.IsAvailable)
	assert.Len(t, f.slots.slots, 1)
}

func TestCreateSlot_InvalidInterval(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{name: "start equals end", start: "10:00", end: "10:00", wantErr: ErrInvalidInterval},
		{name: "start after end", start: "14:00", end: "10:00", wantErr: ErrInvalidInterval},
		{name: "bad start time", start: "25:00", end: "14:00", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
				MasterID:  "master-1",
				Date:      "2025-10-15",
				StartTime: tt.start,
				EndTime:   tt.end,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateSlot_InvalidDate(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		MasterID:  "master-1",
		Date:      "15.10.2025",
		StartTime: "10:00",
		EndTime:   "14:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateSlot_Overlap(t *testing.T) {
	f := newFixture()
	f.slots.slots["slot-1"] = existingSlot("slot-1", "2025-10-15", "10:00:00", "12:00:00")

	_, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		MasterID:  "master-1",
		Date:      "2025-10-15",
		StartTime: "11:00",
		EndTime:   "13:00",
	})
	assert.ErrorIs(t, err, ErrSlotOverlap)
}

func TestCreateSlot_TouchingSlotsAllowed(t *testing.T) {
	f := newFixture()
	f.slots.slots["slot-1"] = existingSlot("slot-1", "2025-10-15", "10:00:00", "12:00:00")

	_, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		MasterID:  "master-1",
		Date:      "2025-10-15",
		StartTime: "12:00",
		EndTime:   "14:00",
	})
	assert.NoError(t, err)
}

func TestCreateSlot_ModelRequiresService(t *testing.T) {
	f := newFixture()
	f.services.services["svc-regular"] = &domain.Service{
		ID: "svc-regular", MasterID: "master-1", Name: "Маникюр", DurationMinutes: 60, IsActive: true,
	}
	f.services.services["svc-foreign"] = &domain.Service{
		ID: "svc-foreign", MasterID: "master-2", Name: "Чужая", DurationMinutes: 60, ForModels: true, IsActive: true,
	}

	tests := []struct {
		name      string
		serviceID *string
		wantErr   error
	}{
		{name: "no service", serviceID: nil, wantErr: ErrModelServiceRequired},
		{name: "unknown service", serviceID: ptr.Ptr("svc-missing"), wantErr: ErrServiceNotFound},
		{name: "not a model service", serviceID: ptr.Ptr("svc-regular"), wantErr: ErrModelServiceRequired},
		{name: "another master's service", serviceID: ptr.Ptr("svc-foreign"), wantErr: ErrModelServiceRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
				MasterID:  "master-1",
				Date:      "2025-10-15",
				StartTime: "10:00",
				EndTime:   "12:00",
				ForModels: true,
				ServiceID: tt.serviceID,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateSlot_ModelWithProperService(t *testing.T) {
	f := newFixture()
	f.services.services["svc-model"] = &domain.Service{
		ID: "svc-model", MasterID: "master-1", Name: "Модельный маникюр",
		DurationMinutes: 120, ForModels: true, IsActive: true,
	}

	resp, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		MasterID:  "master-1",
		Date:      "2025-10-15",
		StartTime: "10:00",
		EndTime:   "12:00",
		ForModels: true,
		ServiceID: ptr.Ptr("svc-model"),
	})
	require.NoError(t, err)

	assert.True(t, resp.ForModels)
	assert.Equal(t, ptr.Ptr("svc-model"), resp.ServiceID)
}

func TestUpdateSlot_ExcludesSelfFromOverlapCheck(t *testing.T) {
	f := newFixture()
	f.slots.slots["slot-1"] = existingSlot("slot-1", "2025-10-15", "10:00:00", "12:00:00")

	resp, err := f.svc.UpdateSlot(context.Background(), "slot-1", &models.UpdateSlotRequest{
		EndTime: ptr.Ptr("13:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "13:00", resp.EndTime)
}

func TestUpdateSlot_OverlapWithSibling(t *testing.T) {
	f := newFixture()
	f.slots.slots["slot-1"] = existingSlot("slot-1", "2025-10-15", "10:00:00", "12:00:00")
	f.slots.slots["slot-2"] = existingSlot("slot-2", "2025-10-15", "12:00:00", "14:00:00")

	_, err := f.svc.UpdateSlot(context.Background(), "slot-1", &models.UpdateSlotRequest{
		EndTime: ptr.Ptr("12:30"),
	})
	assert.ErrorIs(t, err, ErrSlotOverlap)
}

func TestUpdateSlot_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateSlot(context.Background(), "slot-missing", &models.UpdateSlotRequest{
		EndTime: ptr.Ptr("13:00"),
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestUpdateSlot_InvalidInterval(t *testing.T) {
	f := newFixture()
	f.slots.slots["slot-1"] = existingSlot("slot-1", "2025-10-15", "10:00:00", "12:00:00")

	_, err := f.svc.UpdateSlot(context.Background(), "slot-1", &models.UpdateSlotRequest{
		StartTime: ptr.Ptr("12:30"),
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestDeleteSlot_DetachesAppointments(t *testing.T) {
	f := newFixture()
	f.slots.slots["slot-1"] = existingSlot("slot-1", "2025-10-15", "10:00:00", "12:00:00")

	err := f.svc.DeleteSlot(context.Background(), "slot-1")
	require.NoError(t, err)

	// Записи, ссылавшиеся на слот, откреплены до удаления
	assert.Equal(t, "slot-1", f.appointments.detachedSlotID)
	assert.Equal(t, "slot-1", f.slots.deletedID)
}

func TestDeleteSlot_NotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.DeleteSlot(context.Background(), "slot-missing")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

type broadcastClientRepo struct{}

func (broadcastClientRepo) ListTelegramIDs(_ context.Context, _ string) ([]int64, error) {
	return []int64{100, 200}, nil
}

type broadcastRecorder struct {
	ch chan []int64
}

func (b *broadcastRecorder) SendBroadcast(_ context.Context, chatIDs []int64, _ string) int {
	b.ch <- chatIDs
	return len(chatIDs)
}

func TestCreateSlot_DiscountBroadcast(t *testing.T) {
	recorder := &broadcastRecorder{ch: make(chan []int64, 1)}
	svc := NewService(
		newFakeSlotRepo(), &fakeServiceRepo{}, &fakeAppointmentRepo{},
		broadcastClientRepo{}, recorder, fakeTxManager{}, noopLogger{},
	)

	_, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		MasterID:      "master-1",
		Date:          "2025-10-15",
		StartTime:     "10:00",
		EndTime:       "14:00",
		PriceModifier: ptr.Ptr(-500.0),
	})
	require.NoError(t, err)

	select {
	case chatIDs := <-recorder.ch:
		assert.Equal(t, []int64{100, 200}, chatIDs)
	case <-time.After(time.Second):
		t.Fatal("discount broadcast was not sent")
	}
}

func TestUpdateSlot_NewDiscountBroadcast(t *testing.T) {
	slots := newFakeSlotRepo()
	slots.slots["slot-1"] = existingSlot("slot-1", "2025-10-15", "10:00:00", "14:00:00")

	recorder := &broadcastRecorder{ch: make(chan []int64, 1)}
	svc := NewService(
		slots, &fakeServiceRepo{}, &fakeAppointmentRepo{},
		broadcastClientRepo{}, recorder, fakeTxManager{}, noopLogger{},
	)

	_, err := svc.UpdateSlot(context.Background(), "slot-1", &models.UpdateSlotRequest{
		PriceModifier: ptr.Ptr(-300.0),
	})
	require.NoError(t, err)

	select {
	case <-recorder.ch:
	case <-time.After(time.Second):
		t.Fatal("discount broadcast was not sent")
	}

	// Повторное изменение уже скидочного слота анонс не дублирует
	_, err = svc.UpdateSlot(context.Background(), "slot-1", &models.UpdateSlotRequest{
		EndTime: ptr.Ptr("15:00"),
	})
	require.NoError(t, err)

	select {
	case <-recorder.ch:
		t.Fatal("broadcast sent again for an already discounted slot")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListSlots_FiltersByDate(t *testing.T) {
	f := newFixture()
	f.slots.slots["slot-1"] = existingSlot("slot-1", "2025-10-15", "10:00:00", "12:00:00")
	f.slots.slots["slot-2"] = existingSlot("slot-2", "2025-10-16", "10:00:00", "12:00:00")

	day, _ := time.Parse(domain.DateFormat, "2025-10-15")
	resp, err := f.svc.ListSlots(context.Background(), &models.ListSlotsRequest{
		MasterID: "master-1",
		DateFrom: &day,
		DateTo:   &day,
	})
	require.NoError(t, err)

	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "slot-1", resp.Slots[0].ID)
}
