package reengagement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeClientRepo struct {
	due     []*domain.DueReengagement
	listErr error

	touchedIDs []string
	touchErr   error
}

func (f *fakeClientRepo) ListDueReengagement(_ context.Context, _ time.Time) ([]*domain.DueReengagement, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.due, nil
}

func (f *fakeClientRepo) TouchLastReminderSentAt(_ context.Context, id string) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touchedIDs = append(f.touchedIDs, id)
	return nil
}

type fakeSlotRepo struct {
	slots   []*domain.AvailabilitySlot
	listErr error

	calls   int
	filters []domain.SlotFilter
}

func (f *fakeSlotRepo) List(_ context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	f.calls++
	f.filters = append(f.filters, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.slots, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	sent       []sentMessage
	messageErr error
}

func (f *fakeNotifier) SendMessage(_ context.Context, chatID int64, text string) error {
	if f.messageErr != nil {
		return f.messageErr
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type observed struct {
	kind   string
	status string
}

type fakeMetrics struct {
	reminders []observed
}

func (f *fakeMetrics) ObserveReminder(kind, status string) {
	f.reminders = append(f.reminders, observed{kind: kind, status: status})
}

func (f *fakeMetrics) ObserveReminderTick(string, float64) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixture struct {
	clients   *fakeClientRepo
	slots     *fakeSlotRepo
	notifier  *fakeNotifier
	metrics   *fakeMetrics
	scheduler *Scheduler
}

var testNow = time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		clients:  &fakeClientRepo{},
		slots:    &fakeSlotRepo{},
		notifier: &fakeNotifier{},
		metrics:  &fakeMetrics{},
	}
	f.scheduler = NewScheduler(
		f.clients, f.slots, f.notifier, f.metrics, noopLogger{},
		"@every 24h",
	)
	f.scheduler.timeProvider = fixedTimeProvider{now: testNow}
	return f
}

func dueClient(clientID string, telegramID int64, daysSinceVisit int) *domain.DueReengagement {
	return &domain.DueReengagement{
		ClientID:   clientID,
		MasterID:   "master-1",
		Name:       "Ирина",
		TelegramID: telegramID,
		LastVisit:  testNow.AddDate(0, 0, -daysSinceVisit),
	}
}

func upcomingSlot(start string) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:          "slot-" + start,
		MasterID:    "master-1",
		Date:        time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString(start),
		EndTime:     "18:00:00",
		IsAvailable: true,
	}
}

func TestRun_SendsNudgeAndTouches(t *testing.T) {
	f := newFixture()
	f.clients.due = []*domain.DueReengagement{dueClient("client-1", 100, 15)}

	f.scheduler.Run(context.Background())

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, int64(100), f.notifier.sent[0].chatID)
	assert.Contains(t, f.notifier.sent[0].text, "Ирина")
	assert.Contains(t, f.notifier.sent[0].text, "две недели")

	assert.Equal(t, []string{"client-1"}, f.clients.touchedIDs)
	assert.Equal(t, []observed{{kind: "reengagement", status: "sent"}}, f.metrics.reminders)
	assert.Zero(t, f.slots.calls)
}

func TestRun_LongAbsenceSuggestsSlots(t *testing.T) {
	f := newFixture()
	f.clients.due = []*domain.DueReengagement{dueClient("client-1", 100, 22)}
	f.slots.slots = []*domain.AvailabilitySlot{
		upcomingSlot("10:00:00"),
		upcomingSlot("11:30:00"),
	}

	f.scheduler.Run(context.Background())

	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0].text, "трех недель")
	assert.Contains(t, f.notifier.sent[0].text, "16.10.2025 с 10:00")
	assert.Contains(t, f.notifier.sent[0].text, "16.10.2025 с 11:30")

	require.Len(t, f.slots.filters, 1)
	filter := f.slots.filters[0]
	require.NotNil(t, filter.MasterID)
	assert.Equal(t, "master-1", *filter.MasterID)
	require.NotNil(t, filter.ForModels)
	assert.False(t, *filter.ForModels)
	assert.True(t, filter.AvailableOnly)
	require.NotNil(t, filter.DateFrom)
	require.NotNil(t, filter.DateTo)
	assert.Equal(t, 14, int(filter.DateTo.Sub(*filter.DateFrom).Hours()/24))
}

func TestRun_SuggestionsCappedAtFive(t *testing.T) {
	f := newFixture()
	f.clients.due = []*domain.DueReengagement{dueClient("client-1", 100, 30)}
	for _, start := range []string{"09:00:00", "10:00:00", "11:00:00", "12:00:00", "13:00:00", "14:00:00", "15:00:00"} {
		f.slots.slots = append(f.slots.slots, upcomingSlot(start))
	}

	f.scheduler.Run(context.Background())

	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0].text, "с 13:00")
	assert.NotContains(t, f.notifier.sent[0].text, "с 14:00")
	assert.NotContains(t, f.notifier.sent[0].text, "с 15:00")
}

func TestRun_LongAbsenceWithoutSlotsStillSends(t *testing.T) {
	f := newFixture()
	f.clients.due = []*domain.DueReengagement{dueClient("client-1", 100, 25)}

	f.scheduler.Run(context.Background())

	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0].text, "Будем рады")
	assert.Equal(t, []string{"client-1"}, f.clients.touchedIDs)
}

func TestRun_SlotsFetchedOncePerMaster(t *testing.T) {
	f := newFixture()
	f.clients.due = []*domain.DueReengagement{
		dueClient("client-1", 100, 22),
		dueClient("client-2", 200, 25),
	}

	f.scheduler.Run(context.Background())

	assert.Len(t, f.notifier.sent, 2)
	assert.Equal(t, 1, f.slots.calls)
}

func TestRun_SendFailureLeavesClientDue(t *testing.T) {
	f := newFixture()
	f.clients.due = []*domain.DueReengagement{dueClient("client-1", 100, 15)}
	f.notifier.messageErr = errors.New("telegram unavailable")

	f.scheduler.Run(context.Background())

	// Отметка не тронута: клиент попадет в следующую выборку
	assert.Empty(t, f.clients.touchedIDs)
	assert.Equal(t, []observed{{kind: "reengagement", status: "error"}}, f.metrics.reminders)

	f.notifier.messageErr = nil
	f.scheduler.Run(context.Background())

	assert.Len(t, f.notifier.sent, 1)
	assert.Equal(t, []string{"client-1"}, f.clients.touchedIDs)
}

func TestRun_OneMessagePerTelegramAccount(t *testing.T) {
	f := newFixture()
	f.clients.due = []*domain.DueReengagement{
		dueClient("client-1", 100, 15),
		dueClient("client-2", 100, 16),
	}

	f.scheduler.Run(context.Background())

	assert.Len(t, f.notifier.sent, 1)
	assert.Equal(t, []string{"client-1"}, f.clients.touchedIDs)
}

func TestStart_InvalidSchedule(t *testing.T) {
	f := newFixture()
	f.scheduler.schedule = "not a cron expression"

	err := f.scheduler.Start()
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestStartStop(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.scheduler.Start())
	f.scheduler.Stop()
}
