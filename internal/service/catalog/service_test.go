package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	servicestore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeServiceRepo struct {
	services map[string]*domain.Service

	lastFilter    domain.ServiceFilter
	deactivatedID string
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: map[string]*domain.Service{}}
}

func (f *fakeServiceRepo) Create(_ context.Context, svc *domain.Service) (*domain.Service, error) {
	f.services[svc.ID] = svc
	return svc, nil
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	if svc, ok := f.services[id]; ok {
		return svc, nil
	}
	return nil, servicestore.ErrServiceNotFound
}

func (f *fakeServiceRepo) List(_ context.Context, filter domain.ServiceFilter) ([]*domain.Service, error) {
	f.lastFilter = filter
	result := make([]*domain.Service, 0, len(f.services))
	for _, svc := range f.services {
		if filter.ActiveOnly && !svc.IsActive {
			continue
		}
		result = append(result, svc)
	}
	return result, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, svc *domain.Service) error {
	if _, ok := f.services[svc.ID]; !ok {
		return servicestore.ErrServiceNotFound
	}
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeServiceRepo) Deactivate(_ context.Context, id string) error {
	svc, ok := f.services[id]
	if !ok {
		return servicestore.ErrServiceNotFound
	}
	svc.IsActive = false
	f.deactivatedID = id
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestCreate_Success(t *testing.T) {
	repo := newFakeServiceRepo()
	svc := NewService(repo, noopLogger{})

	resp, err := svc.Create(context.Background(), &models.CreateServiceRequest{
		MasterID:        "master-1",
		Name:            "  Маникюр  ",
		DurationMinutes: 90,
		Price:           ptr.Ptr(2500.0),
	})
	require.NoError(t, err)

	assert.Equal(t, "Маникюр", resp.Name)
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.True(t, resp.IsActive)
	assert.Len(t, repo.services, 1)
}

func TestCreate_Validation(t *testing.T) {
	repo := newFakeServiceRepo()
	svc := NewService(repo, noopLogger{})

	tests := []struct {
		name string
		req  *models.CreateServiceRequest
	}{
		{name: "empty name", req: &models.CreateServiceRequest{MasterID: "master-1", Name: "  ", DurationMinutes: 60}},
		{name: "zero duration", req: &models.CreateServiceRequest{MasterID: "master-1", Name: "Маникюр"}},
		{name: "negative duration", req: &models.CreateServiceRequest{MasterID: "master-1", Name: "Маникюр", DurationMinutes: -30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(newFakeServiceRepo(), noopLogger{})

	_, err := svc.GetByID(context.Background(), "svc-missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestList_ActiveOnly(t *testing.T) {
	repo := newFakeServiceRepo()
	repo.services["svc-1"] = &domain.Service{ID: "svc-1", Name: "Маникюр", DurationMinutes: 60, IsActive: true}
	repo.services["svc-2"] = &domain.Service{ID: "svc-2", Name: "Старая услуга", DurationMinutes: 60}
	svc := NewService(repo, noopLogger{})

	resp, err := svc.List(context.Background(), &models.ListServicesRequest{ActiveOnly: true})
	require.NoError(t, err)

	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "svc-1", resp.Services[0].ID)
	assert.True(t, repo.lastFilter.ActiveOnly)
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := newFakeServiceRepo()
	repo.services["svc-1"] = &domain.Service{
		ID: "svc-1", MasterID: "master-1", Name: "Маникюр",
		DurationMinutes: 60, Price: ptr.Ptr(2000.0), IsActive: true,
	}
	svc := NewService(repo, noopLogger{})

	resp, err := svc.Update(context.Background(), "svc-1", &models.UpdateServiceRequest{
		DurationMinutes: ptr.Ptr(90),
		Price:           ptr.Ptr(2500.0),
	})
	require.NoError(t, err)

	assert.Equal(t, "Маникюр", resp.Name)
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, ptr.Ptr(2500.0), resp.Price)
}

func TestUpdate_InvalidDuration(t *testing.T) {
	repo := newFakeServiceRepo()
	repo.services["svc-1"] = &domain.Service{ID: "svc-1", Name: "Маникюр", DurationMinutes: 60, IsActive: true}
	svc := NewService(repo, noopLogger{})

	_, err := svc.Update(context.Background(), "svc-1", &models.UpdateServiceRequest{
		DurationMinutes: ptr.Ptr(0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newFakeServiceRepo(), noopLogger{})

	_, err := svc.Update(context.Background(), "svc-missing", &models.UpdateServiceRequest{
		Name: ptr.Ptr("Новое имя"),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestDeactivate_KeepsRecord(t *testing.T) {
	repo := newFakeServiceRepo()
	repo.services["svc-1"] = &domain.Service{ID: "svc-1", Name: "Маникюр", DurationMinutes: 60, IsActive: true}
	svc := NewService(repo, noopLogger{})

	err := svc.Deactivate(context.Background(), "svc-1")
	require.NoError(t, err)

	// Услуга скрыта, но запись не удалена
	assert.Equal(t, "svc-1", repo.deactivatedID)
	require.Contains(t, repo.services, "svc-1")
	assert.False(t, repo.services["svc-1"].IsActive)
}

func TestDeactivate_NotFound(t *testing.T) {
	svc := NewService(newFakeServiceRepo(), noopLogger{})

	err := svc.Deactivate(context.Background(), "svc-missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
