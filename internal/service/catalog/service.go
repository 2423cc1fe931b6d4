package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// Service сервис каталога услуг мастера
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Create создает услугу
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: master=%s, name=%s, forModels=%t", req.MasterID, req.Name, req.ForModels)

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	svc := &domain.Service{
		ID:              uuid.NewString(),
		MasterID:        req.MasterID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		ForModels:       req.ForModels,
		IsActive:        true,
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		s.logger.Error("Create: repository error for master=%s: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created service id=%s", created.ID)
	return models.FromDomainService(created), nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.ServiceResponse, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(svc), nil
}

// List получает услуги с фильтрацией
func (s *Service) List(ctx context.Context, req *models.ListServicesRequest) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.List(ctx, domain.ServiceFilter{
		MasterID:   req.MasterID,
		ForModels:  req.ForModels,
		ActiveOnly: req.ActiveOnly,
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// Update изменяет услугу
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: service id=%s", id)

	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		svc.Price = req.Price
	}
	if req.ForModels != nil {
		svc.ForModels = *req.ForModels
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: update failed for service id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - update: %v", ErrInternal, err)
	}

	s.logger.Info("Update: updated service id=%s", id)
	return models.FromDomainService(svc), nil
}

// Deactivate скрывает услугу из каталога
// История записей на услугу сохраняется.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	s.logger.Info("Deactivate: service id=%s", id)

	if err := s.serviceRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("Deactivate: failed for service id=%s: %v", id, err)
		return fmt.Errorf("%w: Deactivate - update: %v", ErrInternal, err)
	}

	return nil
}
