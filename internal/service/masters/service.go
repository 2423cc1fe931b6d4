package masters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	masterstore "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/master"
	"github.com/m04kA/SMC-AppointmentService/internal/service/masters/models"
)

// Service сервис профиля мастера
type Service struct {
	masterRepo MasterRepository
	logger     Logger
}

// NewService создает новый сервис профиля мастера
func NewService(masterRepo MasterRepository, logger Logger) *Service {
	return &Service{
		masterRepo: masterRepo,
		logger:     logger,
	}
}

// List возвращает список мастеров
func (s *Service) List(ctx context.Context) (*models.MasterListResponse, error) {
	list, err := s.masterRepo.List(ctx)
	if err != nil {
		s.logger.Error("Masters.List - failed to list masters: %v", err)
		return nil, fmt.Errorf("%w: List: %v", ErrInternal, err)
	}

	return models.FromDomainMasterList(list), nil
}

// GetDefault возвращает основного мастера
func (s *Service) GetDefault(ctx context.Context) (*models.MasterResponse, error) {
	master, err := s.masterRepo.GetMaster(ctx)
	if err != nil {
		if errors.Is(err, masterstore.ErrMasterNotFound) {
			return nil, ErrMasterNotFound
		}
		s.logger.Error("Masters.GetDefault - failed to get master: %v", err)
		return nil, fmt.Errorf("%w: GetDefault: %v", ErrInternal, err)
	}

	return models.FromDomainMaster(master), nil
}

// UpdateDrinkOptions обновляет список напитков мастера
// Пустые строки отбрасываются, значения обрезаются по пробелам.
func (s *Service) UpdateDrinkOptions(ctx context.Context, masterID string, req *models.UpdateDrinkOptionsRequest) (*models.MasterResponse, error) {
	options := make([]string, 0, len(req.DrinkOptions))
	for _, option := range req.DrinkOptions {
		option = strings.TrimSpace(option)
		if option != "" {
			options = append(options, option)
		}
	}

	if _, err := s.masterRepo.GetByID(ctx, masterID); err != nil {
		if errors.Is(err, masterstore.ErrMasterNotFound) {
			return nil, ErrMasterNotFound
		}
		s.logger.Error("Masters.UpdateDrinkOptions - failed to get master id=%s: %v", masterID, err)
		return nil, fmt.Errorf("%w: UpdateDrinkOptions - get master: %v", ErrInternal, err)
	}

	if err := s.masterRepo.UpdateDrinkOptions(ctx, masterID, options); err != nil {
		s.logger.Error("Masters.UpdateDrinkOptions - failed to update master id=%s: %v", masterID, err)
		return nil, fmt.Errorf("%w: UpdateDrinkOptions - update: %v", ErrInternal, err)
	}

	master, err := s.masterRepo.GetByID(ctx, masterID)
	if err != nil {
		s.logger.Error("Masters.UpdateDrinkOptions - failed to reload master id=%s: %v", masterID, err)
		return nil, fmt.Errorf("%w: UpdateDrinkOptions - reload: %v", ErrInternal, err)
	}

	s.logger.Info("Masters.UpdateDrinkOptions - updated master id=%s, options=%d", masterID, len(options))
	return models.FromDomainMaster(master), nil
}
