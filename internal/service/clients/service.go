package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	"github.com/m04kA/SMC-AppointmentService/internal/service/clients/models"
)

// Service сервис CRM клиентов мастера
// Мастер может завести клиента вручную до того, как тот откроет mini-app;
// при первой записи такая карточка привязывается к Telegram аккаунту.
type Service struct {
	clientRepo ClientRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, logger Logger) *Service {
	return &Service{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// Create создает карточку клиента
func (s *Service) Create(ctx context.Context, req *models.CreateClientRequest) (*models.ClientResponse, error) {
	s.logger.Info("Create: master=%s, name=%s", req.MasterID, req.Name)

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	c := &domain.Client{
		ID:       uuid.NewString(),
		MasterID: req.MasterID,
		Name:     strings.TrimSpace(req.Name),
		Username: req.Username,
		Phone:    req.Phone,
		Notes:    req.Notes,
	}

	created, err := s.clientRepo.Create(ctx, c)
	if err != nil {
		s.logger.Error("Create: repository error for master=%s: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created client id=%s", created.ID)
	return models.FromDomainClient(created), nil
}

// GetByID получает карточку клиента по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.ClientResponse, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("GetByID: repository error for client id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClient(c), nil
}

// List получает клиентов мастера с поиском по имени, username и телефону
func (s *Service) List(ctx context.Context, req *models.ListClientsRequest) (*models.ClientListResponse, error) {
	clientsList, err := s.clientRepo.List(ctx, domain.ClientFilter{
		MasterID: &req.MasterID,
		Search:   req.Search,
	})
	if err != nil {
		s.logger.Error("List: repository error for master=%s: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClientList(clientsList), nil
}

// Update изменяет карточку клиента
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateClientRequest) (*models.ClientResponse, error) {
	s.logger.Info("Update: client id=%s", id)

	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("Update: repository error for client id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil {
		c.Username = req.Username
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}

	if err := s.clientRepo.Update(ctx, c); err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("Update: update failed for client id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - update: %v", ErrInternal, err)
	}

	s.logger.Info("Update: updated client id=%s", id)
	return models.FromDomainClient(c), nil
}

// Delete удаляет карточку клиента
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info("Delete: client id=%s", id)

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			return ErrClientNotFound
		}
		s.logger.Error("Delete: failed for client id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - delete: %v", ErrInternal, err)
	}

	return nil
}
