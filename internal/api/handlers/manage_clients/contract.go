package manage_clients

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/clients/models"
)

type ClientService interface {
	Create(ctx context.Context, req *models.CreateClientRequest) (*models.ClientResponse, error)
	GetByID(ctx context.Context, id string) (*models.ClientResponse, error)
	List(ctx context.Context, req *models.ListClientsRequest) (*models.ClientListResponse, error)
	Update(ctx context.Context, id string, req *models.UpdateClientRequest) (*models.ClientResponse, error)
	Delete(ctx context.Context, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
