package manage_services

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

type CatalogService interface {
	Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
	Update(ctx context.Context, id string, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
