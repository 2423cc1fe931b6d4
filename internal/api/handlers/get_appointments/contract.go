package get_appointments

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByMaster(ctx context.Context, req *models.ListByMasterRequest) (*models.AppointmentListResponse, error)
	GetByID(ctx context.Context, id string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
