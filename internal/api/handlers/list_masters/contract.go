package list_masters

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/masters/models"
)

type MasterService interface {
	List(ctx context.Context) (*models.MasterListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
