package update_drink_options

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/masters/models"
)

type MasterService interface {
	UpdateDrinkOptions(ctx context.Context, masterID string, req *models.UpdateDrinkOptionsRequest) (*models.MasterResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
