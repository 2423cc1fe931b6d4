package get_model_slots

import (
	"context"

	getModelSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_model_slots"
)

type GetModelSlotsUseCase interface {
	Execute(ctx context.Context, req *getModelSlots.Request) (*getModelSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
