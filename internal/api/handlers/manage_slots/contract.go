package manage_slots

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error)
	GetSlot(ctx context.Context, id string) (*models.SlotResponse, error)
	ListSlots(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error)
	UpdateSlot(ctx context.Context, id string, req *models.UpdateSlotRequest) (*models.SlotResponse, error)
	DeleteSlot(ctx context.Context, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
