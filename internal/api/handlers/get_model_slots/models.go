package get_model_slots

import (
	getModelSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_model_slots"
)

// ModelSlotResponse HTTP модель модельного слота
type ModelSlotResponse struct {
	SlotID        string   `json:"slotId"`
	Date          string   `json:"date"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	ServiceID     string   `json:"serviceId"`
	ServiceName   string   `json:"serviceName"`
	PriceModifier *float64 `json:"priceModifier,omitempty"`
}

// GetModelSlotsResponse HTTP модель ответа со списком модельных слотов
type GetModelSlotsResponse struct {
	Slots []ModelSlotResponse `json:"slots"`
	Total int                 `json:"total"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getModelSlots.Response) *GetModelSlotsResponse {
	slots := make([]ModelSlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, ModelSlotResponse{
			SlotID:        s.SlotID,
			Date:          s.Date,
			StartTime:     s.StartTime.String(),
			EndTime:       s.EndTime.String(),
			ServiceID:     s.ServiceID,
			ServiceName:   s.ServiceName,
			PriceModifier: s.PriceModifier,
		})
	}

	return &GetModelSlotsResponse{Slots: slots, Total: len(slots)}
}
