package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// CreateSlotRequest запрос на создание слота доступности
type CreateSlotRequest struct {
	MasterID      string   `json:"masterId"`
	Date          string   `json:"date"`      // "2025-10-15"
	StartTime     string   `json:"startTime"` // "10:00"
	EndTime       string   `json:"endTime"`   // "14:00"
	ForModels     bool     `json:"forModels,omitempty"`
	ServiceID     *string  `json:"serviceId,omitempty"`
	PriceModifier *float64 `json:"priceModifier,omitempty"`
}

// UpdateSlotRequest запрос на изменение слота
type UpdateSlotRequest struct {
	Date          *string  `json:"date,omitempty"`
	StartTime     *string  `json:"startTime,omitempty"`
	EndTime       *string  `json:"endTime,omitempty"`
	IsAvailable   *bool    `json:"isAvailable,omitempty"`
	PriceModifier *float64 `json:"priceModifier,omitempty"`
}

// ListSlotsRequest запрос на получение слотов мастера
type ListSlotsRequest struct {
	MasterID      string
	DateFrom      *time.Time
	DateTo        *time.Time
	ForModels     *bool
	AvailableOnly bool
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID            string   `json:"id"`
	MasterID      string   `json:"masterId"`
	Date          string   `json:"date"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	IsAvailable   bool     `json:"isAvailable"`
	ForModels     bool     `json:"forModels"`
	ServiceID     *string  `json:"serviceId,omitempty"`
	PriceModifier *float64 `json:"priceModifier,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []*SlotResponse `json:"slots"`
	Total int             `json:"total"`
}

// FromDomainSlot конвертирует domain слот в response
func FromDomainSlot(s *domain.AvailabilitySlot) *SlotResponse {
	return &SlotResponse{
		ID:            s.ID,
		MasterID:      s.MasterID,
		Date:          s.Date.Format(domain.DateFormat),
		StartTime:     s.StartTime.String(),
		EndTime:       s.EndTime.String(),
		IsAvailable:   s.IsAvailable,
		ForModels:     s.ForModels,
		ServiceID:     s.ServiceID,
		PriceModifier: s.PriceModifier,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainSlotList конвертирует список domain слотов в response
func FromDomainSlotList(slots []*domain.AvailabilitySlot) *SlotListResponse {
	items := make([]*SlotResponse, 0, len(slots))
	for _, s := range slots {
		items = append(items, FromDomainSlot(s))
	}
	return &SlotListResponse{Slots: items, Total: len(items)}
}
