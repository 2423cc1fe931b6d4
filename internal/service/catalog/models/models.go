package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	MasterID        string   `json:"masterId"`
	Name            string   `json:"name"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           *float64 `json:"price,omitempty"`
	ForModels       bool     `json:"forModels,omitempty"`
}

// UpdateServiceRequest запрос на изменение услуги
type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	ForModels       *bool    `json:"forModels,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

// ListServicesRequest запрос на получение услуг
type ListServicesRequest struct {
	MasterID   *string
	ForModels  *bool
	ActiveOnly bool
}

// Response модели

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              string   `json:"id"`
	MasterID        string   `json:"masterId"`
	Name            string   `json:"name"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           *float64 `json:"price,omitempty"`
	ForModels       bool     `json:"forModels"`
	IsActive        bool     `json:"isActive"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []*ServiceResponse `json:"services"`
	Total    int                `json:"total"`
}

// FromDomainService конвертирует domain услугу в response
func FromDomainService(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		MasterID:        s.MasterID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		ForModels:       s.ForModels,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       s.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainServiceList конвертирует список domain услуг в response
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	items := make([]*ServiceResponse, 0, len(services))
	for _, s := range services {
		items = append(items, FromDomainService(s))
	}
	return &ServiceListResponse{Services: items, Total: len(items)}
}
