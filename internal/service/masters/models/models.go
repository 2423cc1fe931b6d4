package models

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Request модели

// UpdateDrinkOptionsRequest запрос на изменение списка напитков мастера
type UpdateDrinkOptionsRequest struct {
	DrinkOptions []string `json:"drinkOptions"`
}

// Response модели

// MasterResponse ответ с данными мастера
type MasterResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Username     *string  `json:"username,omitempty"`
	DrinkOptions []string `json:"drinkOptions"`
}

// MasterListResponse ответ со списком мастеров
type MasterListResponse struct {
	Masters []*MasterResponse `json:"masters"`
	Total   int               `json:"total"`
}

// FromDomainMaster конвертирует domain мастера в response
func FromDomainMaster(m *domain.Master) *MasterResponse {
	options := m.DrinkOptions
	if options == nil {
		options = []string{}
	}

	return &MasterResponse{
		ID:           m.ID,
		Name:         m.DisplayName(),
		Username:     m.Username,
		DrinkOptions: options,
	}
}

// FromDomainMasterList конвертирует список domain мастеров в response
func FromDomainMasterList(list []*domain.Master) *MasterListResponse {
	items := make([]*MasterResponse, 0, len(list))
	for _, m := range list {
		items = append(items, FromDomainMaster(m))
	}
	return &MasterListResponse{Masters: items, Total: len(items)}
}
