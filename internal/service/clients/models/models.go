package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// CreateClientRequest запрос на создание записи клиента в CRM
type CreateClientRequest struct {
	MasterID string  `json:"masterId"`
	Name     string  `json:"name"`
	Username *string `json:"username,omitempty"` // Telegram username для последующей привязки
	Phone    *string `json:"phone,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdateClientRequest запрос на изменение записи клиента
type UpdateClientRequest struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// ListClientsRequest запрос на получение клиентов мастера
type ListClientsRequest struct {
	MasterID string
	Search   *string
}

// Response модели

// ClientResponse ответ с данными клиента
type ClientResponse struct {
	ID         string  `json:"id"`
	MasterID   string  `json:"masterId"`
	Name       string  `json:"name"`
	TelegramID *int64  `json:"telegramId,omitempty"`
	Username   *string `json:"username,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	IsLinked   bool    `json:"isLinked"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// ClientListResponse ответ со списком клиентов
type ClientListResponse struct {
	Clients []*ClientResponse `json:"clients"`
	Total   int               `json:"total"`
}

// FromDomainClient конвертирует domain клиента в response
func FromDomainClient(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:         c.ID,
		MasterID:   c.MasterID,
		Name:       c.Name,
		TelegramID: c.TelegramID,
		Username:   c.Username,
		Phone:      c.Phone,
		Notes:      c.Notes,
		IsLinked:   c.IsLinked(),
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainClientList конвертирует список domain клиентов в response
func FromDomainClientList(clients []*domain.Client) *ClientListResponse {
	items := make([]*ClientResponse, 0, len(clients))
	for _, c := range clients {
		items = append(items, FromDomainClient(c))
	}
	return &ClientListResponse{Clients: items, Total: len(items)}
}
