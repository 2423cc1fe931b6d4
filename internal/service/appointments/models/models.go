package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// GetMineRequest запрос на получение записей клиента
type GetMineRequest struct {
	MasterID     string
	TelegramID   int64
	UpcomingOnly bool
}

// CancelByClientRequest запрос клиента на отмену записи
type CancelByClientRequest struct {
	TelegramID int64   `json:"-"`
	Reason     *string `json:"reason,omitempty"`
}

// UpdateStatusRequest запрос мастера на смену статуса записи
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"` // причина при отмене мастером
}

// SetReminderRequest запрос на включение/выключение напоминаний
type SetReminderRequest struct {
	Enabled    bool   `json:"enabled"`
	TelegramID *int64 `json:"-"` // Telegram ID вызывающего клиента
	IsMaster   bool   `json:"-"`
}

// ListByMasterRequest запрос на получение записей мастера
type ListByMasterRequest struct {
	MasterID string
	Status   *string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 string  `json:"id"`
	ClientID           string  `json:"clientId"`
	ClientName         string  `json:"clientName"`
	MasterID           string  `json:"masterId"`
	ServiceID          *string `json:"serviceId,omitempty"`
	ServiceName        *string `json:"serviceName,omitempty"`
	SlotID             *string `json:"slotId,omitempty"`
	Kind               string  `json:"kind"`
	Date               string  `json:"date"`
	StartTime          string  `json:"startTime"`
	DurationMinutes    int     `json:"durationMinutes"`
	Status             string  `json:"status"`
	Source             string  `json:"source"`
	Note               *string `json:"note,omitempty"`
	ReferenceImageURL  *string `json:"referenceImageUrl,omitempty"`
	ReminderEnabled    bool    `json:"reminderEnabled"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CreatedAt          string  `json:"createdAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// FromDomainView конвертирует domain view в response
func FromDomainView(v *domain.AppointmentView) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:                 v.ID,
		ClientID:           v.ClientID,
		ClientName:         v.ClientName,
		MasterID:           v.MasterID,
		ServiceID:          v.ServiceID,
		ServiceName:        v.ServiceName,
		SlotID:             v.SlotID,
		Kind:               string(v.Kind()),
		Date:               v.Date.Format(domain.DateFormat),
		StartTime:          v.StartTime.String(),
		DurationMinutes:    v.EffectiveDurationMinutes(),
		Status:             string(v.Status),
		Source:             string(v.Source),
		Note:               v.Note,
		ReferenceImageURL:  v.ReferenceImageURL,
		ReminderEnabled:    v.ReminderEnabled,
		CancellationReason: v.CancellationReason,
		CreatedAt:          v.CreatedAt.Format(time.RFC3339),
	}

	if v.CancelledBy != nil {
		cancelledBy := string(*v.CancelledBy)
		resp.CancelledBy = &cancelledBy
	}

	return resp
}

// FromDomainViewList конвертирует список domain view в response
func FromDomainViewList(views []*domain.AppointmentView) *AppointmentListResponse {
	items := make([]*AppointmentResponse, 0, len(views))
	for _, v := range views {
		items = append(items, FromDomainView(v))
	}
	return &AppointmentListResponse{Appointments: items, Total: len(items)}
}

// ToDomainStatus конвертирует строку статуса в domain статус
func ToDomainStatus(status string) (domain.AppointmentStatus, bool) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusScheduled, domain.StatusDone, domain.StatusCancelled:
		return domain.AppointmentStatus(status), true
	default:
		return "", false
	}
}
