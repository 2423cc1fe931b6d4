package book_appointment

import (
	bookAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_appointment"
)

// BookAppointmentRequest HTTP модель запроса на создание записи
//
// Режим модельного слота: задан slotId, остальное берется из слота.
// Режим свободного выбора: заданы date и startTime, опционально serviceId.
type BookAppointmentRequest struct {
	ClientName string  `json:"clientName"`
	Username   *string `json:"username,omitempty"`
	MasterID   *string `json:"masterId,omitempty"`

	SlotID    *string `json:"slotId,omitempty"`
	ServiceID *string `json:"serviceId,omitempty"`
	Date      string  `json:"date,omitempty"`
	StartTime string  `json:"startTime,omitempty"`

	Note              *string `json:"note,omitempty"`
	ReferenceImageURL *string `json:"referenceImageUrl,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest(telegramID int64) *bookAppointment.Request {
	return &bookAppointment.Request{
		TelegramID:        telegramID,
		ClientName:        r.ClientName,
		Username:          r.Username,
		MasterID:          r.MasterID,
		SlotID:            r.SlotID,
		ServiceID:         r.ServiceID,
		Date:              r.Date,
		StartTime:         r.StartTime,
		Note:              r.Note,
		ReferenceImageURL: r.ReferenceImageURL,
	}
}

// BookAppointmentResponse HTTP модель ответа с созданной записью
type BookAppointmentResponse struct {
	AppointmentID   string  `json:"appointmentId"`
	ClientID        string  `json:"clientId"`
	Kind            string  `json:"kind"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	ServiceID       *string `json:"serviceId,omitempty"`
	ServiceName     *string `json:"serviceName,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *bookAppointment.Response) *BookAppointmentResponse {
	return &BookAppointmentResponse{
		AppointmentID:   resp.AppointmentID,
		ClientID:        resp.ClientID,
		Kind:            resp.Kind,
		Date:            resp.Date,
		StartTime:       resp.StartTime,
		DurationMinutes: resp.DurationMinutes,
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
	}
}
