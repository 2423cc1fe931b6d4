package get_free_windows

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getFreeWindows "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_free_windows"
)

// WindowResponse HTTP модель свободного окна
type WindowResponse struct {
	SlotID          string   `json:"slotId"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	DurationMinutes int      `json:"durationMinutes"`
	PriceModifier   *float64 `json:"priceModifier,omitempty"`
}

// GetFreeWindowsResponse HTTP модель ответа со свободными окнами
type GetFreeWindowsResponse struct {
	Date            string           `json:"date"`
	ServiceID       *string          `json:"serviceId,omitempty"`
	DurationMinutes int              `json:"durationMinutes"`
	Windows         []WindowResponse `json:"windows"`
}

// DayWindowsResponse HTTP модель окон одного дня диапазона
type DayWindowsResponse struct {
	Date    string           `json:"date"`
	Windows []WindowResponse `json:"windows"`
}

// GetFreeWindowsRangeResponse HTTP модель ответа с окнами за диапазон дат
type GetFreeWindowsRangeResponse struct {
	DateFrom        string               `json:"dateFrom"`
	DateTo          string               `json:"dateTo"`
	ServiceID       *string              `json:"serviceId,omitempty"`
	DurationMinutes int                  `json:"durationMinutes"`
	Days            []DayWindowsResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getFreeWindows.Response) *GetFreeWindowsResponse {
	return &GetFreeWindowsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Windows:         toWindowResponses(resp.Windows),
	}
}

// FromUseCaseRangeResponse конвертирует ответ use case за диапазон в HTTP модель
func FromUseCaseRangeResponse(resp *getFreeWindows.RangeResponse) *GetFreeWindowsRangeResponse {
	days := make([]DayWindowsResponse, 0, len(resp.Days))
	for _, day := range resp.Days {
		days = append(days, DayWindowsResponse{
			Date:    day.Date.Format(domain.DateFormat),
			Windows: toWindowResponses(day.Windows),
		})
	}

	return &GetFreeWindowsRangeResponse{
		DateFrom:        resp.DateFrom.Format(domain.DateFormat),
		DateTo:          resp.DateTo.Format(domain.DateFormat),
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Days:            days,
	}
}

func toWindowResponses(windows []getFreeWindows.Window) []WindowResponse {
	result := make([]WindowResponse, 0, len(windows))
	for _, w := range windows {
		result = append(result, WindowResponse{
			SlotID:          w.SlotID,
			StartTime:       w.StartTime.String(),
			EndTime:         w.EndTime.String(),
			DurationMinutes: w.DurationMinutes,
			PriceModifier:   w.PriceModifier,
		})
	}
	return result
}
