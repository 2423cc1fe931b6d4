package get_free_windows

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение свободных окон
type Request struct {
	MasterID  *string   // ID мастера; без него берется мастер по умолчанию
	ServiceID *string   // ID услуги; без услуги длительность сеанса берется по умолчанию
	Date      time.Time // Дата, на которую запрашиваются окна (без времени)
}

// Response модель ответа со списком свободных окон
type Response struct {
	Date            time.Time // Дата, на которую запрашивались окна
	ServiceID       *string   // ID услуги из запроса
	DurationMinutes int       // Длительность сеанса, под которую искались окна
	Windows         []Window  // Список свободных окон
}

// RangeRequest модель запроса на получение свободных окон за диапазон дат
type RangeRequest struct {
	MasterID  *string   // ID мастера; без него берется мастер по умолчанию
	ServiceID *string   // ID услуги; без услуги длительность сеанса берется по умолчанию
	DateFrom  time.Time // Первый день диапазона (включительно)
	DateTo    time.Time // Последний день диапазона (включительно)
}

// DayWindows свободные окна одного календарного дня
type DayWindows struct {
	Date    time.Time
	Windows []Window
}

// RangeResponse модель ответа с окнами по дням диапазона
type RangeResponse struct {
	DateFrom        time.Time
	DateTo          time.Time
	ServiceID       *string
	DurationMinutes int
	Days            []DayWindows
}

// Window модель свободного окна для записи
type Window struct {
	SlotID          string           // ID слота, внутри которого лежит окно
	StartTime       types.TimeString // Время начала окна (например, "10:00")
	EndTime         types.TimeString // Время окончания сеанса в этом окне
	DurationMinutes int              // Длительность сеанса в минутах
	PriceModifier   *float64         // Модификатор цены слота (скидка или наценка)
}
