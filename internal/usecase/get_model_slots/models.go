package get_model_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение модельных слотов
// Диапазон необязателен: по умолчанию слоты отдаются начиная с сегодняшнего дня.
type Request struct {
	DateFrom *time.Time // Первый день диапазона; даты раньше сегодняшней поднимаются до нее
	DateTo   *time.Time // Последний день диапазона (включительно)
}

// Response модель ответа со списком модельных слотов
type Response struct {
	Slots []ModelSlot // Свободные модельные слоты диапазона
}

// ModelSlot модель предложения модельного слота
type ModelSlot struct {
	SlotID        string           // ID слота
	Date          string           // Дата слота ("2025-10-15")
	StartTime     types.TimeString // Время начала слота
	EndTime       types.TimeString // Время окончания слота
	ServiceID     string           // ID услуги, выполняемой в слоте
	ServiceName   string           // Название услуги
	PriceModifier *float64         // Модификатор цены слота (скидка или наценка)
}
