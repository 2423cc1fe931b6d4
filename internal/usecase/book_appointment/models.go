package book_appointment

// Request модель запроса на создание записи
//
// Два режима бронирования:
// - свободный выбор: заданы Date и StartTime, опционально ServiceID;
// - модельный слот: задан SlotID, дата, время и услуга берутся из слота.
type Request struct {
	TelegramID int64   // Telegram ID клиента
	ClientName string  // Имя клиента из Telegram профиля
	Username   *string // Telegram username для привязки ранее заведенной карточки
	MasterID   *string // ID мастера; без него берется мастер по умолчанию

	SlotID    *string // ID модельного слота (режим модельного слота)
	ServiceID *string // ID услуги (режим свободного выбора)
	Date      string  // Дата записи "2025-10-15" (режим свободного выбора)
	StartTime string  // Время начала "10:00" (режим свободного выбора)

	Note              *string // Пожелания клиента
	ReferenceImageURL *string // Ссылка на референс
}

// Response модель ответа с созданной записью
type Response struct {
	AppointmentID   string  // ID созданной записи
	ClientID        string  // ID карточки клиента
	Kind            string  // Вариант записи: service или model_slot
	Date            string  // Дата записи
	StartTime       string  // Время начала
	DurationMinutes int     // Длительность сеанса
	ServiceID       *string // ID услуги (для модельного слота - услуга слота)
	ServiceName     *string // Название услуги
}
