package get_open_slots

import (
	"time"

	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// Request модель запроса на получение открытых слотов
type Request struct {
	ClientID       int64     // ID клиента (для применения лимита на пользователя)
	ProfessionalID int64     // ID специалиста
	ServiceID      int64     // ID услуги
	From           time.Time // Начало периода (дата без времени)
	To             time.Time // Конец периода (дата без времени, включительно)
}

// Response модель ответа с открытыми слотами по дням
type Response struct {
	ProfessionalID int64      // ID специалиста
	ServiceID      int64      // ID услуги
	Days           []DaySlots // Слоты по дням периода
}

// DaySlots слоты одного календарного дня
type DaySlots struct {
	Date  time.Time // Дата
	Slots []Slot    // Открытые слоты; пустой список для закрытых дней
}

// Slot модель открытого временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	EndTime         types.TimeString // Время конца слота (например, "11:00")
	DurationMinutes int              // Длительность слота в минутах
	AvailableSpots  int              // Количество свободных мест
	TotalSpots      int              // Общее количество мест
}
