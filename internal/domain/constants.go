package domain

import "time"

// Time format constants
const (
	TimeFormat = "15:04:05"   // HH:MM:SS
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default values for slot creation
const (
	DefaultMaxPatients = 1
	DefaultRepeatWeeks = 1
)

// Time-window guards for mutations
const (
	// CancelGuard минимальный интервал до начала слота, в течение которого
	// отмена/перенос записи запрещены
	CancelGuard = time.Hour

	// LiveUpdateGuard интервал до начала слота, в течение которого запрещено
	// сужать окно слота, окно бронирования и уменьшать maxPatients ниже
	// числа активных записей
	LiveUpdateGuard = 30 * time.Minute

	// DisableGuard интервал до начала слота, в течение которого слот с
	// активной записью нельзя отключить
	DisableGuard = 2 * time.Hour

	// ArrivalLead рекомендуемый запас времени прибытия до расчетного
	// времени приема
	ArrivalLead = 10 * time.Minute
)

// CapacityStatuses статусы, занимающие место в слоте
// Используются при подсчете занятости и проверке повторного бронирования
var CapacityStatuses = []AppointmentStatus{
	StatusBooked,
	StatusCompleted,
}

// QueueStatuses статусы, участвующие в нумерации очереди
// Только booked записи уплотняются при освобождении позиции
var QueueStatuses = []AppointmentStatus{
	StatusBooked,
}

// weekdays распознаваемые имена дней недели для повторяющихся слотов
var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday возвращает день недели по имени
// Вторым значением возвращает false для нераспознанного имени -
// вызывающий код трактует это как "ничего не создавать"
func ParseWeekday(name string) (time.Weekday, bool) {
	day, ok := weekdays[name]
	return day, ok
}
