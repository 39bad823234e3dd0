package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")
)

// TimeString время суток в формате "HH:MM:SS" (принимается также "HH:MM")
// Используется для времени слотов вместо сырых строк:
// сравнение и арифметика работают через минутные смещения от полуночи
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает дату)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04:05"))
}

// NewTimeStringFromString создает TimeString из строки с валидацией
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts.normalize(), nil
}

// Validate проверяет формат строки ("HH:MM" или "HH:MM:SS")
func (t TimeString) Validate() error {
	if _, err := t.parse(); err != nil {
		return err
	}
	return nil
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает смещение в минутах от полуночи
// Для некорректного значения возвращает 0 - вызывающий код обязан
// валидировать TimeString при создании
func (t TimeString) Minutes() int {
	parsed, err := t.parse()
	if err != nil {
		return 0
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперед
// (или назад при отрицательном значении) в пределах суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	parsed, err := t.parse()
	if err != nil {
		return "", err
	}
	shifted := parsed.Add(time.Duration(minutes) * time.Minute)
	return NewTimeString(shifted), nil
}

// Sub возвращает разницу t - other в минутах
func (t TimeString) Sub(other TimeString) int {
	return t.Minutes() - other.Minutes()
}

// AtDate комбинирует дату и время суток в абсолютный момент
func (t TimeString) AtDate(date time.Time) time.Time {
	parsed, err := t.parse()
	if err != nil {
		return time.Time{}
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0,
		date.Location(),
	)
}

// String возвращает каноническую форму "HH:MM:SS"
func (t TimeString) String() string {
	return string(t.normalize())
}

// MarshalJSON сериализует в каноническую форму
func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON десериализует с валидацией
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = ts
	return nil
}

func (t TimeString) parse() (time.Time, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if parsed, err := time.Parse(layout, string(t)); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
}

func (t TimeString) normalize() TimeString {
	parsed, err := t.parse()
	if err != nil {
		return t
	}
	return NewTimeString(parsed)
}
