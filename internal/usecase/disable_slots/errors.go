package disable_slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("disable_slots: slot not found")

	// ErrForbidden возвращается, когда слот принадлежит другому врачу
	ErrForbidden = errors.New("disable_slots: slot belongs to another doctor")

	// ErrSlotBlocked возвращается, когда слот с активной записью начинается
	// меньше чем через два часа - отключение отклоняется целиком
	ErrSlotBlocked = errors.New("disable_slots: slot has a near-term booking")

	// ErrSlotBusy возвращается, когда блокировка слота занята конкурентным запросом
	ErrSlotBusy = errors.New("disable_slots: slot is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("disable_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("disable_slots: internal error")
)
