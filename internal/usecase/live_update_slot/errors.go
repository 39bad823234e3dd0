package live_update_slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("live_update_slot: slot not found")

	// ErrForbidden возвращается, когда слот принадлежит другому врачу
	ErrForbidden = errors.New("live_update_slot: slot belongs to another doctor")

	// ErrSlotDisabled возвращается при попытке изменить отключенный слот
	ErrSlotDisabled = errors.New("live_update_slot: slot is disabled")

	// ErrInvalidTimeRange возвращается при нарушении порядка или прошедшем
	// времени в новых границах слота / окна бронирования
	ErrInvalidTimeRange = errors.New("live_update_slot: invalid time range")

	// ErrTooCloseToStart возвращается, когда до начала слота меньше 30 минут
	// и запрошено сужающее изменение
	ErrTooCloseToStart = errors.New("live_update_slot: slot starts too soon for this change")

	// ErrSlotBusy возвращается, когда блокировка слота занята конкурентным запросом
	ErrSlotBusy = errors.New("live_update_slot: slot is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("live_update_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("live_update_slot: internal error")
)
