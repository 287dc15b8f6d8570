package calendar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEntryNotFound возвращается, когда запись календаря не найдена
	ErrEntryNotFound = errors.New("calendar: entry not found")

	// ErrOverlap возвращается, когда два слота одной даты пересекаются
	ErrOverlap = errors.New("calendar: time slots overlap")

	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("calendar: invalid date range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar: internal error")
)

// ValidationError ошибка валидации слотов.
// Содержит ВСЕ найденные нарушения, а не только первое.
type ValidationError struct {
	Violations []string
}

// Error реализует интерфейс error
func (e *ValidationError) Error() string {
	return fmt.Sprintf("calendar: validation failed: %s", strings.Join(e.Violations, "; "))
}

// AsValidationError возвращает *ValidationError, если err им является
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
