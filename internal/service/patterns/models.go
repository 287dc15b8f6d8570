package patterns

import (
	"github.com/m04kA/SMC-CalendarService/internal/conflict"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// PreviewDay одна спроецированная дата предпросмотра
type PreviewDay struct {
	Date  string
	Slots []domain.TimeSlot
}

// PreviewConflict обнаруженное пересечение проекции с занятым слотом
type PreviewConflict struct {
	Date    string
	Overlap conflict.Overlap
}

// PreviewResult результат предпросмотра паттерна.
// Предпросмотр ничего не записывает - только проекция и поиск конфликтов.
type PreviewResult struct {
	Dates     []PreviewDay
	Conflicts []PreviewConflict
	Errors    []string
}
