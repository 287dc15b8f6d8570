package apply_pattern

import "time"

// Request модель запроса на применение паттерна
type Request struct {
	UserID    int64
	PatternID string
	From      time.Time
	To        time.Time

	// OverwriteExisting - переписать даты, на которых уже есть слоты.
	// Занятые слоты при перезаписи сохраняются.
	OverwriteExisting bool

	// SkipConflicts - пропустить даты, где проекция пересекается с занятыми
	// слотами. Имеет приоритет над OverwriteExisting.
	SkipConflicts bool
}

// SkippedDate пропущенная дата с причиной
type SkippedDate struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// Причины пропуска даты
const (
	ReasonExisting = "existing entry"
	ReasonConflict = "booked slot conflict"
)

// Result итог применения паттерна. Каждая дата - независимая единица:
// ошибка одной даты не откатывает остальные.
type Result struct {
	PatternID    string        `json:"patternId"`
	AppliedDates []string      `json:"appliedDates"`
	SkippedDates []SkippedDate `json:"skippedDates"`
	Errors       []string      `json:"errors"`
}
