package export

// Format формат экспорта/импорта календаря
type Format string

const (
	FormatICS  Format = "ics"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// IsValid возвращает true для известного формата
func (f Format) IsValid() bool {
	return f == FormatICS || f == FormatCSV || f == FormatJSON
}

// ContentType возвращает MIME-тип формата
func (f Format) ContentType() string {
	switch f {
	case FormatICS:
		return "text/calendar"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/json"
	}
}

// ImportError ошибка одной строки/даты импорта.
// Такие ошибки не прерывают импорт остальных дат.
type ImportError struct {
	Date    string `json:"date,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// ImportResult итог импорта: сколько дат записано и какие единицы отклонены
type ImportResult struct {
	ImportedCount int           `json:"importedCount"`
	Errors        []ImportError `json:"errors"`
}

// exportDocument схема JSON-экспорта
type exportDocument struct {
	UserID  int64         `json:"userId"`
	From    string        `json:"from"`
	To      string        `json:"to"`
	Entries []exportEntry `json:"entries"`
}

type exportEntry struct {
	Date   string       `json:"date"`
	Status string       `json:"status"`
	Notes  *string      `json:"notes,omitempty"`
	Slots  []exportSlot `json:"slots"`
}

type exportSlot struct {
	StartTime  string   `json:"startTime"`
	EndTime    string   `json:"endTime"`
	Status     string   `json:"status"`
	JobID      *int64   `json:"jobId,omitempty"`
	JobTitle   *string  `json:"jobTitle,omitempty"`
	ClientName *string  `json:"clientName,omitempty"`
	Rate       *float64 `json:"ratePerHour,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}
