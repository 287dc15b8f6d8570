package jobservice

// Job модель работы из JobService
type Job struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ClientID    int64   `json:"client_id"`
	ClientName  string  `json:"client_name"`
	RatePerHour float64 `json:"rate_per_hour"`
	Status      string  `json:"status"`
}

// ErrorResponse модель ошибки от JobService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
