package calendar

import "github.com/m04kA/SMC-CalendarService/pkg/txmanager"

// Переиспользуем интерфейс исполнителя запросов из txmanager:
// репозиторий прозрачно работает как с *sql.DB, так и с транзакцией из контекста
type DBExecutor = txmanager.DBExecutor
