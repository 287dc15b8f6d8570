package privacy

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда настройки приватности не найдены
	ErrSettingsNotFound = errors.New("privacy.repository: settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("privacy.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("privacy.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("privacy.repository: failed to scan row")

	// ErrEncodeSettings возвращается при ошибке сериализации списков настроек
	ErrEncodeSettings = errors.New("privacy.repository: failed to encode settings")
)
