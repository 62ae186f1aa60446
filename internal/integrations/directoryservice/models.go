package directoryservice

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Company модель компании из платформенного реестра
type Company struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	IsActive bool   `json:"is_active"`
}

// Professional модель специалиста из платформенного реестра
type Professional struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от реестра
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
