package payments

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// PaymentRequirement ответ платёжного сервиса о необходимости предоплаты
type PaymentRequirement struct {
	ServiceID       int64   `json:"service_id"`
	RequiresPayment bool    `json:"requires_payment"`
	FeeAmount       float64 `json:"fee_amount"`
}

// ErrorResponse модель ошибки от платёжного сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
