package payments

import "errors"

var (
	// ErrServiceNotFound возвращается, когда платёжный сервис не знает услугу
	ErrServiceNotFound = errors.New("payments client: service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("payments client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("payments client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// Указывает, что платёжный сервис недоступен и решение о предоплате
	// принимается по локальным данным услуги.
	ErrServiceDegraded = errors.New("payments unavailable: graceful degradation applied")
)
