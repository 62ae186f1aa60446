package directoryservice

import "errors"

var (
	// ErrCompanyNotFound возвращается, когда компания не найдена в реестре
	ErrCompanyNotFound = errors.New("directoryservice client: company not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден в реестре
	ErrProfessionalNotFound = errors.New("directoryservice client: professional not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directoryservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directoryservice client: invalid response")
)
