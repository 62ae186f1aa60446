package notifier

import "errors"

var (
	ErrInternal        = errors.New("notifier: internal error")
	ErrInvalidResponse = errors.New("notifier: invalid response from dispatcher")
)
