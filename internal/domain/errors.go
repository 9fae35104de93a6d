package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrAlreadySettled     = errors.New("order already settled")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal error")
)
