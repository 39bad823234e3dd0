package queueledger

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках реестра
	ErrInternal = errors.New("queueledger: internal error")
)
