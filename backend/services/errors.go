package services

import "errors"

// Ошибки уровня сервисов; контроллеры транслируют их в HTTP-статусы.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)
