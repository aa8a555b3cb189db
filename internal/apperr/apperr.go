// Файл: internal/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Типизированные ошибки приложения. Слой хранилища возвращает их наружу,
// API-слой транслирует в HTTP-статусы: ValidationError -> 400,
// NotFoundError -> 404, AuthError -> 401, StoreError -> 500.

// ValidationError — отсутствующее или некорректное обязательное поле запроса.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation создает ValidationError с форматированием.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError — запрошенная сущность отсутствует в базе.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s #%d не найден", e.Entity, e.ID)
}

// NotFound создает NotFoundError для сущности с указанным ID.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// StoreError — сбой хранилища или инфраструктуры. Полная ошибка логируется
// на сервере, клиенту уходит общий текст.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: ошибка хранилища: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store оборачивает ошибку хранилища с именем операции.
func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// AuthError — отсутствующая или невалидная сессия.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }

// Auth создает AuthError.
func Auth(msg string) error {
	return &AuthError{Msg: msg}
}

// IsValidation сообщает, является ли ошибка ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound сообщает, является ли ошибка NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsAuth сообщает, является ли ошибка AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
