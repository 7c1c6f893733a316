package e

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrDeadLettered      = errors.New("dead lettered")
	ErrConflict          = errors.New("conflict")
	ErrInternal          = errors.New("internal error")
	ErrCanceled          = errors.New("context canceled")
)

// FieldError описывает одно нарушенное ограничение входных данных
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError содержит все нарушенные поля сразу, а не только первое
type ValidationError struct {
	Fields []FieldError
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}

// Add добавляет нарушение, возвращает саму ошибку для цепочек
func (v *ValidationError) Add(field, reason string) *ValidationError {
	v.Fields = append(v.Fields, FieldError{Field: field, Reason: reason})
	return v
}

// OrNil возвращает nil, если нарушений нет
func (v *ValidationError) OrNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

// Invalid - короткий конструктор ошибки валидации с одним полем
func Invalid(field, reason string) error {
	return (&ValidationError{}).Add(field, reason)
}

// WrapPg приводит ошибки pgx к таксономии сервиса
func WrapPg(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrCanceled)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, ErrInternal)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrInternal)
}

// IsPermanent сообщает, что повтор операции не изменит результат
func IsPermanent(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidTransition)
}
