package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgStringTooLong is the Postgres SQLSTATE for a value exceeding its VARCHAR limit
const pgStringTooLong = "22001"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("you do not have permission to modify this resource")
	ErrDuplicate          = errors.New("resource already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrStorageUnavailable = errors.New("image storage is not configured")
)

// ValidationError reports input that cannot be accepted
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// kindError carries a readable message while still matching one of the sentinels.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func notFoundf(format string, args ...interface{}) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func forbiddenf(format string, args ...interface{}) error {
	return &kindError{kind: ErrForbidden, msg: fmt.Sprintf(format, args...)}
}

func duplicatef(format string, args ...interface{}) error {
	return &kindError{kind: ErrDuplicate, msg: fmt.Sprintf(format, args...)}
}

// translate maps gorm errors onto the service sentinels; what names the entity.
func translate(err error, what string) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFoundf("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicatef("%s already exists", what)
	case errors.As(err, &pgErr) && pgErr.Code == pgStringTooLong:
		return newValidationError(what, "value is too long")
	default:
		return err
	}
}
