package errors

import (
	"fmt"

	gerrors "github.com/pkg/errors"
)

type ErrorCode int

const (
	InternalError ErrorCode = iota
	InvalidConfiguration
	UnknownDeriveKind
	UnknownMeasureType
	UnknownColumn
	StorageError
	ValueOutOfRange
)

func NewInvalidConfigurationError(msg string) QuadrantError {
	return NewQuadrantErrorf(InvalidConfiguration, "Invalid configuration: %s", msg)
}

func NewUnknownDeriveKindError(kind int) QuadrantError {
	return NewQuadrantErrorf(UnknownDeriveKind, "Unknown derive kind: %d", kind)
}

func NewUnknownMeasureTypeError(aggFunc string) QuadrantError {
	return NewQuadrantErrorf(UnknownMeasureType, "Unknown measure type for aggregate function %s", aggFunc)
}

func NewUnknownColumnError(tableName string, columnName string) QuadrantError {
	return NewQuadrantErrorf(UnknownColumn, "Column %s.%s is not present in the cuboid", tableName, columnName)
}

func NewStorageError(msg string, cause error) QuadrantError {
	return QuadrantError{Code: StorageError, Msg: fmt.Sprintf("QDR%04d - Storage error: %s", StorageError, msg), cause: cause}
}

func NewValueOutOfRangeError(msg string) QuadrantError {
	return NewQuadrantErrorf(ValueOutOfRange, "Value out of range. %s", msg)
}

func NewQuadrantErrorf(errorCode ErrorCode, msgFormat string, args ...interface{}) QuadrantError {
	msg := fmt.Sprintf(fmt.Sprintf("QDR%04d - %s", errorCode, msgFormat), args...)
	return QuadrantError{Code: errorCode, Msg: msg}
}

func NewQuadrantError(errorCode ErrorCode, msg string) QuadrantError {
	return QuadrantError{Code: errorCode, Msg: msg}
}

// QuadrantError is any kind of error that is exposed to the user via external interfaces
type QuadrantError struct {
	Code  ErrorCode
	Msg   string
	cause error
}

func (u QuadrantError) Error() string {
	return u.Msg
}

func (u QuadrantError) Unwrap() error {
	return u.cause
}

// pkg/errors api - we always wrap so a logged error carries a stacktrace

func New(msg string) error {
	return gerrors.New(msg)
}

func Errorf(format string, args ...interface{}) error {
	return gerrors.Errorf(format, args...)
}

func Wrap(err error, msg string) error {
	return gerrors.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return gerrors.Wrapf(err, format, args...)
}

func WithStack(err error) error {
	return gerrors.WithStack(err)
}
