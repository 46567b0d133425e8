package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorNotFound         ErrorCode = "not_found"
	ErrorValidation       ErrorCode = "validation"
	ErrorPartialMigration ErrorCode = "partial_migration"
	ErrorImageCarry       ErrorCode = "image_carry"
	ErrorCatalogRead      ErrorCode = "catalog_read"
)

// Error is the failure type returned by the dedupe and merge modules.
type Error struct {
	Code ErrorCode
	Op   string
	Ref  *EntityRef
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "merge error"
	}
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Ref != nil {
		msg = fmt.Sprintf("%s (%s)", msg, e.Ref.Key())
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func refPtr(ref EntityRef) *EntityRef { return &ref }

func NotFound(op string, ref EntityRef) *Error {
	return &Error{Code: ErrorNotFound, Op: op, Ref: refPtr(ref), Msg: "entity not found"}
}

func Validation(op, msg string) *Error {
	return &Error{Code: ErrorValidation, Op: op, Msg: msg}
}

func PartialMigration(op string, ref EntityRef, err error) *Error {
	return &Error{Code: ErrorPartialMigration, Op: op, Ref: refPtr(ref), Msg: "relationship migration failed", Err: err}
}

func ImageCarry(op string, ref EntityRef, err error) *Error {
	return &Error{Code: ErrorImageCarry, Op: op, Ref: refPtr(ref), Msg: "image carry-over failed", Err: err}
}

func CatalogRead(category Category, err error) *Error {
	return &Error{Code: ErrorCatalogRead, Op: "catalog read", Msg: fmt.Sprintf("category %s", category), Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }
