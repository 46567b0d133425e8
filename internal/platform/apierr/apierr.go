package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/medialib-admin/internal/domain"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps a core error onto an HTTP status and code.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch code := domain.CodeOf(err); code {
	case domain.ErrorNotFound:
		return New(http.StatusNotFound, string(code), err)
	case domain.ErrorValidation:
		return New(http.StatusBadRequest, string(code), err)
	case domain.ErrorPartialMigration:
		return New(http.StatusConflict, string(code), err)
	case domain.ErrorCatalogRead:
		return New(http.StatusServiceUnavailable, string(code), err)
	default:
		return New(http.StatusInternalServerError, "internal", err)
	}
}
