package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

// internal wraps an unexpected failure so handlers map it to a 5xx while the
// cause stays available to the error log.
func internal(err error) error {
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
