package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired          = errors.New("authentication required")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrDuplicateRegistration = errors.New("already registered for this event")
	ErrCapacityExceeded      = errors.New("event capacity exceeded")
	ErrEventNotFound         = errors.New("event not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrTicketCodeCollision   = errors.New("ticket code already issued")
	ErrPersistence           = errors.New("persistence failure")
	ErrInternalServerError   = errors.New("internal server error")
)

// Persistence 將儲存層的錯誤包成 ErrPersistence，nil 保持 nil
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
