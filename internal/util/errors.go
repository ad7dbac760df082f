package util

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserNotFound     = fmt.Errorf("user: %w", ErrNotFound)
	ErrClassNotFound    = fmt.Errorf("class: %w", ErrNotFound)
	ErrAttemptNotFound  = fmt.Errorf("attempt: %w", ErrNotFound)
	ErrProfileNotFound  = fmt.Errorf("profile: %w", ErrNotFound)
	ErrSessionNotFound  = fmt.Errorf("chat session: %w", ErrNotFound)
	ErrNoteNotFound     = fmt.Errorf("note: %w", ErrNotFound)
	ErrNotificationGone = fmt.Errorf("notification: %w", ErrNotFound)
)

// InvalidInput 包装一条带细节的参数错误
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// StoreError 将底层存储错误统一归类为 ErrStoreUnavailable
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
