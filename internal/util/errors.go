package util

import "fmt"

// 错误分类：controller 通过 errors.As 映射为 HTTP 状态码，
// 未命中任何分类的错误按系统错误处理（500）。

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

func Authorizationf(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFoundf(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrExamNotFound       = NotFoundf("exam not found")
	ErrQuestionNotFound   = NotFoundf("question not found")
	ErrAttemptNotFound    = Validationf("exam not started")
	ErrUserNotFound       = NotFoundf("user not found")
	ErrEmailRegistered    = Validationf("email already registered")
	ErrInvalidCredentials = Authorizationf("invalid credentials")
	ErrPermissionDenied   = Authorizationf("permission denied")
	ErrExamNotAvailable   = Validationf("exam not available")
	ErrNotAssigned        = Authorizationf("you are not assigned to take this exam")
	ErrAlreadySubmitted   = Validationf("exam already submitted")
	ErrAttemptTerminated  = Validationf("exam attempt has been terminated")
	ErrExamNotCompleted   = Validationf("exam not completed")
	ErrDuplicateAnswers   = Validationf("duplicate answers detected")
	ErrDuplicateOrder     = Validationf("duplicate question order")
)
