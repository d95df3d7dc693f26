package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email address already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("login unsuccessful, check email and password")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrUploadFailed        = errors.New("file upload failed")
	ErrInvalidFileType     = errors.New("only pdf files are accepted")
	ErrInvalidQuizName     = errors.New("invalid quiz name")
	ErrGeneratorNotReady   = errors.New("question generator is not configured")
	ErrGeneratorClosed     = errors.New("question generator has been replaced")
)
