package core

import "errors"

// Configuration errors. They are returned before any check runs.
var (
	ErrUnknownCheck           = errors.New("unknown check")
	ErrUnknownSubjectKind     = errors.New("unknown subject kind")
	ErrDuplicateGroup         = errors.New("duplicate requirement id")
	ErrConflictingDeclaration = errors.New("conflicting check declaration")
	ErrUnimplementedCheck     = errors.New("check has no implementation")
	ErrInvalidDeclaration     = errors.New("invalid declaration")
)

// ErrValidationFailed is returned when at least one requirement did not pass.
var ErrValidationFailed = errors.New("validation failed")
