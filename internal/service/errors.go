package service

import (
	"errors"
	"fmt"
)

var (
	ErrInternal         = errors.New("internal server error")
	ErrPostNotFound     = errors.New("post not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidArgument  = errors.New("invalid argument")

	ErrInvalidID    = fmt.Errorf("%w: id must be positive", ErrInvalidArgument)
	ErrEmptyTitle   = fmt.Errorf("%w: title must not be empty", ErrInvalidArgument)
	ErrTitleTooLong = fmt.Errorf("%w: title must be at most %d characters", ErrInvalidArgument, MAX_TITLE_LENGTH)
	ErrEmptyContent = fmt.Errorf("%w: content must not be empty", ErrInvalidArgument)
)
