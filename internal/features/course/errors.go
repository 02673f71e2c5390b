package course

import "errors"

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrSlugTaken      = errors.New("a course with this slug already exists")
	ErrInvalidPrice   = errors.New("price cannot be negative")
)
