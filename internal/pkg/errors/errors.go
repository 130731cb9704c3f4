package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	// Every typed validation error below matches it via errors.Is.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidCourseKeyError signals a malformed course identifier.
type InvalidCourseKeyError struct {
	Key string
}

func (e *InvalidCourseKeyError) Error() string {
	return fmt.Sprintf("invalid course key: %q", e.Key)
}

func (e *InvalidCourseKeyError) Is(target error) bool { return target == ErrInvalidArgument }

// InvalidContentKeyError signals a malformed content/usage identifier.
type InvalidContentKeyError struct {
	Key string
}

func (e *InvalidContentKeyError) Error() string {
	return fmt.Sprintf("invalid content key: %q", e.Key)
}

func (e *InvalidContentKeyError) Is(target error) bool { return target == ErrInvalidArgument }

// InvalidMilestoneError signals a milestone payload with missing/empty
// required fields, or a reference to a milestone id that does not exist.
type InvalidMilestoneError struct {
	Milestone interface{}
}

func (e *InvalidMilestoneError) Error() string {
	return fmt.Sprintf("invalid milestone: %+v", e.Milestone)
}

func (e *InvalidMilestoneError) Is(target error) bool { return target == ErrInvalidArgument }

// InvalidRelationshipTypeError signals a relationship name outside the
// fixed {requires, fulfills} set.
type InvalidRelationshipTypeError struct {
	Name string
}

func (e *InvalidRelationshipTypeError) Error() string {
	return fmt.Sprintf("invalid milestone relationship type: %q", e.Name)
}

func (e *InvalidRelationshipTypeError) Is(target error) bool { return target == ErrInvalidArgument }

// InvalidUserError signals a missing user reference or a non-positive id.
type InvalidUserError struct {
	User interface{}
}

func (e *InvalidUserError) Error() string {
	return fmt.Sprintf("invalid user: %+v", e.User)
}

func (e *InvalidUserError) Is(target error) bool { return target == ErrInvalidArgument }

// InvalidRequirementsError signals a course content milestone requirements
// payload that cannot be serialized to JSON.
type InvalidRequirementsError struct {
	Requirements interface{}
}

func (e *InvalidRequirementsError) Error() string {
	return fmt.Sprintf("invalid course content milestone requirements: %+v", e.Requirements)
}

func (e *InvalidRequirementsError) Is(target error) bool { return target == ErrInvalidArgument }
