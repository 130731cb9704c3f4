// Package validation holds the pure input checks run before any store
// access. Each function only answers yes/no; callers translate a negative
// answer into the typed errors in internal/pkg/errors.
package validation

import (
	"encoding/json"

	"github.com/yungbote/milestones-backend/internal/domain"
	"github.com/yungbote/milestones-backend/internal/pkg/keys"
)

// CourseKeyIsValid reports whether key parses as a course identifier.
func CourseKeyIsValid(key string) bool {
	_, err := keys.ParseCourseKey(key)
	return err == nil
}

// ContentKeyIsValid reports whether key parses as a content/usage identifier.
func ContentKeyIsValid(key string) bool {
	_, err := keys.ParseUsageKey(key)
	return err == nil
}

// MilestoneIsValid reports whether a milestone payload is usable at all:
// non-nil, and any provided name/namespace non-empty. Lookup paths accept
// absent fields as "don't filter on it", so absence here means the zero
// value together with an id or the other field being set.
func MilestoneIsValid(m *domain.MilestoneInput) bool {
	if m == nil {
		return false
	}
	return m.ID != 0 || m.Namespace != "" || m.Name != ""
}

// MilestoneCanBeCreated reports whether a payload carries everything a new
// milestone row needs: a non-empty namespace and a non-empty name.
func MilestoneCanBeCreated(m *domain.MilestoneInput) bool {
	if m == nil {
		return false
	}
	return m.Namespace != "" && m.Name != ""
}

// RelationshipTypeIsValid reports whether name is one of the two fixed
// relationship kinds.
func RelationshipTypeIsValid(name string) bool {
	return domain.Relationship(name).Valid()
}

// UserIsValid reports whether the user reference carries a positive id.
func UserIsValid(u *domain.UserRef) bool {
	return u != nil && u.ID > 0
}

// RequirementsIsValid reports whether the requirements payload is nil or
// serializes losslessly to JSON.
func RequirementsIsValid(requirements interface{}) bool {
	if requirements == nil {
		return true
	}
	_, err := json.Marshal(requirements)
	return err == nil
}
