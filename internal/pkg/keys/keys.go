// Package keys owns the course/content identifier formats the milestones
// core treats as opaque. The store never interprets keys beyond validity.
package keys

import (
	"fmt"
	"regexp"
	"strings"
)

const maxKeyLength = 255

var (
	courseV1Re = regexp.MustCompile(`^course-v1:([^+\s]+)\+([^+\s]+)\+([^+\s]+)$`)
	legacyRe   = regexp.MustCompile(`^([^/\s]+)/([^/\s]+)/([^/\s]+)$`)
	blockV1Re  = regexp.MustCompile(`^block-v1:([^+\s]+)\+([^+\s]+)\+([^+\s]+)\+type@([^+\s]+)\+block@([^+\s]+)$`)
	i4xRe      = regexp.MustCompile(`^i4x://([^/\s]+)/([^/\s]+)/([^/\s]+)/([^/\s]+)$`)

	// Hosts that don't use structured keys pass plain slugs through; anything
	// printable without whitespace is accepted as an opaque identifier.
	opaqueRe = regexp.MustCompile(`^[^\s]+$`)
)

// CourseKey is the parsed form of a course identifier. Org/Course/Run are
// empty for opaque (unstructured) keys.
type CourseKey struct {
	Org    string
	Course string
	Run    string
	raw    string
}

func (k CourseKey) String() string { return k.raw }

// UsageKey is the parsed form of a content/usage identifier.
type UsageKey struct {
	Org       string
	Course    string
	Run       string
	BlockType string
	BlockID   string
	raw       string
}

func (k UsageKey) String() string { return k.raw }

// ParseCourseKey accepts "course-v1:Org+Course+Run", legacy "org/course/run",
// or an opaque slug with no whitespace.
func ParseCourseKey(raw string) (CourseKey, error) {
	if raw == "" || len(raw) > maxKeyLength {
		return CourseKey{}, fmt.Errorf("course key %q: empty or too long", raw)
	}
	if m := courseV1Re.FindStringSubmatch(raw); m != nil {
		return CourseKey{Org: m[1], Course: m[2], Run: m[3], raw: raw}, nil
	}
	if m := legacyRe.FindStringSubmatch(raw); m != nil {
		return CourseKey{Org: m[1], Course: m[2], Run: m[3], raw: raw}, nil
	}
	if !opaqueRe.MatchString(raw) || strings.HasPrefix(raw, "i4x://") {
		return CourseKey{}, fmt.Errorf("course key %q: malformed", raw)
	}
	return CourseKey{raw: raw}, nil
}

// ParseUsageKey accepts "block-v1:...", "i4x://org/course/category/name", or
// an opaque slug with no whitespace.
func ParseUsageKey(raw string) (UsageKey, error) {
	if raw == "" || len(raw) > maxKeyLength {
		return UsageKey{}, fmt.Errorf("usage key %q: empty or too long", raw)
	}
	if m := blockV1Re.FindStringSubmatch(raw); m != nil {
		return UsageKey{Org: m[1], Course: m[2], Run: m[3], BlockType: m[4], BlockID: m[5], raw: raw}, nil
	}
	if m := i4xRe.FindStringSubmatch(raw); m != nil {
		return UsageKey{Org: m[1], Course: m[2], BlockType: m[3], BlockID: m[4], raw: raw}, nil
	}
	if !opaqueRe.MatchString(raw) {
		return UsageKey{}, fmt.Errorf("usage key %q: malformed", raw)
	}
	return UsageKey{raw: raw}, nil
}
