package keys

import "testing"

func TestParseCourseKey(t *testing.T) {
	k, err := ParseCourseKey("course-v1:edX+DemoX+Demo_Course")
	if err != nil {
		t.Fatalf("ParseCourseKey: %v", err)
	}
	if k.Org != "edX" || k.Course != "DemoX" || k.Run != "Demo_Course" {
		t.Fatalf("unexpected parse: %+v", k)
	}

	k, err = ParseCourseKey("the/course/key")
	if err != nil {
		t.Fatalf("ParseCourseKey legacy: %v", err)
	}
	if k.Org != "the" || k.Course != "course" || k.Run != "key" {
		t.Fatalf("unexpected legacy parse: %+v", k)
	}

	if _, err := ParseCourseKey("courseA"); err != nil {
		t.Fatalf("opaque slug should parse: %v", err)
	}

	for _, bad := range []string{"", "has space", "line\nbreak", "i4x://not/a/course/key"} {
		if _, err := ParseCourseKey(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseUsageKey(t *testing.T) {
	k, err := ParseUsageKey("block-v1:edX+DemoX+Demo_Course+type@chapter+block@entrance_exam")
	if err != nil {
		t.Fatalf("ParseUsageKey: %v", err)
	}
	if k.BlockType != "chapter" || k.BlockID != "entrance_exam" {
		t.Fatalf("unexpected parse: %+v", k)
	}

	k, err = ParseUsageKey("i4x://the/content/key/123456789")
	if err != nil {
		t.Fatalf("ParseUsageKey i4x: %v", err)
	}
	if k.BlockID != "123456789" {
		t.Fatalf("unexpected i4x parse: %+v", k)
	}

	if _, err := ParseUsageKey("block-42"); err != nil {
		t.Fatalf("opaque slug should parse: %v", err)
	}

	for _, bad := range []string{"", "has space"} {
		if _, err := ParseUsageKey(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
