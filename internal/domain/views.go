package domain

import "gorm.io/datatypes"

// Views are the plain structures that cross the store boundary. Repos scan
// query results straight into these; no GORM model escapes upward.

// MilestoneView is the boundary representation of a milestone row.
type MilestoneView struct {
	ID          int64  `json:"id"`
	Namespace   string `json:"namespace"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Key is the composite "{namespace}.{name}" key used to index fulfillment
// paths. Unique because (namespace, name) is unique among milestone rows.
func (v MilestoneView) Key() string {
	return v.Namespace + "." + v.Name
}

// MilestoneCourseView is a milestone annotated with the course it is linked
// to through a CourseMilestone row.
type MilestoneCourseView struct {
	ID          int64  `json:"id"`
	Namespace   string `json:"namespace"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	CourseID    string `json:"course_id"`
}

func (v MilestoneCourseView) Milestone() MilestoneView {
	return MilestoneView{
		ID:          v.ID,
		Namespace:   v.Namespace,
		Name:        v.Name,
		DisplayName: v.DisplayName,
		Description: v.Description,
		Active:      true,
	}
}

// MilestoneContentView is a milestone annotated with the (course, content)
// pair it is linked to, plus the stored fulfillment requirements.
type MilestoneContentView struct {
	ID           int64          `json:"id"`
	Namespace    string         `json:"namespace"`
	Name         string         `json:"name"`
	DisplayName  string         `json:"display_name"`
	Description  string         `json:"description"`
	CourseID     string         `json:"course_id"`
	ContentID    string         `json:"content_id"`
	Requirements datatypes.JSON `json:"requirements,omitempty"`
}

// MilestoneInput is the caller-supplied milestone payload for add/edit and
// filtered lookups. Zero-valued fields mean "not provided".
type MilestoneInput struct {
	ID          int64  `json:"id,omitempty"`
	Namespace   string `json:"namespace,omitempty"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// UserRef identifies a platform user. Only the id matters to this system;
// everything else about users lives elsewhere.
type UserRef struct {
	ID int64 `json:"id"`
}

// FulfillmentPath lists the courses and content units whose completion
// satisfies one required milestone. A nil slice means no fulfilling
// course/content exists and the corresponding JSON key is omitted entirely;
// callers rely on the absent-vs-empty distinction.
type FulfillmentPath struct {
	Courses []string `json:"courses,omitempty"`
	Content []string `json:"content,omitempty"`
}
