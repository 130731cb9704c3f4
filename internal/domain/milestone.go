package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Milestone is a namespaced accomplishment gate. Rows are never hard-deleted;
// the Active flag carries the lifecycle state so ids survive remove/re-add
// cycles.
type Milestone struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Namespace   string `gorm:"column:namespace;not null;index:idx_milestone_namespace_name,unique,priority:1" json:"namespace"`
	Name        string `gorm:"column:name;not null;index:idx_milestone_namespace_name,unique,priority:2" json:"name"`
	DisplayName string `gorm:"column:display_name;not null;default:''" json:"display_name"`
	Description string `gorm:"column:description;type:text" json:"description"`

	Active bool `gorm:"column:active;not null;default:true;index" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Milestone) TableName() string { return "milestone" }

// MilestoneRelationshipType backs the fixed {requires, fulfills} enumeration.
// Persisted as rows for join efficiency only; callers never invent new ones.
type MilestoneRelationshipType struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Name        string `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`

	Active bool `gorm:"column:active;not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MilestoneRelationshipType) TableName() string { return "milestone_relationship_type" }

// CourseMilestone links a course to a milestone with a relationship kind.
// At most one relationship per (course, milestone) pair.
type CourseMilestone struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	CourseID string `gorm:"column:course_id;not null;index;index:idx_course_milestone,unique,priority:1" json:"course_id"`

	MilestoneID int64     `gorm:"column:milestone_id;not null;index;index:idx_course_milestone,unique,priority:2" json:"milestone_id"`
	Milestone   Milestone `gorm:"foreignKey:MilestoneID;references:ID" json:"-"`

	RelationshipTypeID int64                     `gorm:"column:relationship_type_id;not null;index" json:"relationship_type_id"`
	RelationshipType   MilestoneRelationshipType `gorm:"foreignKey:RelationshipTypeID;references:ID" json:"-"`

	Active bool `gorm:"column:active;not null;default:true;index" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseMilestone) TableName() string { return "course_milestone" }

// CourseContentMilestone links a (course, content unit) pair to a milestone,
// with an opaque JSON requirements payload describing fulfillment conditions.
type CourseContentMilestone struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	CourseID  string `gorm:"column:course_id;not null;index;index:idx_course_content_milestone,unique,priority:1" json:"course_id"`
	ContentID string `gorm:"column:content_id;not null;index;index:idx_course_content_milestone,unique,priority:2" json:"content_id"`

	MilestoneID int64     `gorm:"column:milestone_id;not null;index;index:idx_course_content_milestone,unique,priority:3" json:"milestone_id"`
	Milestone   Milestone `gorm:"foreignKey:MilestoneID;references:ID" json:"-"`

	RelationshipTypeID int64                     `gorm:"column:relationship_type_id;not null;index" json:"relationship_type_id"`
	RelationshipType   MilestoneRelationshipType `gorm:"foreignKey:RelationshipTypeID;references:ID" json:"-"`

	Requirements datatypes.JSON `gorm:"column:requirements" json:"requirements,omitempty"`

	Active bool `gorm:"column:active;not null;default:true;index" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseContentMilestone) TableName() string { return "course_content_milestone" }

// UserMilestone records that a user has collected a milestone.
type UserMilestone struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID int64 `gorm:"column:user_id;not null;index;index:idx_user_milestone,unique,priority:1" json:"user_id"`

	MilestoneID int64     `gorm:"column:milestone_id;not null;index;index:idx_user_milestone,unique,priority:2" json:"milestone_id"`
	Milestone   Milestone `gorm:"foreignKey:MilestoneID;references:ID" json:"-"`

	Source    string     `gorm:"column:source;type:text" json:"source,omitempty"`
	Collected *time.Time `gorm:"column:collected" json:"collected,omitempty"`

	Active bool `gorm:"column:active;not null;default:true;index" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserMilestone) TableName() string { return "user_milestone" }
