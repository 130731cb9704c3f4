package services

import (
	"context"

	"github.com/yungbote/milestones-backend/internal/domain"
)

// ContentMilestoneProvider is the narrow surface handed to embedded hosts
// (e.g. a content-player plugin sandbox) that should only ever read
// content-level milestone links, nothing else.
type ContentMilestoneProvider interface {
	GetCourseContentMilestones(ctx context.Context, courseKey, contentKey, relationship string, user *domain.UserRef) ([]domain.MilestoneContentView, error)
}

var _ ContentMilestoneProvider = (MilestoneService)(nil)
