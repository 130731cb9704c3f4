package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/milestones-backend/internal/domain"
	apperr "github.com/yungbote/milestones-backend/internal/pkg/errors"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
	"github.com/yungbote/milestones-backend/internal/services"
)

type MilestoneHandler struct {
	log *logger.Logger
	svc services.MilestoneService
}

func NewMilestoneHandler(log *logger.Logger, svc services.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{
		log: log.With("handler", "MilestoneHandler"),
		svc: svc,
	}
}

type milestonePayload struct {
	ID          int64  `json:"id"`
	Namespace   string `json:"namespace"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

func (p *milestonePayload) toInput() *domain.MilestoneInput {
	if p == nil {
		return nil
	}
	return &domain.MilestoneInput{
		ID:          p.ID,
		Namespace:   p.Namespace,
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Description: p.Description,
	}
}

func (h *MilestoneHandler) ListRelationshipTypes(c *gin.Context) {
	RespondOK(c, gin.H{"relationship_types": h.svc.GetMilestoneRelationshipTypes()})
}

func (h *MilestoneHandler) AddMilestone(c *gin.Context) {
	var req struct {
		milestonePayload
		Propagate *bool `json:"propagate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	propagate := true
	if req.Propagate != nil {
		propagate = *req.Propagate
	}
	milestone, err := h.svc.AddMilestone(c.Request.Context(), req.toInput(), propagate)
	if err != nil {
		respondServiceError(c, "add_milestone_failed", err)
		return
	}
	RespondOK(c, gin.H{"milestone": milestone})
}

func (h *MilestoneHandler) GetMilestone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	milestone, err := h.svc.GetMilestone(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "milestone_not_found", err)
		return
	}
	RespondOK(c, gin.H{"milestone": milestone})
}

func (h *MilestoneHandler) ListMilestones(c *gin.Context) {
	milestones, err := h.svc.GetMilestones(c.Request.Context(), c.Query("namespace"))
	if err != nil {
		respondServiceError(c, "list_milestones_failed", err)
		return
	}
	RespondOK(c, gin.H{"milestones": milestones})
}

func (h *MilestoneHandler) EditMilestone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req milestonePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	req.ID = id
	milestone, err := h.svc.EditMilestone(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, "edit_milestone_failed", err)
		return
	}
	RespondOK(c, gin.H{"milestone": milestone})
}

func (h *MilestoneHandler) RemoveMilestone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.svc.RemoveMilestone(c.Request.Context(), id); err != nil {
		respondServiceError(c, "remove_milestone_failed", err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

func (h *MilestoneHandler) AddCourseMilestone(c *gin.Context) {
	var req struct {
		Relationship string           `json:"relationship"`
		Milestone    milestonePayload `json:"milestone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	err := h.svc.AddCourseMilestone(c.Request.Context(), c.Param("courseKey"), req.Relationship, req.Milestone.toInput())
	if err != nil {
		respondServiceError(c, "add_course_milestone_failed", err)
		return
	}
	RespondOK(c, gin.H{"linked": true})
}

func (h *MilestoneHandler) ListCourseMilestones(c *gin.Context) {
	milestones, err := h.svc.GetCourseMilestones(c.Request.Context(), c.Param("courseKey"), c.Query("relationship"))
	if err != nil {
		respondServiceError(c, "list_course_milestones_failed", err)
		return
	}
	RespondOK(c, gin.H{"milestones": milestones})
}

func (h *MilestoneHandler) RemoveCourseMilestone(c *gin.Context) {
	var req milestonePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	if err := h.svc.RemoveCourseMilestone(c.Request.Context(), c.Param("courseKey"), req.toInput()); err != nil {
		respondServiceError(c, "remove_course_milestone_failed", err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

func (h *MilestoneHandler) AddCourseContentMilestone(c *gin.Context) {
	var req struct {
		Relationship string           `json:"relationship"`
		Milestone    milestonePayload `json:"milestone"`
		Requirements any              `json:"requirements"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	err := h.svc.AddCourseContentMilestone(
		c.Request.Context(),
		c.Param("courseKey"),
		c.Param("contentKey"),
		req.Relationship,
		req.Milestone.toInput(),
		req.Requirements,
	)
	if err != nil {
		respondServiceError(c, "add_content_milestone_failed", err)
		return
	}
	RespondOK(c, gin.H{"linked": true})
}

func (h *MilestoneHandler) ListCourseContentMilestones(c *gin.Context) {
	milestones, err := h.svc.GetCourseContentMilestones(
		c.Request.Context(),
		c.Param("courseKey"),
		c.Param("contentKey"),
		c.Query("relationship"),
		userFromQuery(c),
	)
	if err != nil {
		respondServiceError(c, "list_content_milestones_failed", err)
		return
	}
	RespondOK(c, gin.H{"milestones": milestones})
}

func (h *MilestoneHandler) RemoveCourseContentMilestone(c *gin.Context) {
	var req milestonePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	err := h.svc.RemoveCourseContentMilestone(c.Request.Context(), c.Param("courseKey"), c.Param("contentKey"), req.toInput())
	if err != nil {
		respondServiceError(c, "remove_content_milestone_failed", err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

func (h *MilestoneHandler) AddUserMilestone(c *gin.Context) {
	user, err := userFromPath(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user", err)
		return
	}
	var req struct {
		Milestone milestonePayload `json:"milestone"`
		Source    string           `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	if err := h.svc.AddUserMilestone(c.Request.Context(), user, req.Milestone.toInput(), req.Source); err != nil {
		respondServiceError(c, "add_user_milestone_failed", err)
		return
	}
	RespondOK(c, gin.H{"collected": true})
}

func (h *MilestoneHandler) ListUserMilestones(c *gin.Context) {
	user, err := userFromPath(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user", err)
		return
	}
	milestones, err := h.svc.GetUserMilestones(c.Request.Context(), user, c.Query("namespace"))
	if err != nil {
		respondServiceError(c, "list_user_milestones_failed", err)
		return
	}
	RespondOK(c, gin.H{"milestones": milestones})
}

func (h *MilestoneHandler) RemoveUserMilestone(c *gin.Context) {
	user, err := userFromPath(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user", err)
		return
	}
	var req milestonePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	if err := h.svc.RemoveUserMilestone(c.Request.Context(), user, req.toInput()); err != nil {
		respondServiceError(c, "remove_user_milestone_failed", err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

func (h *MilestoneHandler) ListCourseRequiredMilestones(c *gin.Context) {
	user := userFromQuery(c)
	if user == nil {
		RespondError(c, http.StatusBadRequest, "invalid_user", &apperr.InvalidUserError{User: c.Query("user_id")})
		return
	}
	milestones, err := h.svc.GetCourseRequiredMilestones(c.Request.Context(), c.Param("courseKey"), user)
	if err != nil {
		respondServiceError(c, "list_required_milestones_failed", err)
		return
	}
	RespondOK(c, gin.H{"milestones": milestones})
}

func (h *MilestoneHandler) GetFulfillmentPaths(c *gin.Context) {
	user := userFromQuery(c)
	if user == nil {
		RespondError(c, http.StatusBadRequest, "invalid_user", &apperr.InvalidUserError{User: c.Query("user_id")})
		return
	}
	paths, err := h.svc.GetCourseMilestonesFulfillmentPaths(c.Request.Context(), c.Param("courseKey"), user)
	if err != nil {
		respondServiceError(c, "fulfillment_paths_failed", err)
		return
	}
	RespondOK(c, gin.H{"paths": paths})
}

func (h *MilestoneHandler) AddPrerequisiteCourse(c *gin.Context) {
	var req struct {
		PrerequisiteCourseKey string            `json:"prerequisite_course_key"`
		Milestone             *milestonePayload `json:"milestone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	err := h.svc.AddPrerequisiteCourseToCourse(c.Request.Context(), c.Param("courseKey"), req.PrerequisiteCourseKey, req.Milestone.toInput())
	if err != nil {
		respondServiceError(c, "add_prerequisite_failed", err)
		return
	}
	RespondOK(c, gin.H{"linked": true})
}

func (h *MilestoneHandler) RemovePrerequisiteCourse(c *gin.Context) {
	var req struct {
		PrerequisiteCourseKey string            `json:"prerequisite_course_key"`
		Milestone             *milestonePayload `json:"milestone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	err := h.svc.RemovePrerequisiteCourseFromCourse(c.Request.Context(), c.Param("courseKey"), req.PrerequisiteCourseKey, req.Milestone.toInput())
	if err != nil {
		respondServiceError(c, "remove_prerequisite_failed", err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

func userFromPath(c *gin.Context) (*domain.UserRef, error) {
	id, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &domain.UserRef{ID: id}, nil
}

// userFromQuery returns nil when no usable user_id was supplied; list
// endpoints treat that as "no user filter".
func userFromQuery(c *gin.Context) *domain.UserRef {
	raw := c.Query("user_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &domain.UserRef{ID: id}
}
