package app

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/milestones-backend/internal/handlers"
	"github.com/yungbote/milestones-backend/internal/middleware"
)

func wireRouter(serviceName string, h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(otelgin.Middleware(serviceName))

	r.GET("/healthcheck", handlers.HealthCheck)

	api := r.Group("/api")
	{
		m := h.Milestone

		api.GET("/relationship-types", m.ListRelationshipTypes)

		api.POST("/milestones", m.AddMilestone)
		api.GET("/milestones", m.ListMilestones)
		api.GET("/milestones/:id", m.GetMilestone)
		api.PUT("/milestones/:id", m.EditMilestone)
		api.DELETE("/milestones/:id", m.RemoveMilestone)

		api.POST("/courses/:courseKey/milestones", m.AddCourseMilestone)
		api.GET("/courses/:courseKey/milestones", m.ListCourseMilestones)
		api.DELETE("/courses/:courseKey/milestones", m.RemoveCourseMilestone)

		api.POST("/courses/:courseKey/content/:contentKey/milestones", m.AddCourseContentMilestone)
		api.GET("/courses/:courseKey/content/:contentKey/milestones", m.ListCourseContentMilestones)
		api.DELETE("/courses/:courseKey/content/:contentKey/milestones", m.RemoveCourseContentMilestone)

		api.POST("/users/:userID/milestones", m.AddUserMilestone)
		api.GET("/users/:userID/milestones", m.ListUserMilestones)
		api.DELETE("/users/:userID/milestones", m.RemoveUserMilestone)

		api.GET("/courses/:courseKey/required-milestones", m.ListCourseRequiredMilestones)
		api.GET("/courses/:courseKey/fulfillment-paths", m.GetFulfillmentPaths)

		api.POST("/courses/:courseKey/prerequisites", m.AddPrerequisiteCourse)
		api.DELETE("/courses/:courseKey/prerequisites", m.RemovePrerequisiteCourse)
	}

	return r
}
