package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/career-compass/internal/application/usecase/advisor"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
	"github.com/khoahotran/career-compass/pkg/markdown"
)

type AdvisorHandler struct {
	advisorUseCase *advisor.AdvisorUseCase
	logger         logger.Logger
}

func NewAdvisorHandler(uc *advisor.AdvisorUseCase, log logger.Logger) *AdvisorHandler {
	return &AdvisorHandler{advisorUseCase: uc, logger: log}
}

func (h *AdvisorHandler) CareerPaths(c *gin.Context) {
	var req CareerPathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	text := h.advisorUseCase.GenerateCareerPaths(c.Request.Context(), advisor.CareerPathsInput{
		CurrentRole:     req.CurrentRole,
		YearsExperience: req.YearsExperience,
		Skills:          req.Skills,
		Interests:       req.Interests,
		DesiredRoles:    req.DesiredRoles,
	})
	c.JSON(http.StatusOK, AdviceResponse{Text: text, HTML: markdown.ToHTML(text)})
}

func (h *AdvisorHandler) Courses(c *gin.Context) {
	var req CoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	text := h.advisorUseCase.RecommendCourses(c.Request.Context(), advisor.CoursesInput{
		Skills:       req.Skills,
		DesiredRoles: req.DesiredRoles,
	})
	c.JSON(http.StatusOK, AdviceResponse{Text: text, HTML: markdown.ToHTML(text)})
}

// Render converts markdown-lite text to HTML.
func Render(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": markdown.ToHTML(req.Text)})
}
