package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	planUC "github.com/khoahotran/career-compass/internal/application/usecase/plan"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
	"github.com/khoahotran/career-compass/pkg/markdown"
)

type PlanHandler struct {
	createPlanUseCase          *planUC.CreatePlanUseCase
	listPlansUseCase           *planUC.ListPlansUseCase
	getPlanUseCase             *planUC.GetPlanUseCase
	updatePlanUseCase          *planUC.UpdatePlanUseCase
	deletePlanUseCase          *planUC.DeletePlanUseCase
	generateSuggestionsUseCase *planUC.GenerateSuggestionsUseCase
	logger                     logger.Logger
}

func NewPlanHandler(
	createUC *planUC.CreatePlanUseCase,
	listUC *planUC.ListPlansUseCase,
	getUC *planUC.GetPlanUseCase,
	updateUC *planUC.UpdatePlanUseCase,
	deleteUC *planUC.DeletePlanUseCase,
	generateUC *planUC.GenerateSuggestionsUseCase,
	log logger.Logger,
) *PlanHandler {
	return &PlanHandler{
		createPlanUseCase:          createUC,
		listPlansUseCase:           listUC,
		getPlanUseCase:             getUC,
		updatePlanUseCase:          updateUC,
		deletePlanUseCase:          deleteUC,
		generateSuggestionsUseCase: generateUC,
		logger:                     log,
	}
}

func parsePlanID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid plan ID", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *PlanHandler) ListPublicPlans(c *gin.Context) {
	plans, err := h.listPlansUseCase.Public(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ToPlanDTOs(plans)})
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, ok := parsePlanID(c)
	if !ok {
		return
	}
	p, err := h.getPlanUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPlanDTO(p))
}

func (h *PlanHandler) GetRenderedPlan(c *gin.Context) {
	id, ok := parsePlanID(c)
	if !ok {
		return
	}
	p, err := h.getPlanUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, RenderedPlanDTO{
		ID:                       p.ID.String(),
		AISuggestedPathsHTML:     markdown.ToHTML(p.AISuggestedPaths),
		AIRecommendedCoursesHTML: markdown.ToHTML(p.AIRecommendedCourses),
	})
}

func (h *PlanHandler) ListMyPlans(c *gin.Context) {
	sess, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("session not found in context", nil))
		return
	}
	plans, err := h.listPlansUseCase.ByOwner(c.Request.Context(), sess.Account.ID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ToPlanDTOs(plans)})
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	sess, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("session not found in context", nil))
		return
	}
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.createPlanUseCase.Execute(c.Request.Context(), planUC.CreatePlanInput{
		OwnerID:              sess.Account.ID,
		FullName:             req.FullName,
		Email:                req.Email,
		CurrentRole:          req.CurrentRole,
		YearsExperience:      req.YearsExperience,
		Interests:            req.Interests,
		CurrentSkills:        req.CurrentSkills,
		DesiredRoles:         req.DesiredRoles,
		CareerGoals:          req.CareerGoals,
		AISuggestedPaths:     req.AISuggestedPaths,
		AIRecommendedCourses: req.AIRecommendedCourses,
		Visibility:           plan.Visibility(req.Visibility),
		RequestSuggestions:   req.RequestSuggestions,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToPlanDTO(p))
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	sess, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("session not found in context", nil))
		return
	}
	id, ok := parsePlanID(c)
	if !ok {
		return
	}
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	p, err := h.updatePlanUseCase.Execute(c.Request.Context(), planUC.UpdatePlanInput{
		PlanID:             id,
		OwnerID:            sess.Account.ID,
		Patch:              req.ToPatch(),
		RequestSuggestions: req.RequestSuggestions,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPlanDTO(p))
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	sess, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("session not found in context", nil))
		return
	}
	id, ok := parsePlanID(c)
	if !ok {
		return
	}

	removed, err := h.deletePlanUseCase.Execute(c.Request.Context(), planUC.DeletePlanInput{PlanID: id, OwnerID: sess.Account.ID})
	if err != nil {
		c.Error(err)
		return
	}
	if !removed {
		c.Error(apperror.NewNotFound("plan", id.String()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) GenerateSuggestions(c *gin.Context) {
	sess, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("session not found in context", nil))
		return
	}
	id, ok := parsePlanID(c)
	if !ok {
		return
	}

	p, err := h.generateSuggestionsUseCase.Execute(c.Request.Context(), planUC.GenerateSuggestionsInput{PlanID: id, OwnerID: sess.Account.ID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPlanDTO(p))
}
