package http

import (
	"time"

	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/internal/domain/plan"
)

// Auth DTOs

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

func ToUserDTO(a account.Account) UserDTO {
	return UserDTO{ID: a.ID, Email: a.Email, Name: a.Name}
}

// Plan DTOs

type CreatePlanRequest struct {
	FullName             string   `json:"full_name"`
	Email                string   `json:"email"`
	CurrentRole          string   `json:"current_role"`
	YearsExperience      int      `json:"years_experience" binding:"gte=0"`
	Interests            []string `json:"interests"`
	CurrentSkills        string   `json:"current_skills"`
	DesiredRoles         []string `json:"desired_roles"`
	CareerGoals          string   `json:"career_goals"`
	AISuggestedPaths     string   `json:"ai_suggested_paths"`
	AIRecommendedCourses string   `json:"ai_recommended_courses"`
	Visibility           string   `json:"visibility" binding:"omitempty,oneof=private public"`
	RequestSuggestions   bool     `json:"request_suggestions"`
}

// UpdatePlanRequest fields left out of the body stay unchanged.
type UpdatePlanRequest struct {
	FullName             *string   `json:"full_name"`
	Email                *string   `json:"email"`
	CurrentRole          *string   `json:"current_role"`
	YearsExperience      *int      `json:"years_experience" binding:"omitempty,gte=0"`
	Interests            *[]string `json:"interests"`
	CurrentSkills        *string   `json:"current_skills"`
	DesiredRoles         *[]string `json:"desired_roles"`
	CareerGoals          *string   `json:"career_goals"`
	AISuggestedPaths     *string   `json:"ai_suggested_paths"`
	AIRecommendedCourses *string   `json:"ai_recommended_courses"`
	Visibility           *string   `json:"visibility" binding:"omitempty,oneof=private public"`
	Status               *string   `json:"status" binding:"omitempty,oneof=draft submitted reviewed approved"`
	RequestSuggestions   bool      `json:"request_suggestions"`
}

func (r *UpdatePlanRequest) ToPatch() plan.Patch {
	patch := plan.Patch{
		FullName:             r.FullName,
		Email:                r.Email,
		CurrentRole:          r.CurrentRole,
		YearsExperience:      r.YearsExperience,
		Interests:            r.Interests,
		CurrentSkills:        r.CurrentSkills,
		DesiredRoles:         r.DesiredRoles,
		CareerGoals:          r.CareerGoals,
		AISuggestedPaths:     r.AISuggestedPaths,
		AIRecommendedCourses: r.AIRecommendedCourses,
	}
	if r.Visibility != nil {
		v := plan.Visibility(*r.Visibility)
		patch.Visibility = &v
	}
	if r.Status != nil {
		s := plan.Status(*r.Status)
		patch.Status = &s
	}
	return patch
}

type PlanDTO struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	FullName             string    `json:"full_name"`
	Email                string    `json:"email"`
	CurrentRole          string    `json:"current_role"`
	YearsExperience      int       `json:"years_experience"`
	Interests            []string  `json:"interests"`
	CurrentSkills        string    `json:"current_skills"`
	DesiredRoles         []string  `json:"desired_roles"`
	CareerGoals          string    `json:"career_goals"`
	AISuggestedPaths     string    `json:"ai_suggested_paths"`
	AIRecommendedCourses string    `json:"ai_recommended_courses"`
	Visibility           string    `json:"visibility"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func ToPlanDTO(p *plan.CareerPlan) PlanDTO {
	return PlanDTO{
		ID:                   p.ID.String(),
		UserID:               p.UserID,
		FullName:             p.FullName,
		Email:                p.Email,
		CurrentRole:          p.CurrentRole,
		YearsExperience:      p.YearsExperience,
		Interests:            nonNilStrings(p.Interests),
		CurrentSkills:        p.CurrentSkills,
		DesiredRoles:         nonNilStrings(p.DesiredRoles),
		CareerGoals:          p.CareerGoals,
		AISuggestedPaths:     p.AISuggestedPaths,
		AIRecommendedCourses: p.AIRecommendedCourses,
		Visibility:           string(p.Visibility),
		Status:               string(p.Status),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func ToPlanDTOs(plans []*plan.CareerPlan) []PlanDTO {
	out := make([]PlanDTO, len(plans))
	for i, p := range plans {
		out[i] = ToPlanDTO(p)
	}
	return out
}

type RenderedPlanDTO struct {
	ID                       string `json:"id"`
	AISuggestedPathsHTML     string `json:"ai_suggested_paths_html"`
	AIRecommendedCoursesHTML string `json:"ai_recommended_courses_html"`
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// Advisor DTOs

type CareerPathsRequest struct {
	CurrentRole     string   `json:"current_role"`
	YearsExperience int      `json:"years_experience" binding:"gte=0"`
	Skills          string   `json:"skills"`
	Interests       []string `json:"interests"`
	DesiredRoles    []string `json:"desired_roles"`
}

type CoursesRequest struct {
	Skills       string   `json:"skills"`
	DesiredRoles []string `json:"desired_roles"`
}

type AdviceResponse struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Render DTOs

type RenderRequest struct {
	Text string `json:"text"`
}
