package advisor

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

const (
	NoSuggestions        = "No suggestions available."
	NoCourses            = "No course recommendations available."
	CareerPathsErrorText = "Error generating career paths. Please check your API key or try again later."
	CoursesErrorText     = "Error recommending courses. Please check your API key or try again later."
)

var tracer = otel.Tracer("advisor_usecase")

// AdvisorUseCase turns a profile into free text through the LLM. It never
// returns an error: failures become placeholder text and are logged.
type AdvisorUseCase struct {
	llm    service.LLMService
	logger logger.Logger
}

func NewAdvisorUseCase(llm service.LLMService, log logger.Logger) *AdvisorUseCase {
	return &AdvisorUseCase{llm: llm, logger: log}
}

type CareerPathsInput struct {
	CurrentRole     string
	YearsExperience int
	Skills          string
	Interests       []string
	DesiredRoles    []string
}

type CoursesInput struct {
	Skills       string
	DesiredRoles []string
}

func (uc *AdvisorUseCase) GenerateCareerPaths(ctx context.Context, input CareerPathsInput) string {
	ctx, span := tracer.Start(ctx, "GenerateCareerPaths")
	defer span.End()

	return uc.ask(ctx, "career_paths", buildCareerPathsPrompt(input), NoSuggestions, CareerPathsErrorText)
}

func (uc *AdvisorUseCase) RecommendCourses(ctx context.Context, input CoursesInput) string {
	ctx, span := tracer.Start(ctx, "RecommendCourses")
	defer span.End()

	return uc.ask(ctx, "courses", buildCoursesPrompt(input), NoCourses, CoursesErrorText)
}

func (uc *AdvisorUseCase) ask(ctx context.Context, kind, prompt, emptyText, errorText string) string {
	l := uc.logger.With(zap.String("advice", kind))

	response, err := uc.llm.GenerateChatResponse(ctx, prompt)
	if err != nil {
		wrapped := apperror.NewExternalService("llm", err)
		l.Error("LLM request failed", wrapped)
		trace.SpanFromContext(ctx).RecordError(wrapped)
		return errorText
	}
	if strings.TrimSpace(response) == "" {
		l.Warn("LLM returned an empty response")
		return emptyText
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("response_length", len(response)))
	return response
}

func buildCareerPathsPrompt(in CareerPathsInput) string {
	var b strings.Builder
	b.WriteString("You are a career advisor. Based on the user's current role, experience, skills, interests, and desired roles,\n")
	b.WriteString("generate 3 clear career path recommendations.\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Current Role: %s\n", in.CurrentRole)
	fmt.Fprintf(&b, "- Years of Experience: %d\n", in.YearsExperience)
	fmt.Fprintf(&b, "- Skills: %s\n", in.Skills)
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(in.Interests, ", "))
	fmt.Fprintf(&b, "- Desired Roles: %s\n\n", strings.Join(in.DesiredRoles, ", "))
	b.WriteString("For each path, include:\n")
	b.WriteString("1. A 2-4 word title\n")
	b.WriteString("2. A 2-3 sentence explanation\n")
	b.WriteString("3. 3 next steps\n")
	b.WriteString("4. 3 recommended online courses\n\n")
	b.WriteString("Return everything as plain text suitable for a markdown viewer or pre-formatted text block.")
	return b.String()
}

func buildCoursesPrompt(in CoursesInput) string {
	var b strings.Builder
	b.WriteString("Recommend 6 online courses based on the user's current skills and desired roles.\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Current Skills: %s\n", in.Skills)
	fmt.Fprintf(&b, "- Desired Roles: %s\n\n", strings.Join(in.DesiredRoles, ", "))
	b.WriteString("Group into:\n")
	b.WriteString("- Short-term (1-4 weeks)\n")
	b.WriteString("- Long-term (2+ months)\n\n")
	b.WriteString("Output as plain text.")
	return b.String()
}
