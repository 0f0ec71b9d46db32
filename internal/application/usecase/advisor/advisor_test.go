package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/career-compass/pkg/logger"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateChatResponse(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestGenerateCareerPaths(t *testing.T) {
	input := CareerPathsInput{
		CurrentRole:     "Analyst",
		YearsExperience: 3,
		Skills:          "SQL, Excel",
		Interests:       []string{"data", "ml"},
		DesiredRoles:    []string{"Data Engineer", "ML Engineer"},
	}

	tests := []struct {
		name string
		llm  *fakeLLM
		want string
	}{
		{name: "passes response through", llm: &fakeLLM{response: "## Data Path"}, want: "## Data Path"},
		{name: "empty response", llm: &fakeLLM{response: ""}, want: NoSuggestions},
		{name: "whitespace response", llm: &fakeLLM{response: " \n "}, want: NoSuggestions},
		{name: "llm failure", llm: &fakeLLM{err: errors.New("quota")}, want: CareerPathsErrorText},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewAdvisorUseCase(tc.llm, logger.NewNopLogger())
			assert.Equal(t, tc.want, uc.GenerateCareerPaths(context.Background(), input))
			assert.Len(t, tc.llm.prompts, 1)
		})
	}
}

func TestRecommendCourses(t *testing.T) {
	input := CoursesInput{Skills: "Go", DesiredRoles: []string{"SRE"}}

	ok := &fakeLLM{response: "1. Course"}
	assert.Equal(t, "1. Course", NewAdvisorUseCase(ok, logger.NewNopLogger()).RecommendCourses(context.Background(), input))

	empty := &fakeLLM{}
	assert.Equal(t, NoCourses, NewAdvisorUseCase(empty, logger.NewNopLogger()).RecommendCourses(context.Background(), input))

	failing := &fakeLLM{err: errors.New("down")}
	assert.Equal(t, CoursesErrorText, NewAdvisorUseCase(failing, logger.NewNopLogger()).RecommendCourses(context.Background(), input))
}

func TestPrompts(t *testing.T) {
	paths := buildCareerPathsPrompt(CareerPathsInput{
		CurrentRole:     "Analyst",
		YearsExperience: 3,
		Skills:          "SQL",
		Interests:       []string{"data", "ml"},
		DesiredRoles:    []string{"Data Engineer", "ML Engineer"},
	})
	assert.Contains(t, paths, "generate 3 clear career path recommendations")
	assert.Contains(t, paths, "- Current Role: Analyst")
	assert.Contains(t, paths, "- Years of Experience: 3")
	assert.Contains(t, paths, "- Interests: data, ml")
	assert.Contains(t, paths, "- Desired Roles: Data Engineer, ML Engineer")
	assert.Contains(t, paths, "4. 3 recommended online courses")

	courses := buildCoursesPrompt(CoursesInput{Skills: "Go", DesiredRoles: []string{"SRE", "Platform Engineer"}})
	assert.Contains(t, courses, "Recommend 6 online courses")
	assert.Contains(t, courses, "- Current Skills: Go")
	assert.Contains(t, courses, "- Desired Roles: SRE, Platform Engineer")
	assert.Contains(t, courses, "Short-term (1-4 weeks)")
	assert.Contains(t, courses, "Long-term (2+ months)")
}
