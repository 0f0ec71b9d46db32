package plan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/career-compass/adapters/persistence"
	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/application/usecase/advisor"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type recordingPublisher struct {
	events chan service.PlanEvent
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan service.PlanEvent, 16)}
}

func (p *recordingPublisher) PublishPlanEvent(_ context.Context, evt service.PlanEvent) error {
	p.events <- evt
	return nil
}

func (p *recordingPublisher) next(t *testing.T) service.PlanEvent {
	t.Helper()
	select {
	case evt := <-p.events:
		return evt
	case <-time.After(time.Second):
		t.Fatal("no plan event published")
		return service.PlanEvent{}
	}
}

type fakeLLM struct {
	mu      sync.Mutex
	answers []string
	err     error
}

func (f *fakeLLM) GenerateChatResponse(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	out := f.answers[0]
	f.answers = f.answers[1:]
	return out, nil
}

type fixture struct {
	repo      plan.Repository
	publisher *recordingPublisher
	create    *CreatePlanUseCase
	list      *ListPlansUseCase
	get       *GetPlanUseCase
	update    *UpdatePlanUseCase
	delete    *DeletePlanUseCase
	llm       *fakeLLM
	generate  *GenerateSuggestionsUseCase
	process   *ProcessPlanEventUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewNopLogger()
	repo := persistence.NewMemoryPlanRepo()
	pub := newRecordingPublisher()
	llm := &fakeLLM{}
	generate := NewGenerateSuggestionsUseCase(repo, advisor.NewAdvisorUseCase(llm, log), log)

	return &fixture{
		repo:      repo,
		publisher: pub,
		create:    NewCreatePlanUseCase(repo, pub, log),
		list:      NewListPlansUseCase(repo, log),
		get:       NewGetPlanUseCase(repo, log),
		update:    NewUpdatePlanUseCase(repo, pub, log),
		delete:    NewDeletePlanUseCase(repo, pub, log),
		llm:       llm,
		generate:  generate,
		process:   NewProcessPlanEventUseCase(generate, log),
	}
}

func sampleInput(owner string, visibility plan.Visibility) CreatePlanInput {
	return CreatePlanInput{
		OwnerID:         owner,
		FullName:        "Ann",
		Email:           "a@x.com",
		CurrentRole:     "Analyst",
		YearsExperience: 2,
		Interests:       []string{" data ", "", "ml"},
		CurrentSkills:   "SQL",
		DesiredRoles:    []string{"Data Engineer"},
		CareerGoals:     "Grow",
		Visibility:      visibility,
	}
}

func TestCreatePlan_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.create.Execute(ctx, sampleInput("axcom", plan.VisibilityPublic))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, plan.StatusDraft, created.Status)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, []string{"data", "ml"}, created.Interests)

	got, err := f.get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	evt := f.publisher.next(t)
	assert.Equal(t, service.PlanCreated, evt.Type)
	assert.Equal(t, created.ID, evt.PlanID)
}

func TestCreatePlan_DefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := sampleInput("axcom", "")
	created, err := f.create.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, plan.VisibilityPrivate, created.Visibility)
	f.publisher.next(t)

	in = sampleInput("", plan.VisibilityPublic)
	_, err = f.create.Execute(ctx, in)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	in = sampleInput("axcom", "friends")
	_, err = f.create.Execute(ctx, in)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	in = sampleInput("axcom", plan.VisibilityPublic)
	in.YearsExperience = -1
	_, err = f.create.Execute(ctx, in)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestGetPlan_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.get.Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListPlans_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1, _ := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPublic))
	b1, _ := f.create.Execute(ctx, sampleInput("bob", plan.VisibilityPublic))
	a2, _ := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPrivate))

	owned, err := f.list.ByOwner(ctx, "ann")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, a1.ID, owned[0].ID)
	assert.Equal(t, a2.ID, owned[1].ID)

	public, err := f.list.Public(ctx)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, a1.ID, public[0].ID)
	assert.Equal(t, b1.ID, public[1].ID)
}

func TestUpdatePlan_MergesOnlyPatchedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPrivate))
	require.NoError(t, err)
	f.publisher.next(t)

	later := created.UpdatedAt.Add(time.Minute)
	f.update.now = func() time.Time { return later }

	public := plan.VisibilityPublic
	roles := []string{" SRE ", ""}
	updated, err := f.update.Execute(ctx, UpdatePlanInput{
		PlanID:  created.ID,
		OwnerID: "ann",
		Patch:   plan.Patch{Visibility: &public, DesiredRoles: &roles},
	})
	require.NoError(t, err)

	want := created.Clone()
	want.Visibility = plan.VisibilityPublic
	want.DesiredRoles = []string{"SRE"}
	want.UpdatedAt = later
	assert.Equal(t, want, updated)

	stored, err := f.get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, want, stored)

	evt := f.publisher.next(t)
	assert.Equal(t, service.PlanUpdated, evt.Type)
}

func TestUpdatePlan_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPrivate))
	require.NoError(t, err)

	name := "Mallory"
	_, err = f.update.Execute(ctx, UpdatePlanInput{PlanID: uuid.New(), OwnerID: "ann", Patch: plan.Patch{FullName: &name}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.update.Execute(ctx, UpdatePlanInput{PlanID: created.ID, OwnerID: "mallory", Patch: plan.Patch{FullName: &name}})
	assert.ErrorIs(t, err, apperror.ErrPermission)

	bogus := plan.Status("archived")
	_, err = f.update.Execute(ctx, UpdatePlanInput{PlanID: created.ID, OwnerID: "ann", Patch: plan.Patch{Status: &bogus}})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	stored, err := f.get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, stored)

	all, err := f.repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdatePlan_AnyStatusSettable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPrivate))
	require.NoError(t, err)

	for _, s := range []plan.Status{plan.StatusApproved, plan.StatusDraft, plan.StatusReviewed, plan.StatusSubmitted} {
		status := s
		updated, err := f.update.Execute(ctx, UpdatePlanInput{PlanID: created.ID, OwnerID: "ann", Patch: plan.Patch{Status: &status}})
		require.NoError(t, err)
		assert.Equal(t, s, updated.Status)
	}
}

func TestDeletePlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPublic))
	require.NoError(t, err)
	f.publisher.next(t)

	_, err = f.delete.Execute(ctx, DeletePlanInput{PlanID: created.ID, OwnerID: "bob"})
	assert.ErrorIs(t, err, apperror.ErrPermission)

	removed, err := f.delete.Execute(ctx, DeletePlanInput{PlanID: created.ID, OwnerID: "ann"})
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, service.PlanDeleted, f.publisher.next(t).Type)

	removed, err = f.delete.Execute(ctx, DeletePlanInput{PlanID: created.ID, OwnerID: "ann"})
	require.NoError(t, err)
	assert.False(t, removed)

	public, err := f.list.Public(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestGenerateSuggestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPrivate))
	require.NoError(t, err)

	f.llm.answers = []string{"## Paths", "## Courses"}
	updated, err := f.generate.Execute(ctx, GenerateSuggestionsInput{PlanID: created.ID, OwnerID: "ann"})
	require.NoError(t, err)
	assert.Equal(t, "## Paths", updated.AISuggestedPaths)
	assert.Equal(t, "## Courses", updated.AIRecommendedCourses)

	f.llm.err = errors.New("quota")
	updated, err = f.generate.Execute(ctx, GenerateSuggestionsInput{PlanID: created.ID, OwnerID: "ann"})
	require.NoError(t, err)
	assert.Equal(t, advisor.CareerPathsErrorText, updated.AISuggestedPaths)
	assert.Equal(t, advisor.CoursesErrorText, updated.AIRecommendedCourses)

	_, err = f.generate.Execute(ctx, GenerateSuggestionsInput{PlanID: created.ID, OwnerID: "bob"})
	assert.ErrorIs(t, err, apperror.ErrPermission)
}

func TestProcessPlanEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPrivate))
	require.NoError(t, err)

	// not requested: llm must not be called
	f.llm.err = errors.New("must not be called")
	require.NoError(t, f.process.Execute(ctx, service.PlanEvent{Type: service.PlanCreated, PlanID: created.ID, OwnerID: "ann"}))
	stored, _ := f.get.Execute(ctx, created.ID)
	assert.Empty(t, stored.AISuggestedPaths)

	f.llm.err = nil
	f.llm.answers = []string{"paths", "courses"}
	require.NoError(t, f.process.Execute(ctx, service.PlanEvent{
		Type: service.PlanCreated, PlanID: created.ID, OwnerID: "ann", RequestSuggestions: true,
	}))
	stored, _ = f.get.Execute(ctx, created.ID)
	assert.Equal(t, "paths", stored.AISuggestedPaths)
	assert.Equal(t, "courses", stored.AIRecommendedCourses)

	assert.NoError(t, f.process.Execute(ctx, service.PlanEvent{
		Type: service.PlanUpdated, PlanID: uuid.New(), OwnerID: "ann", RequestSuggestions: true,
	}))
}

func TestScenario_RegisteredUserPublicPlanThenDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kept, err := f.create.Execute(ctx, sampleInput("axcom", plan.VisibilityPublic))
	require.NoError(t, err)
	dropped, err := f.create.Execute(ctx, sampleInput("axcom", plan.VisibilityPublic))
	require.NoError(t, err)

	removed, err := f.delete.Execute(ctx, DeletePlanInput{PlanID: dropped.ID, OwnerID: "axcom"})
	require.NoError(t, err)
	require.True(t, removed)

	public, err := f.list.Public(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, kept.ID, public[0].ID)
}

// gatedLLM answers every prompt only after release is closed.
type gatedLLM struct {
	started chan struct{}
	release chan struct{}
	answer  string
}

func (g *gatedLLM) GenerateChatResponse(ctx context.Context, _ string) (string, error) {
	select {
	case g.started <- struct{}{}:
	default:
	}
	select {
	case <-g.release:
		return g.answer, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestGenerateSuggestions_KeepsConcurrentOwnerEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	log := logger.NewNopLogger()

	created, err := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPrivate))
	require.NoError(t, err)

	llm := &gatedLLM{started: make(chan struct{}, 1), release: make(chan struct{}), answer: "## Path"}
	generate := NewGenerateSuggestionsUseCase(f.repo, advisor.NewAdvisorUseCase(llm, log), log)

	type result struct {
		plan *plan.CareerPlan
		err  error
	}
	done := make(chan result, 1)
	go func() {
		p, err := generate.Execute(ctx, GenerateSuggestionsInput{PlanID: created.ID, OwnerID: "ann"})
		done <- result{p, err}
	}()

	select {
	case <-llm.started:
	case <-time.After(time.Second):
		t.Fatal("advisor was never called")
	}

	goals := "Lead a data team"
	public := plan.VisibilityPublic
	_, err = f.update.Execute(ctx, UpdatePlanInput{
		PlanID:  created.ID,
		OwnerID: "ann",
		Patch:   plan.Patch{CareerGoals: &goals, Visibility: &public},
	})
	require.NoError(t, err)

	close(llm.release)
	res := <-done
	require.NoError(t, res.err)

	stored, err := f.get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lead a data team", stored.CareerGoals)
	assert.Equal(t, plan.VisibilityPublic, stored.Visibility)
	assert.Equal(t, "## Path", stored.AISuggestedPaths)
	assert.Equal(t, "## Path", stored.AIRecommendedCourses)
	assert.Equal(t, stored, res.plan)
}

func TestGenerateSuggestions_PlanDeletedWhileAdvising(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	log := logger.NewNopLogger()

	created, err := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPrivate))
	require.NoError(t, err)

	llm := &gatedLLM{started: make(chan struct{}, 1), release: make(chan struct{}), answer: "x"}
	generate := NewGenerateSuggestionsUseCase(f.repo, advisor.NewAdvisorUseCase(llm, log), log)

	errs := make(chan error, 1)
	go func() {
		_, err := generate.Execute(ctx, GenerateSuggestionsInput{PlanID: created.ID, OwnerID: "ann"})
		errs <- err
	}()
	<-llm.started

	removed, err := f.delete.Execute(ctx, DeletePlanInput{PlanID: created.ID, OwnerID: "ann"})
	require.NoError(t, err)
	require.True(t, removed)

	close(llm.release)
	assert.ErrorIs(t, <-errs, apperror.ErrNotFound)

	all, err := f.repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTimestamps_MicrosecondPrecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 4, 5, 6, 7, 123456789, time.UTC)
	f.create.now = func() time.Time { return at }
	f.update.now = func() time.Time { return at.Add(time.Second) }
	f.generate.now = func() time.Time { return at.Add(2 * time.Second) }

	created, err := f.create.Execute(ctx, sampleInput("ann", plan.VisibilityPrivate))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 5, 6, 7, 123456000, time.UTC), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	goals := "x"
	updated, err := f.update.Execute(ctx, UpdatePlanInput{PlanID: created.ID, OwnerID: "ann", Patch: plan.Patch{CareerGoals: &goals}})
	require.NoError(t, err)
	assert.Zero(t, updated.UpdatedAt.Nanosecond()%1000)

	f.llm.answers = []string{"p", "c"}
	suggested, err := f.generate.Execute(ctx, GenerateSuggestionsInput{PlanID: created.ID, OwnerID: "ann"})
	require.NoError(t, err)
	assert.Zero(t, suggested.UpdatedAt.Nanosecond()%1000)
}
