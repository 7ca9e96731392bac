package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/storage"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/testutil"
)

var (
	completedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	submitter   = service.Author{ID: "u1", Name: "Jane Doe"}
)

func submitRequest(defID, workItemID string, values map[string]interface{}) *service.SubmitRequest {
	return &service.SubmitRequest{
		DefinitionID: defID,
		Values:       values,
		CompletedBy:  "Jane Doe",
		CompletedAt:  completedAt,
		WorkItemID:   workItemID,
	}
}

func nameForm(t *testing.T, env *testutil.TestEnv) *entity.FormDefinition {
	return testutil.SeedDefinition(t, env, "Crew list", "Crew", "Lists",
		service.FieldSpecInput{FieldName: "name", FieldType: "text", Required: true})
}

func TestSubmitMissingRequiredField(t *testing.T) {
	env := testutil.NewTestEnv(t)
	def := nameForm(t, env)
	item := testutil.SeedWorkItem(t, env, "Crew list", "Crew", def.ID)

	assert.Equal(t, []string{"name is required"}, service.Validate(def, map[string]interface{}{}))

	_, err := env.Services.Submission.Submit(context.Background(), submitRequest(def.ID, item.ID, map[string]interface{}{}), submitter)
	var ve *service.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"name is required"}, ve.Fields)

	subs, err := env.Services.Submission.ListByDefinition(context.Background(), def.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmitRequiresEveryAttribute(t *testing.T) {
	env := testutil.NewTestEnv(t)
	def := nameForm(t, env)
	ctx := context.Background()

	cases := []func(r *service.SubmitRequest){
		func(r *service.SubmitRequest) { r.DefinitionID = "" },
		func(r *service.SubmitRequest) { r.Values = nil },
		func(r *service.SubmitRequest) { r.CompletedBy = " " },
		func(r *service.SubmitRequest) { r.CompletedAt = time.Time{} },
		func(r *service.SubmitRequest) { r.WorkItemID = "" },
	}
	for i, mutate := range cases {
		req := submitRequest(def.ID, entity.NewID(), map[string]interface{}{"name": "Jane"})
		mutate(req)
		_, err := env.Services.Submission.Submit(ctx, req, submitter)
		var ve *service.ValidationError
		require.True(t, errors.As(err, &ve), "case %d", i)
		assert.Equal(t, "All fields are required", ve.Message)
	}
}

func TestSubmitCompletesWorkItem(t *testing.T) {
	env := testutil.NewTestEnv(t)
	def := nameForm(t, env)
	item := testutil.SeedWorkItem(t, env, "Crew list", "Crew", def.ID)
	ctx := context.Background()

	result, err := env.Services.Submission.Submit(ctx, submitRequest(def.ID, item.ID, map[string]interface{}{"name": "Jane"}), submitter)
	require.NoError(t, err)
	assert.True(t, result.Persisted)
	assert.True(t, result.ArtifactGenerated)
	assert.True(t, result.WorkItemUpdated)
	assert.NoError(t, result.WorkItemErr)

	sub := result.Submission
	assert.True(t, strings.HasPrefix(sub.PDFPath, "/files/pdfs/"+sub.ID+"-"), sub.PDFPath)
	assert.True(t, sub.Completed)

	updated, err := env.Services.WorkItem.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, sub.PDFPath, updated.PDFPath)
	assert.Equal(t, entity.WorkItemCompletedWithArtifact, updated.State)

	key, err := storage.KeyFromURL(sub.PDFPath)
	require.NoError(t, err)
	rc, obj, err := env.Store.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	head := make([]byte, 5)
	_, err = io.ReadFull(rc, head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(head))
	assert.Greater(t, obj.Size, int64(0))
}

func TestSubmitWithUnknownWorkItemStillSucceeds(t *testing.T) {
	env := testutil.NewTestEnv(t)
	def := nameForm(t, env)
	ctx := context.Background()

	result, err := env.Services.Submission.Submit(ctx, submitRequest(def.ID, entity.NewID(), map[string]interface{}{"name": "Jane"}), submitter)
	require.NoError(t, err)
	assert.True(t, result.Persisted)
	assert.True(t, result.ArtifactGenerated)
	assert.False(t, result.WorkItemUpdated)
	var nf *service.NotFoundError
	assert.True(t, errors.As(result.WorkItemErr, &nf))
	assert.NotEmpty(t, result.Submission.PDFPath)
}

func TestSubmissionRoundTrip(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()
	def := testutil.SeedDefinition(t, env, "Tank sounding", "Ops", "Tanks",
		service.FieldSpecInput{FieldName: "tank", Required: true},
		service.FieldSpecInput{FieldName: "level", FieldType: "number"},
		service.FieldSpecInput{FieldName: "sealed", FieldType: "toggle"},
		service.FieldSpecInput{FieldName: "state", FieldType: "radio", Options: []string{"full", "empty"}},
	)
	values := map[string]interface{}{"tank": "3P", "level": 81.5, "sealed": true, "state": "full"}

	result, err := env.Services.Submission.Submit(ctx, submitRequest(def.ID, entity.NewID(), values), submitter)
	require.NoError(t, err)

	got, err := env.Services.Submission.Get(ctx, result.Submission.ID)
	require.NoError(t, err)
	assert.Equal(t, values, map[string]interface{}(got.Fields))
	assert.Equal(t, "Jane Doe", got.CompletedBy)
	assert.Equal(t, "u1", got.SubmittedBy)
	assert.True(t, got.CompletedAt.Equal(completedAt))
}

func TestSubmissionRoundTripKeepsUndeclaredKeys(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()
	def := nameForm(t, env)
	values := map[string]interface{}{"name": "Jane", "remarks": "extra", "berth": 4.0}

	result, err := env.Services.Submission.Submit(ctx, submitRequest(def.ID, entity.NewID(), values), submitter)
	require.NoError(t, err)

	got, err := env.Services.Submission.Get(ctx, result.Submission.ID)
	require.NoError(t, err)
	assert.Equal(t, values, map[string]interface{}(got.Fields))

	art := service.BuildArtifact(def, got, submitter.DisplayName())
	labels := make([]string, 0, len(art.Fields))
	for _, l := range art.Fields {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{"name", "berth", "remarks"}, labels)
}

func TestRegenerateRejectsSubmissionWithPDF(t *testing.T) {
	env := testutil.NewTestEnv(t)
	def := nameForm(t, env)
	item := testutil.SeedWorkItem(t, env, "Crew list", "Crew", def.ID)
	ctx := context.Background()

	result, err := env.Services.Submission.Submit(ctx, submitRequest(def.ID, item.ID, map[string]interface{}{"name": "Jane"}), submitter)
	require.NoError(t, err)
	first := result.Submission.PDFPath

	_, err = env.Services.Submission.Regenerate(ctx, result.Submission.ID, service.Author{ID: "admin", Name: "Test Admin"})
	var ve *service.ValidationError
	require.True(t, errors.As(err, &ve))

	stored, err := env.Services.Submission.Get(ctx, result.Submission.ID)
	require.NoError(t, err)
	assert.Equal(t, first, stored.PDFPath)

	wi, err := env.Services.WorkItem.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, first, wi.PDFPath)
	assert.Equal(t, "Jane Doe", wi.CompletedBy)
}

func TestArtifactFooterUsesSubmitterName(t *testing.T) {
	env := testutil.NewTestEnv(t)
	def := nameForm(t, env)
	ctx := context.Background()

	req := submitRequest(def.ID, entity.NewID(), map[string]interface{}{"name": "Jane"})
	req.CompletedBy = "Chief Officer"
	actor := service.Author{ID: entity.NewID(), Name: "Second Officer"}
	result, err := env.Services.Submission.Submit(ctx, req, actor)
	require.NoError(t, err)

	art := service.BuildArtifact(def, result.Submission, actor.DisplayName())
	assert.Contains(t, art.Footer, service.ArtifactLine{Label: "Generated by", Value: "Second Officer"})
	assert.Equal(t, actor.ID, result.Submission.SubmittedBy)
	assert.Equal(t, actor.ID, service.Author{ID: actor.ID}.DisplayName())
}

func TestGetSubmissionNotFound(t *testing.T) {
	env := testutil.NewTestEnv(t)
	var nf *service.NotFoundError
	_, err := env.Services.Submission.Get(context.Background(), "bogus")
	assert.True(t, errors.As(err, &nf))
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, io.Reader, int64, string) error {
	return errors.New("disk full")
}

func (failingStore) Open(context.Context, string) (io.ReadCloser, *storage.Object, error) {
	return nil, nil, storage.ErrNotFound
}

func (failingStore) Delete(context.Context, string) error { return nil }

func TestArtifactFailureLeavesSubmissionPersisted(t *testing.T) {
	env := testutil.NewTestEnv(t)
	def := nameForm(t, env)
	item := testutil.SeedWorkItem(t, env, "Crew list", "Crew", def.ID)
	ctx := context.Background()

	broken := service.NewSubmissionService(env.Repos.Submission, env.Services.Form, env.Services.WorkItem,
		service.NewPDFGenerator(failingStore{}), nil)
	result, err := broken.Submit(ctx, submitRequest(def.ID, item.ID, map[string]interface{}{"name": "Jane"}), submitter)

	var ae *service.ArtifactGenerationError
	require.True(t, errors.As(err, &ae))
	require.NotNil(t, result)
	assert.True(t, result.Persisted)
	assert.False(t, result.ArtifactGenerated)

	stored, err := env.Services.Submission.Get(ctx, result.Submission.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PDFPath)
	assert.False(t, stored.Completed)

	wi, err := env.Services.WorkItem.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, wi.Completed)

	recovered, err := env.Services.Submission.Regenerate(ctx, stored.ID, service.Author{ID: "admin", Name: "Test Admin"})
	require.NoError(t, err)
	assert.True(t, recovered.ArtifactGenerated)
	assert.True(t, recovered.WorkItemUpdated)
	assert.NotEmpty(t, recovered.Submission.PDFPath)
}
