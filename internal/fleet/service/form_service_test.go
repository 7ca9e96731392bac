package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/testutil"
)

func TestCreateDefinitionRequiresCoreAttributes(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, err := env.Services.Form.Create(context.Background(), &service.DefinitionRequest{}, "u1")

	var ve *service.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.ElementsMatch(t, []string{
		"name is required", "category is required", "subcategory is required", "fields is required",
	}, ve.Fields)
}

func TestCreateDefinitionNormalizesFields(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()

	def, err := env.Services.Form.Create(ctx, &service.DefinitionRequest{
		Name:        "Engine room round",
		Category:    "Safety",
		Subcategory: "Daily",
		Fields: []service.FieldSpecInput{
			{FieldName: "zeta"},
			{FieldName: "alpha", FieldType: "dropdown", Options: []string{"ok", "fault"}},
			{FieldName: "mid", FieldType: "text", Options: []string{"leak"}},
		},
		Applicability: service.ApplicabilityInput{
			GrossTonnageMin: "no min",
			GrossTonnageMax: "5000",
		},
	}, "u1")
	require.NoError(t, err)

	stored, err := env.Services.Form.Get(ctx, def.ID)
	require.NoError(t, err)
	require.Len(t, stored.Fields, 3)
	assert.Equal(t, "zeta", stored.Fields[0].FieldName)
	assert.Equal(t, "alpha", stored.Fields[1].FieldName)
	assert.Equal(t, "mid", stored.Fields[2].FieldName)
	assert.Equal(t, entity.FieldTypeText, stored.Fields[0].FieldType)
	assert.Equal(t, []string{"ok", "fault"}, stored.Fields[1].Options)
	assert.Empty(t, stored.Fields[2].Options)
	assert.Nil(t, stored.Applicability.GrossTonnageMin)
	require.NotNil(t, stored.Applicability.GrossTonnageMax)
	assert.Equal(t, 5000.0, *stored.Applicability.GrossTonnageMax)
}

func TestCreateDefinitionRejectsBadBoundsAndTypes(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()
	base := func() *service.DefinitionRequest {
		return &service.DefinitionRequest{
			Name: "n", Category: "c", Subcategory: "s",
			Fields: []service.FieldSpecInput{{FieldName: "f"}},
		}
	}

	req := base()
	req.Applicability.GrossTonnageMin = "heavy"
	_, err := env.Services.Form.Create(ctx, req, "u1")
	var ve *service.ValidationError
	assert.True(t, errors.As(err, &ve))

	req = base()
	req.Fields = []service.FieldSpecInput{{FieldName: "f", FieldType: "hologram"}}
	_, err = env.Services.Form.Create(ctx, req, "u1")
	var unknown *service.UnknownFieldTypeError
	assert.True(t, errors.As(err, &ve))
	assert.True(t, errors.As(err, &unknown))
}

func TestGetDefinitionNotFound(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()

	var nf *service.NotFoundError
	_, err := env.Services.Form.Get(ctx, "not-an-id")
	assert.True(t, errors.As(err, &nf))
	_, err = env.Services.Form.Get(ctx, entity.NewID())
	assert.True(t, errors.As(err, &nf))
}

func TestDistinctProjections(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()
	field := service.FieldSpecInput{FieldName: "name"}
	testutil.SeedDefinition(t, env, "Fire drill", "Safety", "Drills", field)
	testutil.SeedDefinition(t, env, "Abandon ship", "Safety", "Drills", field)
	testutil.SeedDefinition(t, env, "Oil record", "Environment", "Logs", field)

	categories, err := env.Services.Form.DistinctCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Environment", "Safety"}, categories)

	subs, err := env.Services.Form.DistinctSubcategories(ctx, "Nothing")
	require.NoError(t, err)
	assert.Empty(t, subs)

	names, err := env.Services.Form.DistinctFormNames(ctx, "Drills")
	require.NoError(t, err)
	assert.Equal(t, []string{"Abandon ship", "Fire drill"}, names)

	_, err = env.Services.Form.DistinctFormNames(ctx, "Nothing")
	var nf *service.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestCategoriesForVessel(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()
	field := []service.FieldSpecInput{{FieldName: "name"}}

	_, err := env.Services.Form.Create(ctx, &service.DefinitionRequest{
		Name: "Small craft check", Category: "Small", Subcategory: "s", Fields: field,
		Applicability: service.ApplicabilityInput{GrossTonnageMax: 500},
	}, "u1")
	require.NoError(t, err)
	_, err = env.Services.Form.Create(ctx, &service.DefinitionRequest{
		Name: "Tanker check", Category: "Tanker", Subcategory: "s", Fields: field,
		Applicability: service.ApplicabilityInput{VesselTypes: []string{"Tanker"}, GrossTonnageMin: "no min", GrossTonnageMax: "no max"},
	}, "u1")
	require.NoError(t, err)

	vessel := testutil.SeedVessel(t, env, service.VesselRequest{Name: "MT Aurora", VesselType: "tanker", GrossTonnage: 12000})
	categories, err := env.Services.Form.CategoriesForVessel(ctx, vessel.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tanker"}, categories)
}

func TestDeleteDefinitionKeepsSubmissions(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ctx := context.Background()
	def := testutil.SeedDefinition(t, env, "Fire drill", "Safety", "Drills", service.FieldSpecInput{FieldName: "name"})
	item := testutil.SeedWorkItem(t, env, "Fire drill", "Safety", def.ID)

	result, err := env.Services.Submission.Submit(ctx, submitRequest(def.ID, item.ID, map[string]interface{}{"name": "Jane"}), service.Author{ID: "u1", Name: "Jane Doe"})
	require.NoError(t, err)

	require.NoError(t, env.Services.Form.Delete(ctx, def.ID))
	sub, err := env.Services.Submission.Get(ctx, result.Submission.ID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, sub.FormDefinitionID)
}
