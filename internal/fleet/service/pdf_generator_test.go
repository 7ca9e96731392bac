package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
)

func TestBuildArtifactLayout(t *testing.T) {
	def := &entity.FormDefinition{
		Name: "Bunkering",
		Fields: []entity.FieldSpec{
			{FieldName: "Header", FieldType: entity.FieldTypeSection},
			{FieldName: "quantity", FieldType: entity.FieldTypeNumber},
			{FieldName: "photo", FieldType: entity.FieldTypeImage},
			{FieldName: "grade", FieldType: entity.FieldTypeText},
		},
	}
	sub := &entity.FormSubmission{
		ID:          "sub1",
		Fields:      map[string]interface{}{"grade": "VLSFO", "quantity": 350.0, "photo": "/files/uploads/p.jpg", "legacy": true, "aux": "x"},
		CompletedBy: "Jane Doe",
		CompletedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Signature:   "/files/signatures/s.png",
	}

	art := BuildArtifact(def, sub, "Jane Doe")
	assert.Equal(t, "Bunkering - Submission sub1", art.Title)
	assert.Equal(t, []ArtifactLine{
		{Label: "quantity", Value: "350"},
		{Label: "grade", Value: "VLSFO"},
		{Label: "aux", Value: "x"},
		{Label: "legacy", Value: "Yes"},
	}, art.Fields)
	assert.Equal(t, []ArtifactLine{
		{Label: "photo", Value: "/files/uploads/p.jpg"},
		{Label: "Signature", Value: "/files/signatures/s.png"},
	}, art.Attachments)
	assert.Equal(t, []ArtifactLine{
		{Label: "Completed by", Value: "Jane Doe"},
		{Label: "Completed at", Value: "2024-01-01T00:00:00Z"},
	}, art.Footer)
}

func TestBuildArtifactWithoutDefinition(t *testing.T) {
	sub := &entity.FormSubmission{ID: "sub2", Fields: map[string]interface{}{"b": "2", "a": "1"}}
	art := BuildArtifact(nil, sub, "Officer")
	assert.Equal(t, "Submission sub2", art.Title)
	assert.Equal(t, "a", art.Fields[0].Label)
	assert.Equal(t, "Officer", art.Footer[0].Value)
}

func TestRenderPDF(t *testing.T) {
	art := &Artifact{Title: "Crew list - Submission x", Fields: []ArtifactLine{{Label: "name", Value: "Zoë"}}}
	body, err := renderPDF(art, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "%PDF-", string(body[:5]))
}
