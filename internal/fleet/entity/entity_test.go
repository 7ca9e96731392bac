package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestNewIDIsValid(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 32)
	assert.True(t, IsValidID(id))
	assert.False(t, IsValidID("not-an-id"))
	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
}

func TestFieldTypeHelpers(t *testing.T) {
	assert.True(t, FieldTypeDropdown.HasOptions())
	assert.True(t, FieldTypeRadio.HasOptions())
	assert.False(t, FieldTypeCheckbox.HasOptions())
	assert.True(t, FieldTypeImage.IsFile())
	assert.True(t, FieldTypeSection.IsKnown())
	assert.False(t, FieldType("signature-pad").IsKnown())
}

func TestNCRTransitions(t *testing.T) {
	tests := []struct {
		from    NCRStatus
		event   NCREvent
		want    NCRStatus
		wantErr bool
	}{
		{NCRStatusOpen, NCREventCorrectiveActionEntered, NCRStatusPendingSignOff, false},
		{NCRStatusPendingSignOff, NCREventCorrectiveActionEntered, NCRStatusPendingSignOff, false},
		{NCRStatusPendingSignOff, NCREventClose, NCRStatusClosed, false},
		{NCRStatusClosed, NCREventReopen, NCRStatusOpen, false},
		{NCRStatusOpen, NCREventClose, NCRStatusOpen, true},
		{NCRStatusClosed, NCREventCorrectiveActionEntered, NCRStatusClosed, true},
		{NCRStatusOpen, NCREventReopen, NCRStatusOpen, true},
	}
	for _, tt := range tests {
		got, err := tt.from.Next(tt.event)
		if tt.wantErr {
			var te *ErrInvalidTransition
			assert.ErrorAs(t, err, &te, "%s + %s", tt.from, tt.event)
		} else {
			assert.NoError(t, err)
		}
		assert.Equal(t, tt.want, got, "%s + %s", tt.from, tt.event)
	}
}

func TestApplicabilityMatches(t *testing.T) {
	vessel := &Vessel{VesselType: "Tanker", Flag: "Malta", RegistrationType: "Commercial", GrossTonnage: 3000, Length: 95}

	assert.True(t, Applicability{}.Matches(vessel), "empty filter matches everything")
	assert.True(t, Applicability{GrossTonnageMin: ptr(500), GrossTonnageMax: ptr(3000)}.Matches(vessel))
	assert.False(t, Applicability{GrossTonnageMin: ptr(3001)}.Matches(vessel))
	assert.False(t, Applicability{GrossTonnageMax: ptr(499)}.Matches(vessel))
	assert.True(t, Applicability{VesselTypes: []string{"tanker", "bulk"}}.Matches(vessel))
	assert.False(t, Applicability{Flags: []string{"Panama"}}.Matches(vessel))
	assert.False(t, Applicability{LengthMax: ptr(24)}.Matches(vessel))
}

func TestWorkItemNextDueDate(t *testing.T) {
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	done := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	item := &WorkItem{DueDate: &due}
	assert.Nil(t, item.NextDueDate(done), "no recurrence")

	item.Recurrence = Recurrence{Frequency: FrequencyWeeks, Interval: 2, Basis: BasisDueDate}
	next := item.NextDueDate(done)
	require.NotNil(t, next)
	assert.Equal(t, due.AddDate(0, 0, 14), *next)

	item.Recurrence = Recurrence{Frequency: FrequencyMonths, Interval: 1, Basis: BasisCompletionDate}
	next = item.NextDueDate(done)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), *next)
}

func TestRecurrenceValid(t *testing.T) {
	assert.True(t, Recurrence{}.Valid())
	assert.True(t, Recurrence{Frequency: FrequencyYears, Interval: 1}.Valid())
	assert.False(t, Recurrence{Frequency: "fortnights", Interval: 1}.Valid())
	assert.False(t, Recurrence{Frequency: FrequencyDays, Interval: 0}.Valid())
	assert.False(t, Recurrence{Frequency: FrequencyDays, Interval: 3, Basis: "whenever"}.Valid())
}

func TestWorkItemState(t *testing.T) {
	item := &WorkItem{}
	assert.Equal(t, WorkItemOutstanding, item.ComputeState())
	item.Completed = true
	assert.Equal(t, WorkItemCompletedWithoutArtifact, item.ComputeState())
	item.PDFPath = "/files/pdfs/x.pdf"
	assert.Equal(t, WorkItemCompletedWithArtifact, item.ComputeState())
	assert.True(t, item.Resolved())
}

func TestCommentReaders(t *testing.T) {
	c := &Comment{AuthorID: "alice"}
	assert.True(t, c.IsReadBy("alice"), "authors are never unread to themselves")
	assert.False(t, c.IsReadBy("bob"))

	assert.True(t, c.AddReader("bob"))
	assert.False(t, c.AddReader("bob"))
	assert.Equal(t, []string{"bob"}, []string(c.ReadBy))
	assert.True(t, c.IsReadBy("bob"))
}
