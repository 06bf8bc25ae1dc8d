package negotiation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/resolva/claims-backend/internal/core"
)

func TestAggregateEvidence(t *testing.T) {
	items := []core.EvidenceItem{
		{ID: "e1", Processed: true, SuggestedResponsibility: core.PartyVehicleA, Confidence: 0.8},
		{ID: "e2", Processed: true, SuggestedResponsibility: core.PartyVehicleB, Confidence: 0.6},
		{ID: "e3", Processed: false, SuggestedResponsibility: core.PartyVehicleA, Confidence: 0.9}, // skipped
		{ID: "e4", Processed: true, SuggestedResponsibility: core.PartyShared, Confidence: 0.4},
	}

	got := AggregateEvidence(items)

	assert.Equal(t, 3, got.Count)
	assert.InDelta(t, (0.8+0.2)/3, got.WeightA, 1e-9)
	assert.InDelta(t, (0.6+0.2)/3, got.WeightB, 1e-9)
}

func TestAggregateEvidenceNoSuggestionStillCounts(t *testing.T) {
	items := []core.EvidenceItem{
		{ID: "e1", Processed: true, Confidence: 0.7},
		{ID: "e2", Processed: true, SuggestedResponsibility: core.PartyVehicleA, Confidence: 0.5},
	}

	got := AggregateEvidence(items)

	assert.Equal(t, 2, got.Count)
	assert.InDelta(t, 0.25, got.WeightA, 1e-9)
	assert.Zero(t, got.WeightB)
}

func TestAggregateEvidenceEmpty(t *testing.T) {
	got := AggregateEvidence(nil)
	assert.Zero(t, got.Count)
	assert.Zero(t, got.WeightA)
	assert.Zero(t, got.WeightB)
}

func TestAggregateDocumentsFiltersLowConfidence(t *testing.T) {
	items := []core.DocumentItem{
		{ID: "d1", Type: "police report", SuggestedResponsibility: core.PartyVehicleB, Confidence: 0.9},
		{ID: "d2", Type: "statement", SuggestedResponsibility: core.PartyVehicleA, Confidence: 0.2}, // below threshold
		{ID: "d3", Type: "appraisal", SuggestedResponsibility: core.PartyShared, Confidence: 0.6},
	}

	got := AggregateDocuments(items)

	assert.Equal(t, 2, got.Count)
	assert.InDelta(t, 0.3/2, got.WeightA, 1e-9)
	assert.InDelta(t, (0.9+0.3)/2, got.WeightB, 1e-9)
}

func TestAggregatedWeightsStayInRange(t *testing.T) {
	// Averaging over contributing items keeps the summaries inside
	// [0,1], so they always pass negotiation's validation.
	items := []core.EvidenceItem{
		{Processed: true, SuggestedResponsibility: core.PartyVehicleA, Confidence: 1.0},
		{Processed: true, SuggestedResponsibility: core.PartyVehicleA, Confidence: 1.0},
		{Processed: true, SuggestedResponsibility: core.PartyVehicleA, Confidence: 1.0},
	}

	got := AggregateEvidence(items)
	assert.LessOrEqual(t, got.WeightA, 1.0)

	err := validateWeights(got, core.DocumentWeight{})
	assert.NoError(t, err)
}
