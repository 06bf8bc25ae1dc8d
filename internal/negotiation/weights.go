package negotiation

import "github.com/resolva/claims-backend/internal/core"

// minDocumentConfidence filters out documents whose classification is too
// uncertain to influence the split.
const minDocumentConfidence = 0.3

// AggregateEvidence condenses processed evidence items into a single
// weight summary. Unprocessed items are skipped entirely; processed items
// without a responsibility suggestion still count toward the total but
// contribute no weight. A "shared" suggestion splits the item's
// confidence between both parties. Weights are averaged over the
// contributing items so they stay in [0,1].
func AggregateEvidence(items []core.EvidenceItem) core.EvidenceWeight {
	var weightA, weightB float64
	count := 0

	for _, item := range items {
		if !item.Processed {
			continue
		}
		count++

		switch item.SuggestedResponsibility {
		case core.PartyVehicleA:
			weightA += item.Confidence
		case core.PartyVehicleB:
			weightB += item.Confidence
		case core.PartyShared:
			weightA += item.Confidence * 0.5
			weightB += item.Confidence * 0.5
		}
	}

	if count > 0 {
		weightA /= float64(count)
		weightB /= float64(count)
	}

	return core.EvidenceWeight{WeightA: weightA, WeightB: weightB, Count: count}
}

// AggregateDocuments condenses classified documents into a weight
// summary. Documents below minDocumentConfidence are ignored.
func AggregateDocuments(items []core.DocumentItem) core.DocumentWeight {
	var weightA, weightB float64
	count := 0

	for _, item := range items {
		if item.Confidence < minDocumentConfidence {
			continue
		}
		count++

		switch item.SuggestedResponsibility {
		case core.PartyVehicleA:
			weightA += item.Confidence
		case core.PartyVehicleB:
			weightB += item.Confidence
		case core.PartyShared:
			weightA += item.Confidence * 0.5
			weightB += item.Confidence * 0.5
		}
	}

	if count > 0 {
		weightA /= float64(count)
		weightB /= float64(count)
	}

	return core.DocumentWeight{WeightA: weightA, WeightB: weightB, Count: count}
}
