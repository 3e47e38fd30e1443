package batch

import (
	"fmt"

	"Solids/internal/calc/solid"
)

// MaxItems bounds one batch request.
const MaxItems = 500

type SolidBatchInput struct {
	Items []solid.Input `json:"items"`
}

// ItemResult carries either the outcome of one item or the message of its error.
type ItemResult struct {
	Index   int            `json:"index"`
	Outcome *solid.Outcome `json:"outcome,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type SolidBatchResult struct {
	Count   int          `json:"count"`
	Failed  int          `json:"failed"`
	Results []ItemResult `json:"results"`
}

// CalculateSolids runs every item independently; a rejected item does not stop the rest.
func CalculateSolids(in SolidBatchInput) (SolidBatchResult, error) {
	if len(in.Items) == 0 {
		return SolidBatchResult{}, fmt.Errorf("no items")
	}
	if len(in.Items) > MaxItems {
		return SolidBatchResult{}, fmt.Errorf("too many items: %d > %d", len(in.Items), MaxItems)
	}
	out := SolidBatchResult{Results: make([]ItemResult, 0, len(in.Items))}
	for i, item := range in.Items {
		out.Results = append(out.Results, CalculateItem(i, item))
	}
	out.Count = len(out.Results)
	for _, r := range out.Results {
		if r.Error != "" {
			out.Failed++
		}
	}
	return out, nil
}

func CalculateItem(i int, item solid.Input) ItemResult {
	res, err := solid.Calculate(item)
	if err != nil {
		return ItemResult{Index: i, Error: solid.Message(err)}
	}
	return ItemResult{Index: i, Outcome: &res}
}
