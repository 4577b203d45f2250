package queries

import (
	"thoughtgraph/domain/services"
	pkgerrors "thoughtgraph/pkg/errors"
)

// GetInsightsQuery asks for the statistical summary. Threshold drives the
// similarity graph the clusters come from.
type GetInsightsQuery struct {
	Threshold float64 `json:"threshold"`
	TopN      int     `json:"topN"`
}

// Validate validates the query
func (q GetInsightsQuery) Validate() error {
	if q.Threshold < 0 || q.Threshold > 1 {
		return pkgerrors.NewValidationError("threshold must be between 0 and 1")
	}
	if q.TopN < 0 {
		return pkgerrors.NewValidationError("topN cannot be negative")
	}
	return nil
}

// GetInsightsResult carries the insights plus graph stats
type GetInsightsResult struct {
	Insights services.Insights `json:"insights"`
	Graph    GraphStats        `json:"graph"`
}
