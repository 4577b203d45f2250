package services

import (
	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/entities"
)

// SimilarityCalculator scores a pair of entries in [0,1]. Implementations
// must be pure and symmetric.
type SimilarityCalculator interface {
	Calculate(a, b *entities.Entry) float64
}

// Features are the pre-extracted sets a score is computed from
type Features struct {
	Tags  map[string]bool
	Words map[string]bool
}

// WeightedJaccardCalculator combines tag-set and word-set Jaccard indices.
// The tag component only contributes when both entries carry tags; its weight
// is then simply unrealized and the score is not renormalized.
type WeightedJaccardCalculator struct {
	tagWeight    float64
	textWeight   float64
	textAnalyzer TextAnalyzer
}

// NewWeightedJaccardCalculator creates a calculator from the domain config
func NewWeightedJaccardCalculator(cfg *config.DomainConfig, textAnalyzer TextAnalyzer) *WeightedJaccardCalculator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if textAnalyzer == nil {
		textAnalyzer = NewDefaultTextAnalyzer(cfg.MinTokenLength)
	}

	return &WeightedJaccardCalculator{
		tagWeight:    cfg.TagWeight,
		textWeight:   cfg.TextWeight,
		textAnalyzer: textAnalyzer,
	}
}

// Calculate calculates similarity between two entries
func (sc *WeightedJaccardCalculator) Calculate(a, b *entities.Entry) float64 {
	if a == nil || b == nil {
		return 0.0
	}
	return sc.CalculateFeatures(sc.Extract(a), sc.Extract(b))
}

// Extract pre-computes the tag and word sets for an entry
func (sc *WeightedJaccardCalculator) Extract(e *entities.Entry) Features {
	tags := make(map[string]bool)
	for _, t := range e.Tags() {
		tags[t] = true
	}
	return Features{
		Tags:  tags,
		Words: sc.textAnalyzer.TokenizeWords(e.Text()),
	}
}

// CalculateFeatures scores two pre-extracted feature sets
func (sc *WeightedJaccardCalculator) CalculateFeatures(a, b Features) float64 {
	tagScore := 0.0
	if len(a.Tags) > 0 && len(b.Tags) > 0 {
		tagScore = jaccard(a.Tags, b.Tags)
	}
	textScore := jaccard(a.Words, b.Words)

	return sc.tagWeight*tagScore + sc.textWeight*textScore
}

// jaccard returns |a∩b| / |a∪b|, or 0 when both sets are empty
func jaccard(a, b map[string]bool) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}

	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
