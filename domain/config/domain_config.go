package config

import (
	"fmt"
	"time"
)

// PinPolicy controls what happens to a dragged node once the drag ends
type PinPolicy string

const (
	// PinPermanent keeps a dragged node fixed for the rest of the session
	PinPermanent PinPolicy = "permanent"
	// PinReleaseOnDrop hands the node back to the simulation when the drag ends
	PinReleaseOnDrop PinPolicy = "release_on_drop"
)

// DomainConfig holds all configurable business rules for the similarity,
// graph and layout pipeline
type DomainConfig struct {
	// Similarity
	TagWeight      float64
	TextWeight     float64
	MinTokenLength int // tokens must be strictly longer than this

	// Connection builder
	DefaultThreshold float64
	ThresholdStep    float64
	MaxActiveEntries int // soft limit; above it the O(n²) build is logged as slow

	// Force simulation
	LinkDistance     float64
	ChargeStrength   float64
	CenterStrength   float64
	CollisionRadius  float64
	AlphaMin         float64
	AlphaDecay       float64
	VelocityDecay    float64
	MaxTicksHeadless int

	// Static layouts
	HierarchyLayers int

	// Render
	BaseRadius          float64
	RadiusPerConnection float64
	MaxRadius           float64
	LabelLength         int
	MinZoom             float64
	MaxZoom             float64

	// Interaction
	PinPolicy      PinPolicy
	SearchDebounce time.Duration
	ResizeSettle   time.Duration
	FrameInterval  time.Duration
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Similarity
		TagWeight:      0.6,
		TextWeight:     0.4,
		MinTokenLength: 3,

		// Connection builder
		DefaultThreshold: 0.2,
		ThresholdStep:    0.05,
		MaxActiveEntries: 500,

		// Force simulation
		LinkDistance:     100,
		ChargeStrength:   -300,
		CenterStrength:   0.05,
		CollisionRadius:  20,
		AlphaMin:         0.001,
		AlphaDecay:       0.0228,
		VelocityDecay:    0.4,
		MaxTicksHeadless: 600,

		// Static layouts
		HierarchyLayers: 5,

		// Render
		BaseRadius:          8,
		RadiusPerConnection: 2,
		MaxRadius:           24,
		LabelLength:         20,
		MinZoom:             0.5,
		MaxZoom:             4,

		// Interaction
		PinPolicy:      PinPermanent,
		SearchDebounce: 300 * time.Millisecond,
		ResizeSettle:   250 * time.Millisecond,
		FrameInterval:  time.Second / 60,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	return DefaultDomainConfig()
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Shorter runs make iterating on the layout code less tedious
	config.MaxTicksHeadless = 300
	config.MaxActiveEntries = 200

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.TagWeight < 0 || c.TextWeight < 0 || c.TagWeight+c.TextWeight > 1.0+1e-9 {
		return fmt.Errorf("similarity weights must be non-negative and sum to at most 1, got %.2f + %.2f",
			c.TagWeight, c.TextWeight)
	}
	if c.DefaultThreshold < 0 || c.DefaultThreshold > 1 {
		return fmt.Errorf("default threshold must be in [0,1], got %.2f", c.DefaultThreshold)
	}
	if c.MinZoom <= 0 || c.MinZoom > c.MaxZoom {
		return fmt.Errorf("invalid zoom bounds [%.2f, %.2f]", c.MinZoom, c.MaxZoom)
	}
	if c.HierarchyLayers < 1 {
		return fmt.Errorf("hierarchy needs at least one layer")
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		return fmt.Errorf("alpha decay must be in (0,1), got %f", c.AlphaDecay)
	}
	switch c.PinPolicy {
	case PinPermanent, PinReleaseOnDrop:
	default:
		return fmt.Errorf("unknown pin policy %q", c.PinPolicy)
	}
	return nil
}
