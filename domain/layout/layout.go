package layout

import (
	"fmt"
	"strings"

	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/valueobjects"
)

// Mode selects a layout algorithm
type Mode string

const (
	ModeForce        Mode = "force"
	ModeCircular     Mode = "circular"
	ModeHierarchical Mode = "hierarchical"
)

// Modes lists every mode in cycling order
var Modes = []Mode{ModeForce, ModeCircular, ModeHierarchical}

// ParseMode converts user input into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeForce:
		return ModeForce, nil
	case ModeCircular:
		return ModeCircular, nil
	case ModeHierarchical:
		return ModeHierarchical, nil
	default:
		return "", fmt.Errorf("unknown layout mode %q (want force, circular or hierarchical)", s)
	}
}

// String returns the mode name
func (m Mode) String() string {
	return string(m)
}

// Next returns the mode after m in Modes
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeForce
}

// IsStatic reports whether the mode places nodes once instead of simulating
func (m Mode) IsStatic() bool {
	return m == ModeCircular || m == ModeHierarchical
}

// Strategy positions nodes on a canvas, mutating them in place
type Strategy interface {
	Layout(nodes []*aggregates.Node, edges []*aggregates.Edge, size valueobjects.Size)
}

// ForMode returns the strategy for a mode. The force strategy is a fresh
// Simulation that has been seeded but not advanced.
func ForMode(m Mode, cfg *config.DomainConfig) Strategy {
	switch m {
	case ModeCircular:
		return Circular{}
	case ModeHierarchical:
		return NewHierarchical(cfg.HierarchyLayers)
	default:
		return NewSimulation(cfg)
	}
}

// placeStatic moves a node for a static layout. Pins and velocities are
// cleared since static layouts own every position.
func placeStatic(n *aggregates.Node, x, y float64) {
	n.Release()
	n.VX, n.VY = 0, 0
	n.MoveTo(valueobjects.Pos(x, y))
}
