package layout

import (
	"math"
	"math/rand"

	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/valueobjects"
)

const (
	initialRadius = 10
	jiggleSeed    = 1
)

// initialAngle is the golden angle used for phyllotaxis placement
var initialAngle = math.Pi * (3 - math.Sqrt(5))

// TickInfo is passed to tick observers after every step
type TickInfo struct {
	Tick  int
	Alpha float64
	Hot   bool
}

// Simulation is a force-directed layout. It never advances on its
// own: a scheduler calls Step once per frame (or RunUntilStable headless)
// and observers registered with OnTick repaint.
type Simulation struct {
	linkDistance   float64
	chargeStrength float64
	centerStrength float64
	collideRadius  float64
	alphaMin       float64
	alphaDecay     float64
	velocityDecay  float64

	nodes  []*aggregates.Node
	links  []link
	center valueobjects.Position

	alpha       float64
	alphaTarget float64
	running     bool
	ticks       int

	random    *rand.Rand
	observers []func(TickInfo)
}

// NewSimulation creates an idle simulation with the configured forces
func NewSimulation(cfg *config.DomainConfig) *Simulation {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Simulation{
		linkDistance:   cfg.LinkDistance,
		chargeStrength: cfg.ChargeStrength,
		centerStrength: cfg.CenterStrength,
		collideRadius:  cfg.CollisionRadius,
		alphaMin:       cfg.AlphaMin,
		alphaDecay:     cfg.AlphaDecay,
		velocityDecay:  cfg.VelocityDecay,
		random:         rand.New(rand.NewSource(jiggleSeed)),
	}
}

// Layout implements Strategy. It discards all previous layout state
// (positions, velocities and pins), seeds a phyllotaxis spiral around the
// canvas center and reheats to alpha 1.
func (s *Simulation) Layout(nodes []*aggregates.Node, edges []*aggregates.Edge, size valueobjects.Size) {
	s.nodes = nodes
	s.center = size.Center()
	s.random = rand.New(rand.NewSource(jiggleSeed))
	s.ticks = 0
	s.alphaTarget = 0

	for i, n := range nodes {
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		n.Release()
		n.VX, n.VY = 0, 0
		n.MoveTo(valueobjects.Pos(
			s.center.X()+radius*math.Cos(angle),
			s.center.Y()+radius*math.Sin(angle),
		))
	}

	s.links = buildLinks(nodes, edges)
	s.Restart()
}

// Resize moves the centering target without touching node state
func (s *Simulation) Resize(size valueobjects.Size) {
	s.center = size.Center()
}

// Restart re-seeds alpha to 1 and marks the simulation hot
func (s *Simulation) Restart() {
	s.alpha = 1
	s.running = len(s.nodes) > 0
}

// Reheat keeps the simulation hot at the given target alpha without
// resetting it, as while a node is being dragged. A target of 0 lets it
// cool down normally again.
func (s *Simulation) Reheat(target float64) {
	s.alphaTarget = target
	if len(s.nodes) > 0 {
		s.running = true
	}
}

// Stop halts the simulation; Step becomes a no-op until Restart
func (s *Simulation) Stop() {
	s.running = false
}

// IsRunning reports whether the simulation is still hot
func (s *Simulation) IsRunning() bool {
	return s.running
}

// Alpha returns the current temperature
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Ticks returns the number of steps since the last Layout
func (s *Simulation) Ticks() int {
	return s.ticks
}

// OnTick registers an observer called after every step
func (s *Simulation) OnTick(fn func(TickInfo)) {
	s.observers = append(s.observers, fn)
}

// Step advances the simulation by one tick and reports whether it is still
// hot. A stopped simulation does nothing and returns false.
func (s *Simulation) Step() bool {
	if !s.running {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCenter()
	s.applyCollision()

	retain := 1 - s.velocityDecay
	for _, n := range s.nodes {
		if at, pinned := n.Pin.At(); pinned {
			n.VX, n.VY = 0, 0
			n.MoveTo(at)
			continue
		}
		n.VX *= retain
		n.VY *= retain
		n.MoveTo(n.Position.Translate(n.VX, n.VY))
	}

	s.ticks++
	if s.alpha < s.alphaMin {
		s.running = false
	}

	info := TickInfo{Tick: s.ticks, Alpha: s.alpha, Hot: s.running}
	for _, fn := range s.observers {
		fn(info)
	}

	return s.running
}

// RunUntilStable steps until the simulation cools or maxTicks is reached
// and returns the number of steps taken
func (s *Simulation) RunUntilStable(maxTicks int) int {
	steps := 0
	for steps < maxTicks && s.running {
		s.Step()
		steps++
	}
	return steps
}

// jiggle returns a tiny random offset used to separate coincident nodes
func (s *Simulation) jiggle() float64 {
	return (s.random.Float64() - 0.5) * 1e-6
}
