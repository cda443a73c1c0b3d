package physics

import (
	"math"

	"github.com/plexkit/plexus/pkg/graph"
)

// Force is one composable component of the layout's net force. Initialize
// is called whenever the registered node set changes; Apply accumulates the
// force into node velocities (or positions, for hard constraints) scaled by
// the simulation's current alpha.
type Force interface {
	Initialize(nodes []*graph.Node)
	Apply(alpha float64)
}

// Link is an edge resolved to live node objects. Construction goes through
// the simulation's registration step, so a Link never carries an endpoint
// that is missing from the node set.
type Link struct {
	Source *graph.Node
	Target *graph.Node
}

// LinkForce pulls connected nodes toward a target separation distance.
type LinkForce struct {
	distance float64
	strength float64

	nodes     []*graph.Node
	links     []Link
	bias      []float64
	strengths []float64
	jiggle    *jiggler
}

// NewLinkForce creates a spring force with the given rest distance and
// base strength. The effective per-link strength is divided by the smaller
// endpoint degree, which keeps hub nodes from being yanked around.
func NewLinkForce(distance, strength float64) *LinkForce {
	return &LinkForce{
		distance: distance,
		strength: strength,
		jiggle:   newJiggler(),
	}
}

// SetLinks replaces the force's resolved link set.
func (f *LinkForce) SetLinks(links []Link) {
	f.links = links
}

// Initialize recomputes per-link degree counts, strengths and biases.
func (f *LinkForce) Initialize(nodes []*graph.Node) {
	f.nodes = nodes

	count := make(map[*graph.Node]int, len(nodes))
	for _, l := range f.links {
		count[l.Source]++
		count[l.Target]++
	}

	f.bias = make([]float64, len(f.links))
	f.strengths = make([]float64, len(f.links))
	for i, l := range f.links {
		cs, ct := count[l.Source], count[l.Target]
		f.bias[i] = float64(cs) / float64(cs+ct)
		f.strengths[i] = f.strength / math.Min(float64(cs), float64(ct))
	}
}

// Apply accumulates spring forces along every link.
func (f *LinkForce) Apply(alpha float64) {
	for i, l := range f.links {
		x := l.Target.X + l.Target.VX - l.Source.X - l.Source.VX
		y := l.Target.Y + l.Target.VY - l.Source.Y - l.Source.VY
		dist := math.Sqrt(x*x + y*y)
		if dist == 0 {
			x, y = f.jiggle.offset()
			dist = math.Sqrt(x*x + y*y)
		}

		k := (dist - f.distance) / dist * alpha * f.strengths[i]
		x *= k
		y *= k

		b := f.bias[i]
		l.Target.VX -= x * b
		l.Target.VY -= y * b
		l.Source.VX += x * (1 - b)
		l.Source.VY += y * (1 - b)
	}
}

// ChargeForce applies pairwise node repulsion (negative strength) or
// attraction (positive strength), cut off beyond a maximum interaction
// distance to keep the O(n^2) pass bounded in effect.
type ChargeForce struct {
	strength float64
	maxDist2 float64
	nodes    []*graph.Node
	jiggle   *jiggler
}

// NewChargeForce creates a many-body force. A maxDistance of zero disables
// the cutoff.
func NewChargeForce(strength, maxDistance float64) *ChargeForce {
	f := &ChargeForce{strength: strength, jiggle: newJiggler()}
	if maxDistance > 0 {
		f.maxDist2 = maxDistance * maxDistance
	}
	return f
}

// Initialize records the node set.
func (f *ChargeForce) Initialize(nodes []*graph.Node) {
	f.nodes = nodes
}

// Apply accumulates the pairwise interaction into node velocities.
func (f *ChargeForce) Apply(alpha float64) {
	for i, a := range f.nodes {
		for j := i + 1; j < len(f.nodes); j++ {
			b := f.nodes[j]

			dx := b.X - a.X
			dy := b.Y - a.Y
			d2 := dx*dx + dy*dy
			if f.maxDist2 > 0 && d2 >= f.maxDist2 {
				continue
			}
			if d2 == 0 {
				dx, dy = f.jiggle.offset()
				d2 = dx*dx + dy*dy
			}
			if d2 < 1 {
				d2 = 1 // clamp to avoid runaway forces at tiny separations
			}

			w := f.strength * alpha / d2
			a.VX += dx * w
			a.VY += dy * w
			b.VX -= dx * w
			b.VY -= dy * w
		}
	}
}

// CenterForce nudges the layout's centroid toward a target point without
// distorting relative positions. The target moves when the viewport is
// resized; node positions and velocities are never reset.
type CenterForce struct {
	cx, cy   float64
	strength float64
	nodes    []*graph.Node
}

// NewCenterForce creates a centering force aimed at (cx, cy).
func NewCenterForce(cx, cy, strength float64) *CenterForce {
	return &CenterForce{cx: cx, cy: cy, strength: strength}
}

// SetTarget re-aims the force, typically after a viewport resize.
func (f *CenterForce) SetTarget(cx, cy float64) {
	f.cx = cx
	f.cy = cy
}

// Initialize records the node set.
func (f *CenterForce) Initialize(nodes []*graph.Node) {
	f.nodes = nodes
}

// Apply shifts every node by a fraction of the centroid's offset from the
// target. Pinned nodes get the shift too; integration snaps them back, so
// the pin stays authoritative.
func (f *CenterForce) Apply(alpha float64) {
	if len(f.nodes) == 0 {
		return
	}

	var sx, sy float64
	for _, n := range f.nodes {
		sx += n.X
		sy += n.Y
	}
	n := float64(len(f.nodes))
	sx = (sx/n - f.cx) * f.strength
	sy = (sy/n - f.cy) * f.strength

	for _, node := range f.nodes {
		node.X -= sx
		node.Y -= sy
	}
}

// CollideForce enforces a pairwise minimum separation, independent of the
// charge force, so nodes never visually overlap.
type CollideForce struct {
	radius   float64
	strength float64
	nodes    []*graph.Node
	jiggle   *jiggler
}

// NewCollideForce creates a collision constraint where every node occupies
// a circle of the given radius.
func NewCollideForce(radius, strength float64) *CollideForce {
	return &CollideForce{radius: radius, strength: strength, jiggle: newJiggler()}
}

// Initialize records the node set.
func (f *CollideForce) Initialize(nodes []*graph.Node) {
	f.nodes = nodes
}

// Apply pushes overlapping pairs apart along their anticipated positions.
// Collision resolution ignores alpha so overlap never survives a settled
// layout.
func (f *CollideForce) Apply(alpha float64) {
	minDist := 2 * f.radius

	for i, a := range f.nodes {
		for j := i + 1; j < len(f.nodes); j++ {
			b := f.nodes[j]

			dx := b.X + b.VX - a.X - a.VX
			dy := b.Y + b.VY - a.Y - a.VY
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				dx, dy = f.jiggle.offset()
				d2 = dx*dx + dy*dy
			}

			dist := math.Sqrt(d2)
			if dist >= minDist {
				continue
			}

			k := (minDist - dist) / dist * f.strength
			mx := dx * k
			my := dy * k
			b.VX += mx * 0.5
			b.VY += my * 0.5
			a.VX -= mx * 0.5
			a.VY -= my * 0.5
		}
	}
}

// jiggler produces tiny deterministic offsets for coincident nodes so the
// force math never divides by zero. Xorshift keeps it dependency-free and
// reproducible across runs.
type jiggler struct {
	state uint32
}

func newJiggler() *jiggler {
	return &jiggler{state: 0x9E3779B9}
}

func (j *jiggler) next() float64 {
	j.state ^= j.state << 13
	j.state ^= j.state >> 17
	j.state ^= j.state << 5
	return float64(j.state) / float64(math.MaxUint32)
}

func (j *jiggler) offset() (float64, float64) {
	return (j.next() - 0.5) * 1e-6, (j.next() - 0.5) * 1e-6
}
