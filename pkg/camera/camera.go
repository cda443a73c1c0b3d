// Package camera maps between world coordinates, where the layout
// simulation places nodes, and screen coordinates, where input arrives
// and drawing happens. A single affine transform (uniform scale plus
// translation) carries the mapping; programmatic moves animate the
// transform over time while manual gestures change it immediately and
// cancel any animation in flight.
package camera

import (
	"math"
	"time"

	"github.com/plexkit/plexus/pkg/graph"
)

// Config holds the view tunables. Start from DefaultConfig.
type Config struct {
	// ScaleMin and ScaleMax bound the zoom level. Every zoom operation
	// clamps into this range; panning is unrestricted.
	ScaleMin float64
	ScaleMax float64
	// FitMargin is the fraction of the viewport the fitted graph may
	// occupy, leaving breathing room at the borders.
	FitMargin float64
	// FocusScale is the zoom level used when centering on a node.
	FocusScale float64
	// TweenDuration is how long programmatic view changes animate.
	TweenDuration time.Duration
}

// DefaultConfig returns the standard view tuning.
func DefaultConfig() Config {
	return Config{
		ScaleMin:      0.1,
		ScaleMax:      5,
		FitMargin:     0.8,
		FocusScale:    1.5,
		TweenDuration: 750 * time.Millisecond,
	}
}

// Fitting never zooms in past this scale, so a tiny graph does not fill
// the screen with a single enormous node.
const maxFitScale = 2.0

// Transform is the world-to-screen mapping: screen = world*K + (X, Y).
type Transform struct {
	X float64
	Y float64
	K float64
}

// Apply maps a world point to screen coordinates.
func (t Transform) Apply(wx, wy float64) (float64, float64) {
	return wx*t.K + t.X, wy*t.K + t.Y
}

// Invert maps a screen point back to world coordinates.
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	return (sx - t.X) / t.K, (sy - t.Y) / t.K
}

type tween struct {
	from, to Transform
	start    time.Time
	duration time.Duration
}

// Camera owns the current view transform and any animation toward a
// target transform. Not safe for concurrent use.
type Camera struct {
	cfg    Config
	width  float64
	height float64

	t    Transform
	anim *tween

	// focusNode is reported once when a centering animation lands, so
	// the caller can pulse the node that was navigated to.
	focusNode string
}

// New creates a camera at identity scale.
func New(cfg Config) *Camera {
	return &Camera{cfg: cfg, t: Transform{K: 1}}
}

// SetViewport records the screen size used by fit and center targets.
func (c *Camera) SetViewport(w, h float64) {
	c.width, c.height = w, h
}

// Transform returns the current view transform.
func (c *Camera) Transform() Transform { return c.t }

// ScreenToWorld converts a screen point to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return c.t.Invert(sx, sy)
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	return c.t.Apply(wx, wy)
}

// PanBy shifts the view by a screen-space delta. Manual input, so any
// animation in flight is cancelled.
func (c *Camera) PanBy(dx, dy float64) {
	c.cancel()
	c.t.X += dx
	c.t.Y += dy
}

// ZoomBy multiplies the scale by factor, keeping the world point under
// the screen anchor stationary. The resulting scale is clamped to the
// configured extent. Manual input, so any animation is cancelled.
func (c *Camera) ZoomBy(factor, sx, sy float64) {
	c.cancel()

	k := c.clampScale(c.t.K * factor)
	if k == c.t.K {
		return
	}
	wx, wy := c.t.Invert(sx, sy)
	c.t.K = k
	c.t.X = sx - wx*k
	c.t.Y = sy - wy*k
}

// FitToScreen animates the view so every node is visible with the
// configured margin. With no nodes the view is left untouched.
func (c *Camera) FitToScreen(nodes []*graph.Node, now time.Time) {
	if len(nodes) == 0 || c.width <= 0 || c.height <= 0 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}

	bw, bh := maxX-minX, maxY-minY
	k := maxFitScale
	if bw > 0 || bh > 0 {
		k = c.cfg.FitMargin / math.Max(bw/c.width, bh/c.height)
		k = math.Min(k, maxFitScale)
	}
	k = c.clampScale(k)

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	target := Transform{
		K: k,
		X: c.width/2 - cx*k,
		Y: c.height/2 - cy*k,
	}
	c.animateTo(target, now)
	c.focusNode = ""
}

// CenterOnNode animates the view so the node sits at the screen center.
// A positive scale zooms to that level; zero keeps the current scale.
// When the animation lands, Step reports the node id once so the caller
// can pulse it.
func (c *Camera) CenterOnNode(n *graph.Node, scale float64, now time.Time) {
	if n == nil {
		return
	}
	c.CenterOnPoint(n.X, n.Y, scale, now)
	c.focusNode = n.ID
}

// CenterOnPoint animates the view so the world point sits at the screen
// center. A positive scale zooms to that level; zero keeps the current
// scale.
func (c *Camera) CenterOnPoint(wx, wy, scale float64, now time.Time) {
	if c.width <= 0 || c.height <= 0 {
		return
	}

	k := c.t.K
	if scale > 0 {
		k = c.clampScale(scale)
	}
	target := Transform{
		K: k,
		X: c.width/2 - wx*k,
		Y: c.height/2 - wy*k,
	}
	c.animateTo(target, now)
	c.focusNode = ""
}

// Step advances any animation to the given time. It returns the id of
// the node a completed centering animation focused, or "" otherwise.
func (c *Camera) Step(now time.Time) string {
	if c.anim == nil {
		if c.focusNode != "" {
			focused := c.focusNode
			c.focusNode = ""
			return focused
		}
		return ""
	}

	p := float64(now.Sub(c.anim.start)) / float64(c.anim.duration)
	if p >= 1 {
		c.t = c.anim.to
		c.anim = nil
		focused := c.focusNode
		c.focusNode = ""
		return focused
	}
	if p < 0 {
		p = 0
	}

	e := easeCubicInOut(p)
	c.t = Transform{
		X: c.anim.from.X + (c.anim.to.X-c.anim.from.X)*e,
		Y: c.anim.from.Y + (c.anim.to.Y-c.anim.from.Y)*e,
		K: c.anim.from.K + (c.anim.to.K-c.anim.from.K)*e,
	}
	return ""
}

// Animating reports whether a programmatic view change is in flight.
func (c *Camera) Animating() bool { return c.anim != nil }

func (c *Camera) animateTo(target Transform, now time.Time) {
	if c.cfg.TweenDuration <= 0 {
		c.t = target
		c.anim = nil
		return
	}
	c.anim = &tween{
		from:     c.t,
		to:       target,
		start:    now,
		duration: c.cfg.TweenDuration,
	}
}

func (c *Camera) cancel() {
	c.anim = nil
	c.focusNode = ""
}

func (c *Camera) clampScale(k float64) float64 {
	if k < c.cfg.ScaleMin {
		return c.cfg.ScaleMin
	}
	if k > c.cfg.ScaleMax {
		return c.cfg.ScaleMax
	}
	return k
}

func easeCubicInOut(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}
