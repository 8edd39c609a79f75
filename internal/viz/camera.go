package viz

import (
	"math"

	"github.com/san-kum/cymatics/internal/chladni"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

const (
	DefaultTilt     = -0.7
	DefaultDistance = 4.0
)

// Camera looks down at the plate. With no rotation the plate fills the
// view face-on; tilting brings the lift out of the screen.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
	Distance   float64
	Near       float64
}

func NewCamera() *Camera {
	return &Camera{RotX: DefaultTilt, Zoom: 1.0, Distance: DefaultDistance, Near: 0.1}
}

func (c *Camera) Tilt(a float64) { c.RotX = math.Max(-math.Pi/2, math.Min(0, c.RotX+a)) }
func (c *Camera) Spin(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()        { c.Zoom = math.Min(4, c.Zoom*1.15) }
func (c *Camera) ZoomOut()       { c.Zoom = math.Max(0.25, c.Zoom/1.15) }

// RotatePoint spins a point about the plate normal, then tilts it.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Y = p.X*cy-p.Y*sy, p.X*sy+p.Y*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project converts plate coordinates to dot coordinates on a w×h canvas.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p Vec3, w, h int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	pScale := float64(min(w, h)) / 2.6
	sx := int(rot.X*scale*pScale) + w/2
	sy := int(-rot.Y*scale*pScale) + h/2
	return sx, sy, rot.Z, sx >= 0 && sx < w && sy >= 0 && sy < h
}

// RenderParticles clears the canvas and draws the plate outline and every
// particle, with z scaled by lift.
func RenderParticles(cv *Canvas, cam *Camera, positions []float64, lift float64) {
	if cv == nil || cam == nil {
		return
	}
	cv.Clear()
	w, h := cv.DotsWide(), cv.DotsHigh()

	corners := []Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	for i, a := range corners {
		b := corners[(i+1)%len(corners)]
		x1, y1, _, v1 := cam.Project(a, w, h)
		x2, y2, _, v2 := cam.Project(b, w, h)
		if v1 || v2 {
			cv.DrawLine(x1, y1, x2, y2)
		}
	}

	for i := 0; i+2 < len(positions); i += chladni.Stride {
		x, y, _, ok := cam.Project(Vec3{positions[i], positions[i+1], positions[i+2] * lift}, w, h)
		if ok {
			cv.Set(x, y)
		}
	}
}
