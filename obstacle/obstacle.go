// 障碍物与生成器
package obstacle

import (
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

// Obstacle is a vertical lane with one gap. The solid parts are the lane above
// and below the gap, whichever of the two has positive height.
type Obstacle struct {
	X       float64
	GapY    float64 // 缺口中心
	GapSize float64
	Width   float64
	Extent  float64 // 生成时的画布高度
	Color   string

	parts []structs.Rect
}

func New(x, gapY, gapSize, width, extent float64, color string) *Obstacle {
	o := &Obstacle{
		X:       x,
		GapY:    gapY,
		GapSize: gapSize,
		Width:   width,
		Extent:  extent,
		Color:   color,
	}
	o.buildParts()
	return o
}

func (o *Obstacle) buildParts() {
	o.parts = o.parts[:0]

	top := o.GapY - o.GapSize/2
	if top > 0 {
		o.parts = append(o.parts, structs.Rect{X: o.X, Y: 0, W: o.Width, H: top})
	}

	bottom := o.GapY + o.GapSize/2
	if h := o.Extent - bottom; h > 0 {
		o.parts = append(o.parts, structs.Rect{X: o.X, Y: bottom, W: o.Width, H: h})
	}
}

// Update scrolls the obstacle left by speed.
func (o *Obstacle) Update(speed float64) {
	o.X -= speed
	for i := range o.parts {
		o.parts[i].X = o.X
	}
}

// IsOffScreen reports whether the trailing edge has reached the left boundary.
func (o *Obstacle) IsOffScreen() bool {
	return o.X+o.Width <= 0
}

func (o *Obstacle) Collides(r structs.Rect) bool {
	for _, part := range o.parts {
		if r.Overlaps(part) {
			return true
		}
	}
	return false
}

func (o *Obstacle) Parts() []structs.Rect {
	return o.parts
}

func (o *Obstacle) Draw(dc *gg.Context) {
	for _, part := range o.parts {
		dc.SetHexColor(o.Color)
		dc.DrawRectangle(part.X, part.Y, part.W, part.H)
		dc.Fill()

		// 内部高光
		if part.W > 4 && part.H > 4 {
			dc.SetRGBA(1, 1, 1, 0.1)
			dc.DrawRectangle(part.X+2, part.Y+2, part.W-4, part.H-4)
			dc.Fill()
		}
	}
}
