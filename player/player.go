// 玩家：重力、振翅、软边界
package player

import (
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

const (
	Color      = "#00f0ff"
	TrailColor = "#00f0ff"
)

// Player is a stationary flapper. Vertical bounds are a soft clamp: leaving the
// band pins the position to the edge and zeroes velocity.
type Player struct {
	X, Y float64
	VY   float64

	MinY, MaxY float64

	tuning structs.PlayerTuning
}

func New(x, y float64, gameHeight int, t structs.PlayerTuning) *Player {
	p := &Player{X: x, Y: y, tuning: t}
	p.SetBand(gameHeight)
	return p
}

// SetBand recomputes the legal vertical band for a game of the given height
// and pulls the player back into it.
func (p *Player) SetBand(gameHeight int) {
	half := p.tuning.Size / 2
	p.MinY = half
	p.MaxY = float64(gameHeight) - half
	if p.MaxY < p.MinY {
		p.MaxY = p.MinY
	}
	p.clamp()
}

func (p *Player) Update() {
	p.VY += p.tuning.Gravity

	max := p.tuning.MaxVelocity
	if p.VY > max {
		p.VY = max
	} else if p.VY < -max {
		p.VY = -max
	}

	p.Y += p.VY
	p.clamp()
}

func (p *Player) clamp() {
	if p.Y < p.MinY {
		p.Y = p.MinY
		p.VY = 0
	} else if p.Y > p.MaxY {
		p.Y = p.MaxY
		p.VY = 0
	}
}

// Flap replaces the current velocity with the jump impulse.
func (p *Player) Flap() {
	p.VY = p.tuning.Jump
}

func (p *Player) Radius() float64 {
	return p.tuning.Radius
}

// Bounds is the circle treated as a box, shrunk by the hitbox inset.
func (p *Player) Bounds() structs.Rect {
	r := p.tuning.Radius - p.tuning.HitboxInset
	if r < 0 {
		r = 0
	}
	return structs.Rect{X: p.X - r, Y: p.Y - r, W: 2 * r, H: 2 * r}
}

// Collides reports whether the player's box overlaps any of the parts.
func (p *Player) Collides(parts []structs.Rect) bool {
	b := p.Bounds()
	for _, part := range parts {
		if b.Overlaps(part) {
			return true
		}
	}
	return false
}

func (p *Player) Draw(dc *gg.Context) {
	r := p.tuning.Radius
	dc.Push()
	dc.Translate(p.X, p.Y)

	// 外发光
	dc.SetHexColor(Color)
	dc.SetLineWidth(2)
	dc.DrawCircle(0, 0, r+5)
	dc.Stroke()

	// 核心
	dc.SetHexColor(Color)
	dc.DrawCircle(0, 0, r)
	dc.Fill()

	dc.SetRGBA(1, 1, 1, 0.2)
	dc.DrawCircle(0, 0, r*0.6)
	dc.Fill()

	dc.Pop()
}
