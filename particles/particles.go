// 粒子特效：拖尾与爆炸
package particles

import (
	"math"
	"math/rand"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultMax is the live particle ceiling used when New is given a non-positive max.
const DefaultMax = 600

// Particle 单个粒子，寿命以帧计。
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Color   string
	Size    float64
	Life    int // 剩余寿命
	MaxLife int // 初始寿命
}

// Alpha is remaining life over initial life, clamped to [0,1].
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 || p.Life <= 0 {
		return 0
	}
	return math.Min(1, float64(p.Life)/float64(p.MaxLife))
}

func (p *Particle) update() {
	p.X += p.VX
	p.Y += p.VY
	p.Life--
}

// System owns the live particles. Draw order is insertion order.
type System struct {
	particles []*Particle
	max       int
	rng       *rand.Rand
}

func New(max int, rng *rand.Rand) *System {
	if max <= 0 {
		max = DefaultMax
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &System{
		particles: make([]*Particle, 0, 64),
		max:       max,
		rng:       rng,
	}
}

// Explode emits a burst of n particles with random radial velocity around (x, y).
func (s *System) Explode(x, y float64, color string, n int) {
	for i := 0; i < n; i++ {
		life := 20 + s.rng.Intn(30)
		s.add(&Particle{
			X:       x,
			Y:       y,
			VX:      (s.rng.Float64() - 0.5) * 6,
			VY:      (s.rng.Float64() - 0.5) * 6,
			Color:   color,
			Size:    s.rng.Float64()*3 + 1,
			Life:    life,
			MaxLife: life,
		})
	}
}

// Trail emits one slow particle drifting down and sideways.
func (s *System) Trail(x, y float64, color string) {
	life := 10 + s.rng.Intn(10)
	s.add(&Particle{
		X:       x,
		Y:       y,
		VX:      s.rng.Float64() - 0.5,
		VY:      s.rng.Float64()*2 + 1,
		Color:   color,
		Size:    s.rng.Float64()*2 + 0.5,
		Life:    life,
		MaxLife: life,
	})
}

// add appends p, evicting the oldest particles once the ceiling is reached.
func (s *System) add(p *Particle) {
	if over := len(s.particles) + 1 - s.max; over > 0 {
		n := copy(s.particles, s.particles[over:])
		for i := n; i < len(s.particles); i++ {
			s.particles[i] = nil
		}
		s.particles = s.particles[:n]
	}
	s.particles = append(s.particles, p)
}

// Update advances every particle one frame and drops the ones whose life ran out.
func (s *System) Update() {
	kept := s.particles[:0]
	for _, p := range s.particles {
		p.update()
		if p.Life > 0 {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(s.particles); i++ {
		s.particles[i] = nil
	}
	s.particles = kept
}

func (s *System) Draw(dc *gg.Context) {
	for _, p := range s.particles {
		dc.Push()
		setHexAlpha(dc, p.Color, p.Alpha())
		dc.DrawCircle(p.X, p.Y, p.Size)
		dc.Fill()
		dc.Pop()
	}
}

func (s *System) Len() int {
	return len(s.particles)
}

// Particles exposes the live particles for inspection. Callers must not keep the slice.
func (s *System) Particles() []*Particle {
	return s.particles
}

func (s *System) Reset() {
	for i := range s.particles {
		s.particles[i] = nil
	}
	s.particles = s.particles[:0]
}

// setHexAlpha sets a "#rrggbb" color with the given alpha. Bad input draws white.
func setHexAlpha(dc *gg.Context, hex string, alpha float64) {
	r, g, b := ParseHex(hex)
	dc.SetRGBA(r, g, b, alpha)
}

// ParseHex converts "#rrggbb" into components in [0,1]. Bad input yields white.
func ParseHex(hex string) (r, g, b float64) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 1, 1, 1
	}
	return c.R, c.G, c.B
}
