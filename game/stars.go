package game

import (
	"github.com/hoshinonyaruko/sky-node-escape/obstacle"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

const (
	demoSpeed = 2
	demoWidth = 80
)

func (g *Game) initStars() {
	n := g.tuning.Stars
	if n < 0 {
		n = 0
	}
	g.stars = make([]structs.Star, n)
	for i := range g.stars {
		g.stars[i] = structs.Star{
			X:          g.rng.Float64() * float64(g.width),
			Y:          g.rng.Float64() * float64(g.height),
			Size:       g.rng.Float64()*2 + 0.5,
			Speed:      g.rng.Float64()*0.5 + 0.2,
			Brightness: g.rng.Float64()*0.5 + 0.5,
		}
	}
}

// updateStars moves the star field down. Stars fall faster while playing.
func (g *Game) updateStars() {
	mult := 1.0
	if g.state == structs.StatePlaying {
		mult = g.speed
	}
	h := float64(g.height)
	for i := range g.stars {
		s := &g.stars[i]
		s.Y += s.Speed * mult
		if s.Y > h {
			s.Y = 0
			s.X = g.rng.Float64() * float64(g.width)
		}
	}
}

// resetDemo places the two decorative menu pillars.
func (g *Game) resetDemo() {
	w, h := float64(g.width), float64(g.height)
	g.demo = []*obstacle.Obstacle{
		obstacle.New(w*0.6, h*0.3, h*0.35, demoWidth, h, g.tuning.Spawner.Color),
		obstacle.New(w*1.1, h*0.7, h*0.25, demoWidth, h, g.tuning.Spawner.Color),
	}
}

// updateDemo scrolls the menu pillars and wraps them back to the right edge.
func (g *Game) updateDemo() {
	w := float64(g.width)
	for i, o := range g.demo {
		o.Update(demoSpeed)
		if o.IsOffScreen() {
			g.demo[i] = obstacle.New(w, o.GapY, o.GapSize, o.Width, o.Extent, o.Color)
		}
	}
}
