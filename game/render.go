package game

import (
	"math"

	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

const (
	backgroundColor = "#0a0a0f"
	twinkleRate     = 0.032 // 约等于 0.002/ms × 16ms/帧
)

// Render draws the current frame onto dc. It reads the game but never changes it,
// so rendering twice between updates gives the same picture.
func (g *Game) Render(dc *gg.Context) {
	dc.Push()
	defer dc.Pop()

	dc.SetHexColor(backgroundColor)
	dc.Clear()

	dc.Translate(g.shakeX, g.shakeY)
	g.renderStars(dc)

	switch g.state {
	case structs.StateMenu:
		for _, o := range g.demo {
			o.Draw(dc)
		}
	case structs.StatePlaying, structs.StatePaused:
		if g.spawner != nil {
			g.spawner.Draw(dc)
		}
		if g.player != nil {
			g.player.Draw(dc)
		}
		if g.particles != nil {
			g.particles.Draw(dc)
		}
	case structs.StateGameOver:
		// 冻结的障碍物与爆炸碎片，不画玩家
		if g.spawner != nil {
			g.spawner.Draw(dc)
		}
		if g.particles != nil {
			g.particles.Draw(dc)
		}
	}
}

func (g *Game) renderStars(dc *gg.Context) {
	phase := float64(g.tick) * twinkleRate
	for i, s := range g.stars {
		alpha := s.Brightness * (0.5 + 0.5*math.Sin(phase+float64(i)))
		dc.SetRGBA(1, 1, 1, alpha)
		dc.DrawCircle(s.X, s.Y, s.Size)
		dc.Fill()
	}
}
