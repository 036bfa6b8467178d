package obstacle

import (
	"math"
	"math/rand"

	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

// Spawner owns the live obstacles in spawn order and decides when to add more.
type Spawner struct {
	width, height int
	tuning        structs.SpawnerTuning
	rng           *rand.Rand

	obstacles []*Obstacle
	elapsed   float64 // 距上次生成的毫秒数
	due       bool
}

func NewSpawner(width, height int, t structs.SpawnerTuning, rng *rand.Rand) *Spawner {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &Spawner{
		width:  width,
		height: height,
		tuning: t,
		rng:    rng,
	}
	s.Reset()
	return s
}

// Reset drops every obstacle. The next Update spawns immediately.
func (s *Spawner) Reset() {
	for i := range s.obstacles {
		s.obstacles[i] = nil
	}
	s.obstacles = s.obstacles[:0]
	s.elapsed = 0
	s.due = true
}

// Resize changes the dimensions used for future spawns. Live obstacles keep theirs.
func (s *Spawner) Resize(width, height int) {
	s.width = width
	s.height = height
}

// Interval is the spawn period in milliseconds for a difficulty. It never drops below MinInterval.
func (s *Spawner) Interval(difficulty float64) float64 {
	return math.Max(s.tuning.MinInterval, s.tuning.Interval-difficulty*s.tuning.IntervalDecrease)
}

// GapRange returns the gap size bounds for a difficulty. Higher difficulty narrows both ends.
func (s *Spawner) GapRange(difficulty float64) (lo, hi float64) {
	t := s.tuning
	hi = math.Max(t.MinGap+20, t.MaxGap-difficulty*10)
	lo = math.Min(t.MaxGap-20, t.MinGap+difficulty*5)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func (s *Spawner) spawn(difficulty float64) *Obstacle {
	lo, hi := s.GapRange(difficulty)
	gap := lo + s.rng.Float64()*(hi-lo)

	h := float64(s.height)
	minY := h * s.tuning.MinGapY
	maxY := h * s.tuning.MaxGapY
	gapY := minY + s.rng.Float64()*(maxY-minY)

	o := New(float64(s.width), gapY, gap, s.tuning.ObstacleWidth, h, s.tuning.Color)
	s.obstacles = append(s.obstacles, o)
	return o
}

// Update advances the spawn timer by dt milliseconds, spawns when due, then
// moves every obstacle by speed, retires the ones that left the screen and
// tests the rest against hit. It reports whether any obstacle overlaps hit.
func (s *Spawner) Update(dt, speed, difficulty float64, hit structs.Rect) bool {
	s.elapsed += dt
	if s.due || s.elapsed >= s.Interval(difficulty) {
		s.spawn(difficulty)
		s.elapsed = 0
		s.due = false
	}
	return s.advance(speed, hit)
}

func (s *Spawner) advance(speed float64, hit structs.Rect) bool {
	collided := false
	kept := s.obstacles[:0]
	for _, o := range s.obstacles {
		o.Update(speed)
		if o.IsOffScreen() {
			continue
		}
		if o.Collides(hit) {
			collided = true
		}
		kept = append(kept, o)
	}
	for i := len(kept); i < len(s.obstacles); i++ {
		s.obstacles[i] = nil
	}
	s.obstacles = kept
	return collided
}

func (s *Spawner) Obstacles() []*Obstacle {
	return s.obstacles
}

func (s *Spawner) Len() int {
	return len(s.obstacles)
}

func (s *Spawner) Draw(dc *gg.Context) {
	for _, o := range s.obstacles {
		o.Draw(dc)
	}
}
