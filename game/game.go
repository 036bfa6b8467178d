// 游戏会话：状态机与逐帧更新
package game

import (
	"log"
	"math"
	"math/rand"

	"github.com/hoshinonyaruko/sky-node-escape/obstacle"
	"github.com/hoshinonyaruko/sky-node-escape/particles"
	"github.com/hoshinonyaruko/sky-node-escape/player"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

const (
	ExplosionColor    = "#00f0ff"
	ExplosionAltColor = "#ff00aa"
	explosionCount    = 30
	explosionAltCount = 20
	shakeScale        = 10
)

// StatsStore persists the high score and games played.
type StatsStore interface {
	Load() (structs.Stats, error)
	Save(structs.Stats) error
}

// Publisher receives the game-over notification.
type Publisher interface {
	Publish(structs.GameOverEvent)
}

// Game is one play session plus its menu/pause/game-over states. It is not safe
// for concurrent use: a single frame driver owns it.
type Game struct {
	tuning  structs.Tuning
	pending *structs.Tuning

	width, height int
	state         structs.State
	tick          uint64

	score      float64
	speed      float64
	difficulty float64

	shake          float64
	shakeX, shakeY float64

	stars []structs.Star
	demo  []*obstacle.Obstacle

	player    *player.Player
	spawner   *obstacle.Spawner
	particles *particles.System

	stats structs.Stats
	store StatsStore
	bus   Publisher
	rng   *rand.Rand
}

// New creates a game sitting at the menu. store and bus may be nil.
func New(t structs.Tuning, width, height int, store StatsStore, bus Publisher, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	g := &Game{
		tuning:     t,
		width:      width,
		height:     height,
		state:      structs.StateMenu,
		speed:      t.BaseSpeed,
		difficulty: 1,
		store:      store,
		bus:        bus,
		rng:        rng,
	}
	g.initStars()
	g.resetDemo()
	g.loadStats()
	return g
}

func (g *Game) loadStats() {
	if g.store == nil {
		return
	}
	st, err := g.store.Load()
	if err != nil {
		log.Printf("game: loading stats failed, using zeros: %v", err)
		g.stats = structs.Stats{}
		return
	}
	g.stats = st
}

// SetTuning replaces the tuning used from the next session on.
func (g *Game) SetTuning(t structs.Tuning) {
	g.pending = &t
}

// Apply consumes one intent and reports whether it changed anything.
func (g *Game) Apply(intent structs.Intent) bool {
	switch intent {
	case structs.IntentStart:
		if g.state == structs.StateMenu {
			g.startSession()
			return true
		}
	case structs.IntentFlap:
		switch g.state {
		case structs.StatePlaying:
			if g.player != nil {
				g.player.Flap()
				return true
			}
		case structs.StateMenu:
			g.startSession()
			return true
		}
	case structs.IntentPause:
		switch g.state {
		case structs.StatePlaying:
			g.state = structs.StatePaused
			return true
		case structs.StatePaused:
			g.state = structs.StatePlaying
			return true
		}
	case structs.IntentRestart:
		if g.state == structs.StateGameOver || g.state == structs.StatePaused {
			g.startSession()
			return true
		}
	case structs.IntentMenu:
		if g.state == structs.StateGameOver || g.state == structs.StatePaused {
			g.enterMenu()
			return true
		}
	}
	return false
}

func (g *Game) startSession() {
	if g.pending != nil {
		g.tuning = *g.pending
		g.pending = nil
	}
	t := g.tuning

	g.score = 0
	g.difficulty = 1
	g.speed = t.BaseSpeed
	g.shake, g.shakeX, g.shakeY = 0, 0, 0

	g.player = player.New(float64(g.width)*t.Player.StartX, float64(g.height)*t.Player.StartY, g.height, t.Player)
	g.spawner = obstacle.NewSpawner(g.width, g.height, t.Spawner, g.rng)
	g.particles = particles.New(t.MaxParticles, g.rng)
	g.state = structs.StatePlaying
}

func (g *Game) enterMenu() {
	g.state = structs.StateMenu
	g.player = nil
	g.spawner = nil
	g.particles = nil
	g.shake, g.shakeX, g.shakeY = 0, 0, 0
	g.resetDemo()
	g.loadStats()
}

// Update advances the game by dt milliseconds.
func (g *Game) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if limit := g.tuning.MaxFrameDelta; limit > 0 && dt > limit {
		dt = limit
	}
	g.tick++

	g.updateShake()
	g.updateStars()

	switch g.state {
	case structs.StateMenu:
		g.updateDemo()
	case structs.StatePlaying:
		g.updatePlaying(dt)
	case structs.StateGameOver:
		if g.particles != nil {
			g.particles.Update()
		}
	}
}

func (g *Game) updateShake() {
	if g.shake > 0 {
		g.shake *= g.tuning.ShakeDecay
		if g.shake < g.tuning.ShakeSnap {
			g.shake = 0
		}
	}
	if g.shake > 0 {
		g.shakeX = (g.rng.Float64() - 0.5) * g.shake * shakeScale
		g.shakeY = (g.rng.Float64() - 0.5) * g.shake * shakeScale
	} else {
		g.shakeX, g.shakeY = 0, 0
	}
}

func (g *Game) updatePlaying(dt float64) {
	t := g.tuning

	g.speed = math.Min(g.speed+t.SpeedIncrement, t.MaxSpeed)
	g.difficulty = 1 + (g.speed-t.BaseSpeed)*t.DifficultyScale
	g.score += t.ScoreIncrement

	if g.player != nil {
		g.player.Update()
		if g.particles != nil && g.rng.Float64() < t.TrailChance {
			g.particles.Trail(g.player.X-g.player.Radius(), g.player.Y, player.TrailColor)
		}
	}

	if g.spawner != nil {
		var hit structs.Rect
		if g.player != nil {
			hit = g.player.Bounds()
		}
		if g.spawner.Update(dt, g.speed, g.difficulty, hit) && g.player != nil {
			g.gameOver()
			return
		}
	}

	if g.particles != nil {
		g.particles.Update()
	}
}

func (g *Game) gameOver() {
	g.state = structs.StateGameOver
	g.shake = 1

	if g.player != nil && g.particles != nil {
		g.particles.Explode(g.player.X, g.player.Y, ExplosionColor, explosionCount)
		g.particles.Explode(g.player.X, g.player.Y, ExplosionAltColor, explosionAltCount)
	}

	g.stats.GamesPlayed++
	final := int(math.Floor(g.score))
	isNewRecord := false
	if final > g.stats.HighScore {
		g.stats.HighScore = final
		isNewRecord = true
	}

	if g.store != nil {
		if err := g.store.Save(g.stats); err != nil {
			log.Printf("game: saving stats failed: %v", err)
		}
	}

	if g.bus != nil {
		g.bus.Publish(structs.GameOverEvent{
			Score:       final,
			IsNewRecord: isNewRecord,
			HighScore:   g.stats.HighScore,
			GamesPlayed: g.stats.GamesPlayed,
		})
	}
}

// Resize adopts a new canvas size. Live obstacles keep the extents they were spawned with.
func (g *Game) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.width = width
	g.height = height
	g.initStars()
	g.resetDemo()

	if g.spawner != nil {
		g.spawner.Resize(width, height)
	}
	if g.player != nil {
		if g.state == structs.StateGameOver {
			g.player.X = float64(width) * g.tuning.Player.StartX
			g.player.Y = float64(height) * g.tuning.Player.StartY
		}
		g.player.SetBand(height)
	}
}

func (g *Game) State() structs.State {
	return g.state
}

// Score is the unfloored running score.
func (g *Game) Score() float64 {
	return g.score
}

func (g *Game) Speed() float64 {
	return g.speed
}

func (g *Game) Difficulty() float64 {
	return g.difficulty
}

func (g *Game) Stats() structs.Stats {
	return g.stats
}

func (g *Game) Size() (int, int) {
	return g.width, g.height
}

// Player may be nil outside a session.
func (g *Game) Player() *player.Player {
	return g.player
}

// Spawner may be nil outside a session.
func (g *Game) Spawner() *obstacle.Spawner {
	return g.spawner
}

// Particles may be nil outside a session.
func (g *Game) Particles() *particles.System {
	return g.particles
}

func (g *Game) Stars() []structs.Star {
	return g.stars
}

// DemoObstacles are the decorative pillars drifting behind the menu.
func (g *Game) DemoObstacles() []*obstacle.Obstacle {
	return g.demo
}

func (g *Game) Snapshot() structs.Snapshot {
	s := structs.Snapshot{
		State:       g.state,
		Score:       int(math.Floor(g.score)),
		HighScore:   g.stats.HighScore,
		GamesPlayed: g.stats.GamesPlayed,
		Speed:       g.speed,
		Difficulty:  g.difficulty,
		Width:       g.width,
		Height:      g.height,
		Tick:        g.tick,
	}
	if g.spawner != nil {
		s.Obstacles = g.spawner.Len()
	}
	if g.particles != nil {
		s.Particles = g.particles.Len()
	}
	return s
}
