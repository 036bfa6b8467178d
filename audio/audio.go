// Package audio plays short synthesized cues. A failed speaker init leaves it silent.
package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

const sampleRate = beep.SampleRate(44100)

const (
	flapDuration    = 60 * time.Millisecond
	explodeDuration = 400 * time.Millisecond
	recordDuration  = 150 * time.Millisecond
)

// Player owns the speaker once Init succeeds.
type Player struct {
	mu          sync.Mutex
	initialized bool
}

func NewPlayer() *Player {
	return &Player{}
}

// Init opens the speaker. The game runs on without sound when it fails.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

func (p *Player) play(s beep.Streamer) {
	if s == nil || !p.Enabled() {
		return
	}
	speaker.Play(s)
}

// Flap plays a short chirp.
func (p *Player) Flap() {
	p.play(flapCue(sampleRate))
}

// Explode plays the crash noise.
func (p *Player) Explode() {
	p.play(explodeCue(sampleRate))
}

// Record plays a rising two-tone chime.
func (p *Player) Record() {
	p.play(recordCue(sampleRate))
}

// Listen plays the crash cue for every game-over event, and the chime for a
// new record, until events is closed.
func (p *Player) Listen(events <-chan structs.GameOverEvent) {
	for ev := range events {
		p.Explode()
		if ev.IsNewRecord {
			p.Record()
		}
	}
}

// Close stops every queued cue.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Clear()
	p.initialized = false
}

func flapCue(sr beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(sr, 660)
	if err != nil {
		log.Printf("audio: flap cue: %v", err)
		return nil
	}
	return &effects.Volume{
		Streamer: beep.Take(sr.N(flapDuration), sine),
		Base:     2,
		Volume:   -2,
	}
}

func explodeCue(sr beep.SampleRate) beep.Streamer {
	return beep.Take(sr.N(explodeDuration), newCrash(sr))
}

func recordCue(sr beep.SampleRate) beep.Streamer {
	low, err := generators.SineTone(sr, 880)
	if err != nil {
		log.Printf("audio: record cue: %v", err)
		return nil
	}
	high, err := generators.SineTone(sr, 1320)
	if err != nil {
		log.Printf("audio: record cue: %v", err)
		return nil
	}
	return beep.Seq(
		beep.Take(sr.N(recordDuration), low),
		beep.Take(sr.N(recordDuration), high),
	)
}

// crash is decaying noise over a low rumble.
type crash struct {
	sr   beep.SampleRate
	pos  int
	seed uint32
}

func newCrash(sr beep.SampleRate) *crash {
	return &crash{sr: sr, seed: 0x2545f491}
}

func (c *crash) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(c.pos) / float64(c.sr)
		envelope := math.Exp(-t * 6)

		// xorshift
		c.seed ^= c.seed << 13
		c.seed ^= c.seed >> 17
		c.seed ^= c.seed << 5
		noise := float64(c.seed)/float64(math.MaxUint32)*2 - 1

		v := envelope * (0.35*noise + 0.3*math.Sin(2*math.Pi*70*t))
		samples[i][0] = v
		samples[i][1] = v
		c.pos++
	}
	return len(samples), true
}

func (c *crash) Err() error { return nil }
