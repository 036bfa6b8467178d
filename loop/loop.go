// Package loop drives a game from a ticker: intents first, then update, render and publish.
package loop

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/sky-node-escape/game"
	"github.com/hoshinonyaruko/sky-node-escape/memimg"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
	"github.com/hoshinonyaruko/sky-node-escape/ui"
)

const commandBuffer = 64

type command struct {
	intent        structs.Intent
	width, height int
	tuning        *structs.Tuning
}

// Driver owns a Game. Only the goroutine running Run (or Step) touches it;
// everyone else sends commands or reads the published snapshot.
type Driver struct {
	game     *game.Game
	overlay  *ui.Adapter
	frames   *memimg.FrameStore
	interval time.Duration
	now      func() time.Time

	cmds chan command
	last time.Time
	dt   float64 // 上一帧的毫秒数，未截断

	mu   sync.RWMutex
	snap structs.Snapshot

	// OnIntent, when set, is called on the loop goroutine after an intent was applied.
	OnIntent func(structs.Intent)
}

// New wires a driver. overlay and frames may be nil for a headless loop.
func New(g *game.Game, overlay *ui.Adapter, frames *memimg.FrameStore, fps int) *Driver {
	if fps <= 0 {
		fps = 60
	}
	return &Driver{
		game:     g,
		overlay:  overlay,
		frames:   frames,
		interval: time.Second / time.Duration(fps),
		now:      time.Now,
		cmds:     make(chan command, commandBuffer),
		snap:     g.Snapshot(),
	}
}

func (d *Driver) send(c command) bool {
	select {
	case d.cmds <- c:
		return true
	default:
		log.Printf("loop: command queue full, dropped %+v", c)
		return false
	}
}

// Send queues an intent for the next frame.
func (d *Driver) Send(intent structs.Intent) bool {
	return d.send(command{intent: intent})
}

// Resize queues a canvas size change for the next frame.
func (d *Driver) Resize(width, height int) bool {
	return d.send(command{width: width, height: height})
}

// SetTuning queues new tuning; it takes effect at the next session start.
func (d *Driver) SetTuning(t structs.Tuning) bool {
	return d.send(command{tuning: &t})
}

// Snapshot returns the state published at the end of the last frame.
func (d *Driver) Snapshot() structs.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

// Run steps the game every interval until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.last = d.now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Step(d.now())
		}
	}
}

// Step runs one frame at time now.
func (d *Driver) Step(now time.Time) {
	if d.last.IsZero() {
		d.last = now
	}
	d.drain(now)

	d.dt = float64(now.Sub(d.last)) / float64(time.Millisecond)
	d.last = now
	d.game.Update(d.dt)

	if d.frames != nil {
		w, h := d.game.Size()
		dc := gg.NewContext(w, h)
		d.game.Render(dc)
		snap := d.game.Snapshot()
		frame := dc.Image()
		if d.overlay != nil {
			d.overlay.Poll()
			frame = d.overlay.Compose(frame, snap)
		}
		d.frames.Store(frame)
	} else if d.overlay != nil {
		d.overlay.Poll()
	}

	d.publish()
}

// drain applies every queued command. Leaving the paused state resets the
// time reference so the next dt does not include the pause.
func (d *Driver) drain(now time.Time) {
	for {
		select {
		case c := <-d.cmds:
			d.apply(c, now)
		default:
			return
		}
	}
}

func (d *Driver) apply(c command, now time.Time) {
	switch {
	case c.tuning != nil:
		d.game.SetTuning(*c.tuning)
	case c.width != 0 || c.height != 0:
		d.game.Resize(c.width, c.height)
	case c.intent != structs.IntentNone:
		wasPaused := d.game.State() == structs.StatePaused
		if !d.game.Apply(c.intent) {
			return
		}
		if wasPaused && d.game.State() == structs.StatePlaying {
			d.last = now
		}
		if d.OnIntent != nil {
			d.OnIntent(c.intent)
		}
	}
}

func (d *Driver) publish() {
	s := d.game.Snapshot()
	d.mu.Lock()
	d.snap = s
	d.mu.Unlock()
}
