// Package tui runs the game in a terminal. Each cell stands for a
// CellWidth x CellHeight block of the logical canvas.
package tui

import (
	"context"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/sky-node-escape/game"
	"github.com/hoshinonyaruko/sky-node-escape/obstacle"
	"github.com/hoshinonyaruko/sky-node-escape/particles"
	"github.com/hoshinonyaruko/sky-node-escape/player"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
	"github.com/hoshinonyaruko/sky-node-escape/ui"
)

const (
	CellWidth  = 8
	CellHeight = 16

	frameInterval = 16 * time.Millisecond
)

// cell is one character to put on screen.
type cell struct {
	x, y  int
	r     rune
	style tcell.Style
}

type App struct {
	screen  tcell.Screen
	game    *game.Game
	overlay *ui.Adapter
	last    time.Time
	tunings chan structs.Tuning

	// OnIntent, when set, is called after an intent was applied.
	OnIntent func(structs.Intent)
}

// New takes an initialized screen. The caller calls Fini.
func New(screen tcell.Screen, g *game.Game, overlay *ui.Adapter) *App {
	if overlay == nil {
		overlay = ui.NewAdapter(nil, 0)
	}
	return &App{screen: screen, game: g, overlay: overlay, tunings: make(chan structs.Tuning, 1)}
}

// SetTuning hands new tuning to the frame goroutine. It may be called from any goroutine.
func (a *App) SetTuning(t structs.Tuning) bool {
	select {
	case a.tunings <- t:
		return true
	default:
		return false
	}
}

// intentFor maps a key press to an intent. quit is set for Q and Ctrl-C.
func intentFor(key tcell.Key, r rune, state structs.State) (intent structs.Intent, quit bool) {
	switch key {
	case tcell.KeyCtrlC:
		return structs.IntentNone, true
	case tcell.KeyUp:
		return structs.IntentFlap, false
	case tcell.KeyEnter:
		if state == structs.StateMenu {
			return structs.IntentStart, false
		}
		return structs.IntentRestart, false
	case tcell.KeyEscape:
		return structs.IntentMenu, false
	case tcell.KeyRune:
		switch r {
		case ' ':
			return structs.IntentFlap, false
		case 'p', 'P':
			return structs.IntentPause, false
		case 'm', 'M':
			return structs.IntentMenu, false
		case 'q', 'Q':
			return structs.IntentNone, true
		}
	}
	return structs.IntentNone, false
}

// Run draws and steps the game every frame until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.resize()
	a.last = time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.handle(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			a.Step(now)
		}
	}
}

// handle reports false when the user asked to quit.
func (a *App) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		intent, quit := intentFor(ev.Key(), ev.Rune(), a.game.State())
		if quit {
			return false
		}
		a.apply(intent, now)
	case *tcell.EventResize:
		a.resize()
		a.screen.Sync()
	}
	return true
}

func (a *App) apply(intent structs.Intent, now time.Time) {
	if intent == structs.IntentNone {
		return
	}
	wasPaused := a.game.State() == structs.StatePaused
	if !a.game.Apply(intent) {
		return
	}
	// 从暂停恢复时重置时间基准
	if wasPaused && a.game.State() == structs.StatePlaying {
		a.last = now
	}
	if a.OnIntent != nil {
		a.OnIntent(intent)
	}
}

func (a *App) resize() {
	cols, rows := a.screen.Size()
	a.game.Resize(cols*CellWidth, rows*CellHeight)
}

// Step advances one frame at time now and redraws.
func (a *App) Step(now time.Time) {
	if a.last.IsZero() {
		a.last = now
	}
	select {
	case t := <-a.tunings:
		a.game.SetTuning(t)
	default:
	}
	dt := float64(now.Sub(a.last)) / float64(time.Millisecond)
	a.last = now
	a.game.Update(dt)
	a.overlay.Poll()
	a.draw()
}

func (a *App) draw() {
	a.screen.Clear()
	cols, rows := a.screen.Size()
	for _, c := range a.cells(cols, rows) {
		a.screen.SetContent(c.x, c.y, c.r, nil, c.style)
	}
	a.screen.Show()
}

// cells lays out one frame, back to front.
func (a *App) cells(cols, rows int) []cell {
	var out []cell
	put := func(x, y float64, r rune, style tcell.Style) {
		cx, cy := int(math.Floor(x/CellWidth)), int(math.Floor(y/CellHeight))
		if cx < 0 || cy < 0 || cx >= cols || cy >= rows {
			return
		}
		out = append(out, cell{cx, cy, r, style})
	}

	for _, s := range a.game.Stars() {
		style := tcell.StyleDefault.Foreground(gray(s.Brightness))
		put(s.X, s.Y, '.', style)
	}

	switch a.game.State() {
	case structs.StateMenu:
		for _, o := range a.game.DemoObstacles() {
			out = appendObstacle(out, o, cols, rows)
		}
	case structs.StatePlaying, structs.StatePaused, structs.StateGameOver:
		if sp := a.game.Spawner(); sp != nil {
			for _, o := range sp.Obstacles() {
				out = appendObstacle(out, o, cols, rows)
			}
		}
		if ps := a.game.Particles(); ps != nil {
			for _, p := range ps.Particles() {
				put(p.X, p.Y, '*', tcell.StyleDefault.Foreground(hexColor(p.Color, p.Alpha())))
			}
		}
		if pl := a.game.Player(); pl != nil && a.game.State() != structs.StateGameOver {
			put(pl.X, pl.Y, '@', tcell.StyleDefault.Foreground(hexColor(player.Color, 1)).Bold(true))
		}
	}

	return append(out, a.textCells(cols, rows)...)
}

func appendObstacle(out []cell, o *obstacle.Obstacle, cols, rows int) []cell {
	style := tcell.StyleDefault.Foreground(hexColor(o.Color, 1))
	for _, part := range o.Parts() {
		x0 := int(math.Floor(part.X / CellWidth))
		x1 := int(math.Ceil((part.X + part.W) / CellWidth))
		y0 := int(math.Floor(part.Y / CellHeight))
		y1 := int(math.Ceil((part.Y + part.H) / CellHeight))
		for y := max(y0, 0); y < min(y1, rows); y++ {
			for x := max(x0, 0); x < min(x1, cols); x++ {
				out = append(out, cell{x, y, '█', style})
			}
		}
	}
	return out
}

// textCells centers the overlay lines. The HUD score sits on the top row.
func (a *App) textCells(cols, rows int) []cell {
	snap := a.game.Snapshot()
	lines := a.overlay.Lines(snap)
	if len(lines) == 0 {
		return nil
	}
	top := rows/2 - len(lines)/2
	if snap.State == structs.StatePlaying {
		top = 0
	}
	var out []cell
	for i, line := range lines {
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		switch {
		case i == 0 && snap.State != structs.StatePlaying:
			style = tcell.StyleDefault.Foreground(hexColor(player.Color, 1)).Bold(true)
		case line == "NEW RECORD!":
			style = tcell.StyleDefault.Foreground(hexColor("#ff00aa", 1)).Bold(true)
		}
		y := top + i
		if y < 0 || y >= rows {
			continue
		}
		runes := []rune(line)
		x := (cols - len(runes)) / 2
		for j, r := range runes {
			if x+j >= 0 && x+j < cols {
				out = append(out, cell{x + j, y, r, style})
			}
		}
	}
	return out
}

func hexColor(hex string, alpha float64) tcell.Color {
	r, g, b := particles.ParseHex(hex)
	alpha = math.Max(0, math.Min(1, alpha))
	return tcell.NewRGBColor(int32(r*alpha*255), int32(g*alpha*255), int32(b*alpha*255))
}

func gray(v float64) tcell.Color {
	c := int32(math.Max(0, math.Min(1, v)) * 255)
	return tcell.NewRGBColor(c, c, c)
}
