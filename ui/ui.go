// Package ui turns game snapshots and game-over events into screens.
// It never touches the simulation.
package ui

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/sky-node-escape/memimg"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

const Title = "SKY NODE ESCAPE"

// Adapter holds what the presentation layer knows: the last game-over result.
// Poll and the draw methods must run on the same goroutine.
type Adapter struct {
	events    <-chan structs.GameOverEvent
	last      structs.GameOverEvent
	hasResult bool
	blur      float64
}

// NewAdapter reads game-over events from events, which may be nil.
func NewAdapter(events <-chan structs.GameOverEvent, blurSigma float64) *Adapter {
	return &Adapter{events: events, blur: blurSigma}
}

// Poll drains pending events without blocking.
func (a *Adapter) Poll() {
	if a.events == nil {
		return
	}
	for {
		select {
		case ev, ok := <-a.events:
			if !ok {
				a.events = nil
				return
			}
			a.Handle(ev)
		default:
			return
		}
	}
}

func (a *Adapter) Handle(ev structs.GameOverEvent) {
	a.last = ev
	a.hasResult = true
}

// LastResult is the most recent game-over event.
func (a *Adapter) LastResult() (structs.GameOverEvent, bool) {
	return a.last, a.hasResult
}

// Lines is the overlay text for a state, top to bottom.
func (a *Adapter) Lines(s structs.Snapshot) []string {
	switch s.State {
	case structs.StateMenu:
		return []string{
			Title,
			fmt.Sprintf("HIGH SCORE %d   GAMES %d", s.HighScore, s.GamesPlayed),
			"SPACE / ENTER TO START",
		}
	case structs.StatePlaying:
		return []string{fmt.Sprintf("%d", s.Score)}
	case structs.StatePaused:
		return []string{
			"PAUSED",
			"P TO RESUME   ENTER TO RESTART   M TO QUIT",
		}
	case structs.StateGameOver:
		score := s.Score
		record := false
		if a.hasResult {
			score = a.last.Score
			record = a.last.IsNewRecord
		}
		lines := []string{"GAME OVER", fmt.Sprintf("SCORE %d", score)}
		if record {
			lines = append(lines, "NEW RECORD!")
		}
		return append(lines, "ENTER TO RESTART   M FOR MENU")
	}
	return nil
}

// Compose draws the overlay for s on top of frame and returns a new image.
// Paused and game-over screens sit on a blurred copy of the frame.
func (a *Adapter) Compose(frame image.Image, s structs.Snapshot) image.Image {
	backdrop := frame
	if s.State == structs.StatePaused || s.State == structs.StateGameOver {
		backdrop = memimg.Blur(frame, a.blur)
	}
	dc := gg.NewContextForImage(backdrop)
	a.Draw(dc, s)
	return dc.Image()
}

// Draw writes the overlay text onto dc.
func (a *Adapter) Draw(dc *gg.Context, s structs.Snapshot) {
	lines := a.Lines(s)
	if len(lines) == 0 {
		return
	}
	w, h := float64(dc.Width()), float64(dc.Height())

	dc.Push()
	defer dc.Pop()

	if s.State == structs.StatePlaying {
		// HUD：顶部居中的分数
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(lines[0], w/2, 24, 0.5, 0.5)
		return
	}

	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	const lineHeight = 22
	y := h/2 - float64(len(lines)-1)*lineHeight/2
	for i, line := range lines {
		switch {
		case i == 0:
			dc.SetHexColor("#00f0ff")
		case line == "NEW RECORD!":
			dc.SetHexColor("#ff00aa")
		default:
			dc.SetRGB(1, 1, 1)
		}
		dc.DrawStringAnchored(line, w/2, y, 0.5, 0.5)
		y += lineHeight
	}
}
