// Package desktop runs the game in a window.
package desktop

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hoshinonyaruko/sky-node-escape/game"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
	"github.com/hoshinonyaruko/sky-node-escape/ui"
)

// 固定步长，每秒tps次Update
const (
	tps         = 60
	frameMillis = 1000.0 / tps
)

// Window adapts a Game to ebiten.Game.
type Window struct {
	game    *game.Game
	overlay *ui.Adapter
	canvas  *ebiten.Image
	tunings chan structs.Tuning

	// OnIntent, when set, is called after an intent was applied.
	OnIntent func(structs.Intent)
}

func New(g *game.Game, overlay *ui.Adapter) *Window {
	if overlay == nil {
		overlay = ui.NewAdapter(nil, 0)
	}
	return &Window{game: g, overlay: overlay, tunings: make(chan structs.Tuning, 1)}
}

// SetTuning hands new tuning to the ebiten update goroutine.
func (w *Window) SetTuning(t structs.Tuning) bool {
	select {
	case w.tunings <- t:
		return true
	default:
		return false
	}
}

// intents lists what was pressed this tick, in the order it is applied.
func (w *Window) intents() []structs.Intent {
	var out []structs.Intent
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		out = append(out, structs.IntentFlap)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		out = append(out, structs.IntentPause)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if w.game.State() == structs.StateMenu {
			out = append(out, structs.IntentStart)
		} else {
			out = append(out, structs.IntentRestart)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		out = append(out, structs.IntentMenu)
	}
	return out
}

func (w *Window) Update() error {
	select {
	case t := <-w.tunings:
		w.game.SetTuning(t)
	default:
	}
	for _, intent := range w.intents() {
		if w.game.Apply(intent) && w.OnIntent != nil {
			w.OnIntent(intent)
		}
	}
	w.game.Update(frameMillis)
	w.overlay.Poll()
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	width, height := w.game.Size()
	dc := gg.NewContext(width, height)
	w.game.Render(dc)
	frame := w.overlay.Compose(dc.Image(), w.game.Snapshot())

	rgba, ok := frame.(*image.RGBA)
	if !ok || w.canvas == nil || w.canvas.Bounds().Dx() != width || w.canvas.Bounds().Dy() != height {
		w.canvas = ebiten.NewImageFromImage(frame)
	} else {
		w.canvas.WritePixels(rgba.Pix)
	}
	screen.DrawImage(w.canvas, nil)
}

// Layout keeps the logical canvas the same size as the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if cw, ch := w.game.Size(); cw != outsideWidth || ch != outsideHeight {
		w.game.Resize(outsideWidth, outsideHeight)
	}
	return w.game.Size()
}

// Run opens the window and blocks until it is closed.
func Run(w *Window, title string) error {
	width, height := w.game.Size()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)
	return ebiten.RunGame(w)
}
