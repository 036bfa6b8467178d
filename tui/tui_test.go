package tui

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/sky-node-escape/game"
	"github.com/hoshinonyaruko/sky-node-escape/structs"
	"github.com/hoshinonyaruko/sky-node-escape/ui"
)

func newTestApp(t *testing.T, cols, rows int) (*App, *game.Game) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	g := game.New(structs.DefaultTuning(), 100, 100, nil, nil, rand.New(rand.NewSource(3)))
	a := New(screen, g, ui.NewAdapter(nil, 0))
	a.resize()
	return a, g
}

func TestKeyMapping(t *testing.T) {
	cases := []struct {
		key    tcell.Key
		r      rune
		state  structs.State
		intent structs.Intent
		quit   bool
	}{
		{tcell.KeyRune, ' ', structs.StateMenu, structs.IntentFlap, false},
		{tcell.KeyUp, 0, structs.StatePlaying, structs.IntentFlap, false},
		{tcell.KeyRune, 'p', structs.StatePlaying, structs.IntentPause, false},
		{tcell.KeyRune, 'P', structs.StatePaused, structs.IntentPause, false},
		{tcell.KeyEnter, 0, structs.StateMenu, structs.IntentStart, false},
		{tcell.KeyEnter, 0, structs.StateGameOver, structs.IntentRestart, false},
		{tcell.KeyRune, 'm', structs.StatePaused, structs.IntentMenu, false},
		{tcell.KeyEscape, 0, structs.StateGameOver, structs.IntentMenu, false},
		{tcell.KeyRune, 'q', structs.StatePlaying, structs.IntentNone, true},
		{tcell.KeyCtrlC, 0, structs.StateMenu, structs.IntentNone, true},
		{tcell.KeyRune, 'x', structs.StatePlaying, structs.IntentNone, false},
	}
	for _, tc := range cases {
		intent, quit := intentFor(tc.key, tc.r, tc.state)
		if intent != tc.intent || quit != tc.quit {
			t.Errorf("key %v rune %q in %v: got (%v, %v), want (%v, %v)",
				tc.key, tc.r, tc.state, intent, quit, tc.intent, tc.quit)
		}
	}
}

func TestResizeFollowsScreen(t *testing.T) {
	_, g := newTestApp(t, 40, 20)
	if w, h := g.Size(); w != 40*CellWidth || h != 20*CellHeight {
		t.Fatalf("game size = %dx%d", w, h)
	}
}

func TestFlapFromMenuStartsAndNotifies(t *testing.T) {
	a, g := newTestApp(t, 40, 20)
	var seen []structs.Intent
	a.OnIntent = func(i structs.Intent) { seen = append(seen, i) }

	a.apply(structs.IntentFlap, time.Unix(1, 0))
	if g.State() != structs.StatePlaying {
		t.Fatalf("state = %v", g.State())
	}
	// Start is meaningless while playing.
	a.apply(structs.IntentStart, time.Unix(1, 0))
	if len(seen) != 1 || seen[0] != structs.IntentFlap {
		t.Fatalf("notified intents = %v", seen)
	}
}

func TestResumeResetsClock(t *testing.T) {
	a, g := newTestApp(t, 40, 20)
	t0 := time.Unix(50, 0)
	a.apply(structs.IntentStart, t0)
	a.Step(t0)
	a.apply(structs.IntentPause, t0)
	a.Step(t0.Add(time.Minute))

	resume := t0.Add(2 * time.Minute)
	a.apply(structs.IntentPause, resume)
	if !a.last.Equal(resume) {
		t.Fatalf("last = %v, want %v", a.last, resume)
	}
	if g.State() != structs.StatePlaying {
		t.Fatalf("state = %v", g.State())
	}
}

func TestCellsStayOnScreen(t *testing.T) {
	a, g := newTestApp(t, 30, 12)
	now := time.Unix(10, 0)
	a.apply(structs.IntentStart, now)
	for i := 0; i < 120 && g.State() == structs.StatePlaying; i++ {
		now = now.Add(16 * time.Millisecond)
		a.Step(now)
	}

	cells := a.cells(30, 12)
	if len(cells) == 0 {
		t.Fatalf("nothing laid out")
	}
	for _, c := range cells {
		if c.x < 0 || c.y < 0 || c.x >= 30 || c.y >= 12 {
			t.Fatalf("cell off screen: %+v", c)
		}
	}
}

func TestPlayingShowsPlayerAndScore(t *testing.T) {
	a, _ := newTestApp(t, 40, 20)
	a.apply(structs.IntentStart, time.Unix(1, 0))
	a.Step(time.Unix(1, 0))

	var player, score bool
	for _, c := range a.cells(40, 20) {
		if c.r == '@' {
			player = true
		}
		if c.y == 0 && c.r == '0' {
			score = true
		}
	}
	if !player || !score {
		t.Fatalf("player drawn %v, score drawn %v", player, score)
	}
}

func TestMenuShowsTitle(t *testing.T) {
	a, _ := newTestApp(t, 40, 20)
	var got []rune
	for _, c := range a.textCells(40, 20) {
		if c.y == 20/2-3/2 {
			got = append(got, c.r)
		}
	}
	if string(got) != ui.Title {
		t.Fatalf("title row = %q", string(got))
	}
}

func TestTuningAppliedNextSession(t *testing.T) {
	a, g := newTestApp(t, 40, 20)
	tu := structs.DefaultTuning()
	tu.BaseSpeed = 5
	if !a.SetTuning(tu) {
		t.Fatalf("SetTuning rejected")
	}
	if a.SetTuning(tu) {
		t.Fatalf("second SetTuning should find the slot taken")
	}
	a.Step(time.Unix(1, 0))
	a.apply(structs.IntentStart, time.Unix(1, 0))
	if g.Speed() != 5 {
		t.Fatalf("speed = %v, want 5", g.Speed())
	}
}
